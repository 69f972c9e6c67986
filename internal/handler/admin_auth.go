package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/config"
	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/repository"
	"github.com/madhavprabhu/hostelhub/internal/utils"
)

// AdminAuthHandler covers admin login, logout and profile management.
// There is no admin signup route; accounts come from the startup seed or
// direct DB inserts.
type AdminAuthHandler struct {
	Cfg      config.Config
	Admins   *repository.AdminRepo
	Sessions *middleware.Sessions
	Log      *zap.SugaredLogger
}

func NewAdminAuthHandler(cfg config.Config, admins *repository.AdminRepo, sessions *middleware.Sessions, log *zap.SugaredLogger) *AdminAuthHandler {
	return &AdminAuthHandler{Cfg: cfg, Admins: admins, Sessions: sessions, Log: log}
}

// adminLoginReq uses adminEmail on the wire, not email, so a stray user
// login form posted at the admin route fails fast.
type adminLoginReq struct {
	AdminEmail string `json:"adminEmail"`
	Password   string `json:"password"`
}

type adminUpdateReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type adminProfile struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	Role      string    `json:"role"`
}

func sanitizeAdmin(a model.Admin) adminProfile {
	return adminProfile{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone,
		CreatedAt: a.CreatedAt, Role: model.RoleAdmin}
}

// Login authenticates an admin and sets the admin session cookie. The
// same failure message covers unknown email and bad password.
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if req.AdminEmail == "" || req.Password == "" {
		return respondErr(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.AdminEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusBadRequest, "Invalid email or password")
		}
		h.Log.Errorw("admin login query failed", "email", req.AdminEmail, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Login failed")
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return respondErr(c, http.StatusBadRequest, "Invalid email or password")
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTAdminSecret, a.ID, model.RoleAdmin, h.Cfg.SessionTTLDays)
	if err != nil {
		h.Log.Errorw("issue admin session failed", "admin_id", a.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Login failed")
	}
	h.Sessions.SetSessionCookie(c, model.RoleAdmin, tok)
	return respondOK(c, http.StatusOK, "", sanitizeAdmin(a))
}

// Logout clears the admin session cookie.
func (h *AdminAuthHandler) Logout(c echo.Context) error {
	h.Sessions.ClearSessionCookie(c, model.RoleAdmin)
	return respondOK(c, http.StatusOK, "Logged out successfully", nil)
}

// Profile returns the authenticated admin's account details.
func (h *AdminAuthHandler) Profile(c echo.Context) error {
	a, ok := middleware.SessionAdmin(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	return respondOK(c, http.StatusOK, "", sanitizeAdmin(a))
}

// UpdateProfile overwrites the admin's name and phone.
func (h *AdminAuthHandler) UpdateProfile(c echo.Context) error {
	a, ok := middleware.SessionAdmin(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return respondErr(c, http.StatusBadRequest, "Name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Admins.UpdateProfile(ctx, a.ID, req.Name, req.Phone); err != nil {
		h.Log.Errorw("admin profile update failed", "admin_id", a.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update profile")
	}
	updated, err := h.Admins.GetByID(ctx, a.ID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to update profile")
	}
	return respondOK(c, http.StatusOK, "Profile updated successfully", sanitizeAdmin(updated))
}
