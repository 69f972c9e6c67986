package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // sentinel comparisons against repository errors
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing
    "go.uber.org/zap"             // structured logging

    "github.com/madhavprabhu/hostelhub/internal/config"     // app configuration
    "github.com/madhavprabhu/hostelhub/internal/middleware" // session cookies and context accessors
    "github.com/madhavprabhu/hostelhub/internal/model"      // role constants, entity rows
    "github.com/madhavprabhu/hostelhub/internal/repository" // DB repositories
    "github.com/madhavprabhu/hostelhub/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for resident auth endpoints and the
// global check-auth route.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *middleware.Sessions
	Log      *zap.SugaredLogger
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sessions *middleware.Sessions, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	StudyYear     string `json:"studyYear"`
	RoomNo        string `json:"roomNo"`
	ParentName    string `json:"parentName"`
	ParentPhone   string `json:"parentPhone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
	AadharNo      string `json:"aadharNo"`
	CollegeID     string `json:"collegeId"`
	Address       string `json:"address"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateProfileReq struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	RoomNo        string `json:"roomNo"`
	ProfilePic    string `json:"profilePic"`
	ParentName    string `json:"parentName"`
	ParentPhone   string `json:"parentPhone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
	Address       string `json:"address"`
}

// userProfile is the sanitized resident shape returned to clients. The
// password hash never appears here.
type userProfile struct {
	ID            uint64     `json:"id"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	StudyYear     string     `json:"studyYear"`
	RoomNo        string     `json:"roomNo"`
	ProfilePic    string     `json:"profilePic,omitempty"`
	ParentName    string     `json:"parentName"`
	ParentPhone   string     `json:"parentPhone"`
	GuardianName  string     `json:"guardianName"`
	GuardianPhone string     `json:"guardianPhone"`
	AadharNo      string     `json:"aadharNo"`
	CollegeID     string     `json:"collegeId"`
	Address       string     `json:"address"`
	IsPresent     bool       `json:"isPresent"`
	LastCheckIn   *time.Time `json:"lastCheckIn,omitempty"`
	LastCheckOut  *time.Time `json:"lastCheckOut,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Role          string     `json:"role"`
}

func sanitizeUser(u model.User) userProfile {
	return userProfile{
		ID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Phone,
		StudyYear: u.StudyYear, RoomNo: u.RoomNo, ProfilePic: u.ProfilePic,
		ParentName: u.ParentName, ParentPhone: u.ParentPhone,
		GuardianName: u.GuardianName, GuardianPhone: u.GuardianPhone,
		AadharNo: u.AadharNo, CollegeID: u.CollegeID, Address: u.Address,
		IsPresent: u.IsPresent, LastCheckIn: u.LastCheckIn, LastCheckOut: u.LastCheckOut,
		CreatedAt: u.CreatedAt, Role: model.RoleUser,
	}
}

// Signup: create resident, set session cookie, return sanitized profile.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	// Every profile field is required at signup; the hostel office uses the
	// parent/guardian chain for the logbook, so none are optional.
	required := []string{req.FullName, req.Email, req.Password, req.Phone, req.StudyYear,
		req.RoomNo, req.ParentName, req.ParentPhone, req.GuardianName, req.GuardianPhone,
		req.AadharNo, req.CollegeID, req.Address}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return respondErr(c, http.StatusBadRequest, "All fields are required")
		}
	}
	if len(req.Password) < 6 {
		return respondErr(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}
	if !model.ValidStudyYear(req.StudyYear) {
		return respondErr(c, http.StatusBadRequest, "Invalid study year")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, repository.NewUser{
		FullName: req.FullName, Email: req.Email, Password: req.Password,
		Phone: req.Phone, StudyYear: req.StudyYear, RoomNo: req.RoomNo,
		ParentName: req.ParentName, ParentPhone: req.ParentPhone,
		GuardianName: req.GuardianName, GuardianPhone: req.GuardianPhone,
		AadharNo: req.AadharNo, CollegeID: req.CollegeID, Address: req.Address,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondErr(c, http.StatusBadRequest, "User already exists")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return respondErr(c, http.StatusBadRequest, "Aadhar number or college id already registered")
		}
		h.Log.Errorw("signup failed", "email", req.Email, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to register user")
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, uid, model.RoleUser, h.Cfg.SessionTTLDays)
	if err != nil {
		h.Log.Errorw("issue session failed", "user_id", uid, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to create session")
	}
	h.Sessions.SetSessionCookie(c, model.RoleUser, tok)

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Errorw("load user after signup failed", "user_id", uid, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to register user")
	}
	return respondOK(c, http.StatusCreated, "User registered successfully", sanitizeUser(u))
}

// Login: verify credentials, set session cookie. The same message covers
// unknown email and wrong password so the endpoint cannot be used to probe
// which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondErr(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusBadRequest, "Invalid email or password")
		}
		h.Log.Errorw("login query failed", "email", req.Email, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Login failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondErr(c, http.StatusBadRequest, "Invalid email or password")
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, model.RoleUser, h.Cfg.SessionTTLDays)
	if err != nil {
		h.Log.Errorw("issue session failed", "user_id", u.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Login failed")
	}
	h.Sessions.SetSessionCookie(c, model.RoleUser, tok)
	return respondOK(c, http.StatusOK, "", sanitizeUser(u))
}

// Logout clears the resident session cookie. Nothing is revoked server
// side; the token simply stops being sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.ClearSessionCookie(c, model.RoleUser)
	return respondOK(c, http.StatusOK, "Logged out successfully", nil)
}

// CheckAuth answers "who am I?" for either role. The resolver tries the
// admin cookie first; with both cookies valid, admin wins.
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	_, role, err := h.Sessions.Resolve(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	// check-auth answers {success, user} rather than the data envelope;
	// the client reads the role off this one response to pick a dashboard.
	if role == model.RoleAdmin {
		a, _ := middleware.SessionAdmin(c)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "user": sanitizeAdmin(a)})
	}
	u, _ := middleware.SessionUser(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": sanitizeUser(u)})
}

// Profile returns the caller's sanitized account row.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, ok := middleware.SessionUser(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	return respondOK(c, http.StatusOK, "", sanitizeUser(u))
}

// UpdateProfile overwrites the caller's mutable profile fields.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	u, ok := middleware.SessionUser(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.RoomNo) == "" {
		return respondErr(c, http.StatusBadRequest, "Name, phone and room are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, u.ID, repository.ProfileUpdate{
		FullName: req.FullName, Phone: req.Phone, RoomNo: req.RoomNo,
		ProfilePic: req.ProfilePic, ParentName: req.ParentName, ParentPhone: req.ParentPhone,
		GuardianName: req.GuardianName, GuardianPhone: req.GuardianPhone, Address: req.Address,
	}); err != nil {
		h.Log.Errorw("profile update failed", "user_id", u.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update profile")
	}
	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to update profile")
	}
	return respondOK(c, http.StatusOK, "Profile updated successfully", sanitizeUser(updated))
}

// ChangePassword verifies the current password before storing a new hash.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	u, ok := middleware.SessionUser(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return respondErr(c, http.StatusBadRequest, "Current and new password required")
	}
	if len(req.NewPassword) < 6 {
		return respondErr(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return respondErr(c, http.StatusBadRequest, "Current password is incorrect")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, u.ID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		h.Log.Errorw("password update failed", "user_id", u.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to change password")
	}
	return respondOK(c, http.StatusOK, "Password changed successfully", nil)
}
