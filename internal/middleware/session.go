package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // bounds the principal lookups that back every guarded request
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/madhavprabhu/hostelhub/internal/config"     // cookie/session settings
    "github.com/madhavprabhu/hostelhub/internal/model"      // role constants and principal rows
    "github.com/madhavprabhu/hostelhub/internal/repository" // principal lookups
    "github.com/madhavprabhu/hostelhub/internal/utils"      // session token parsing
)

// Cookie names for the two session kinds.  A browser can hold both at once;
// ResolveSession documents the admin-first tie-break for that case.
const (
    UserCookie  = "jwt"
    AdminCookie = "admin_jwt"
)

// Context keys set by the guards.  Handlers read the principal id and role
// with c.Get; the loaded row is stored too so handlers that need profile
// fields (contact auto-enrichment, check-auth) avoid a second query.
const (
    CtxPrincipalID = "principal_id" // uint64
    CtxRole        = "role"         // "user" | "admin"
    CtxUser        = "session_user" // model.User, set by RequireUser/ResolveSession
    CtxAdmin       = "session_admin" // model.Admin, set by RequireAdmin/ResolveSession
)

// Sessions bundles what session resolution needs: both signing secrets and
// the principal repositories.  A token is only trusted if its referenced
// row still exists — a deleted account ends its sessions at the next
// request even though the cookie itself stays cryptographically valid.
type Sessions struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Admins *repository.AdminRepo
}

func NewSessions(cfg config.Config, users *repository.UserRepo, admins *repository.AdminRepo) *Sessions {
    return &Sessions{Cfg: cfg, Users: users, Admins: admins}
}

// SetSessionCookie writes a session cookie for the given role.  httpOnly
// always; SameSite=None+Secure in prod so the SPA on another origin can
// send it, Lax on localhost.
func (s *Sessions) SetSessionCookie(c echo.Context, role string, tok utils.SessionToken) {
    name := UserCookie
    if role == model.RoleAdmin {
        name = AdminCookie
    }
    cookie := &http.Cookie{
        Name:     name,
        Value:    tok.Token,
        Path:     "/",
        Expires:  tok.Exp,
        HttpOnly: true,
        Secure:   s.Cfg.IsProd(),
        SameSite: http.SameSiteLaxMode,
    }
    if s.Cfg.IsProd() {
        cookie.SameSite = http.SameSiteNoneMode
    }
    c.SetCookie(cookie)
}

// ClearSessionCookie expires the cookie for the given role.  Logout is
// purely client-side cookie clearing; there is no server-side revocation,
// so an exfiltrated token stays valid until its expiry.
func (s *Sessions) ClearSessionCookie(c echo.Context, role string) {
    name := UserCookie
    if role == model.RoleAdmin {
        name = AdminCookie
    }
    c.SetCookie(&http.Cookie{
        Name:     name,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   s.Cfg.IsProd(),
    })
}

// RequireUser returns a middleware that admits only resident sessions.  The
// token is read from the "jwt" cookie, or from a Bearer Authorization
// header as a fallback for non-browser clients.  On success the resident's
// id, role and loaded row are stored in the context.
func (s *Sessions) RequireUser() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := tokenFromRequest(c, UserCookie)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Not authenticated"})
            }
            claims, err := utils.ParseSessionToken(s.Cfg.JWTSecret, raw)
            if err != nil || claims.Role != model.RoleUser {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid or expired token"})
            }
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            u, err := s.Users.GetByID(ctx, claims.ID)
            if err != nil {
                // Valid token but the referenced resident is gone.
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not found"})
            }
            c.Set(CtxPrincipalID, u.ID)
            c.Set(CtxRole, model.RoleUser)
            c.Set(CtxUser, u)
            return next(c)
        }
    }
}

// RequireAdmin returns a middleware that admits only admin sessions, read
// exclusively from the "admin_jwt" cookie.
func (s *Sessions) RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := cookieValue(c, AdminCookie)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Not authenticated"})
            }
            claims, err := utils.ParseSessionToken(s.Cfg.JWTAdminSecret, raw)
            if err != nil || claims.Role != model.RoleAdmin {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid or expired token"})
            }
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            a, err := s.Admins.GetByID(ctx, claims.ID)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Admin not found"})
            }
            c.Set(CtxPrincipalID, a.ID)
            c.Set(CtxRole, model.RoleAdmin)
            c.Set(CtxAdmin, a)
            return next(c)
        }
    }
}

// Resolve answers "who is calling?" for routes open to either role
// (check-auth, the websocket upgrade).  The admin cookie is checked first
// and wins when both cookies are present and valid; this tie-break is
// deliberate and documented here because nothing else defines it.
func (s *Sessions) Resolve(c echo.Context) (uint64, string, error) {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if raw := cookieValue(c, AdminCookie); raw != "" {
        claims, err := utils.ParseSessionToken(s.Cfg.JWTAdminSecret, raw)
        if err == nil && claims.Role == model.RoleAdmin {
            a, err := s.Admins.GetByID(ctx, claims.ID)
            if err != nil {
                return 0, "", utils.ErrInvalidSession
            }
            c.Set(CtxPrincipalID, a.ID)
            c.Set(CtxRole, model.RoleAdmin)
            c.Set(CtxAdmin, a)
            return a.ID, model.RoleAdmin, nil
        }
    }
    if raw := tokenFromRequest(c, UserCookie); raw != "" {
        claims, err := utils.ParseSessionToken(s.Cfg.JWTSecret, raw)
        if err == nil && claims.Role == model.RoleUser {
            u, err := s.Users.GetByID(ctx, claims.ID)
            if err != nil {
                return 0, "", utils.ErrInvalidSession
            }
            c.Set(CtxPrincipalID, u.ID)
            c.Set(CtxRole, model.RoleUser)
            c.Set(CtxUser, u)
            return u.ID, model.RoleUser, nil
        }
    }
    return 0, "", utils.ErrInvalidSession
}

// PrincipalID extracts the authenticated principal's id set by a guard.
// Returns 0 when no guard ran, which handlers treat as a 401.
func PrincipalID(c echo.Context) uint64 {
    if v, ok := c.Get(CtxPrincipalID).(uint64); ok {
        return v
    }
    return 0
}

// SessionUser returns the resident row loaded by RequireUser.
func SessionUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(CtxUser).(model.User)
    return u, ok
}

// SessionAdmin returns the admin row loaded by RequireAdmin.
func SessionAdmin(c echo.Context) (model.Admin, bool) {
    a, ok := c.Get(CtxAdmin).(model.Admin)
    return a, ok
}

func cookieValue(c echo.Context, name string) string {
    ck, err := c.Cookie(name)
    if err != nil || ck == nil {
        return ""
    }
    return ck.Value
}

// tokenFromRequest prefers the named cookie and falls back to a Bearer
// Authorization header.
func tokenFromRequest(c echo.Context, cookieName string) string {
    if v := cookieValue(c, cookieName); v != "" {
        return v
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}
