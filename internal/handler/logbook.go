package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/repository"
)

// LogBookHandler runs the movement register: residents check out with a
// permission record and check back in exactly once; admins see who is out.
// Presence on the user row mirrors the open/closed state of the latest
// entry so the occupancy board does not need to join the register.
type LogBookHandler struct {
	Entries *repository.LogBookRepo
	Users   *repository.UserRepo
	Log     *zap.SugaredLogger
}

func NewLogBookHandler(entries *repository.LogBookRepo, users *repository.UserRepo, log *zap.SugaredLogger) *LogBookHandler {
	return &LogBookHandler{Entries: entries, Users: users, Log: log}
}

type checkoutReq struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Permission string `json:"permission"`
	OutTime    string `json:"outTime"` // RFC 3339, defaults to now
	Reason     string `json:"reason"`
}

type logEntryJSON struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"userId"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Permission string     `json:"permission"`
	OutTime    time.Time  `json:"outTime"`
	InTime     *time.Time `json:"inTime,omitempty"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func logEntryView(e model.LogEntry) logEntryJSON {
	status := "in"
	if e.IsOut() {
		status = "out"
	}
	return logEntryJSON{ID: e.ID, UserID: e.UserID, Name: e.Name, Phone: e.Phone,
		Permission: e.Permission, OutTime: e.OutTime, InTime: e.InTime,
		Reason: e.Reason, Status: status, CreatedAt: e.CreatedAt}
}

func logEntryViewList(list []model.LogEntry) []logEntryJSON {
	out := make([]logEntryJSON, 0, len(list))
	for _, e := range list {
		out = append(out, logEntryView(e))
	}
	return out
}

// CheckOut opens a register entry for the calling resident and marks them
// absent on the occupancy board.
func (h *LogBookHandler) CheckOut(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Name == "" || req.Phone == "" || req.Reason == "" {
		return respondErr(c, http.StatusBadRequest, "Name, phone and reason are required")
	}
	if !model.ValidLogPermission(req.Permission) {
		return respondErr(c, http.StatusBadRequest, "Invalid permission source")
	}
	out := time.Now().UTC()
	if req.OutTime != "" {
		t, err := time.Parse(time.RFC3339, req.OutTime)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "Invalid out time")
		}
		out = t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Entries.Create(ctx, repository.NewLogEntry{
		UserID: userID, Name: req.Name, Phone: req.Phone,
		Permission: req.Permission, OutTime: out, Reason: req.Reason,
	})
	if err != nil {
		h.Log.Errorw("checkout failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to check out")
	}
	if err := h.Users.SetPresence(ctx, userID, false, out); err != nil {
		h.Log.Errorw("presence update failed", "user_id", userID, "error", err)
	}
	entry, err := h.Entries.GetForUser(ctx, id, userID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to check out")
	}
	return respondOK(c, http.StatusCreated, "Checked out successfully", logEntryView(entry))
}

// CheckIn closes the entry. The repository enforces the once-only
// transition; a repeat attempt maps to a client error, not a server one.
func (h *LogBookHandler) CheckIn(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	entry, err := h.Entries.CheckIn(ctx, id, userID, now)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			return respondErr(c, http.StatusBadRequest, "Already checked in")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Log entry not found")
		}
		h.Log.Errorw("checkin failed", "entry_id", id, "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to check in")
	}
	if err := h.Users.SetPresence(ctx, userID, true, now); err != nil {
		h.Log.Errorw("presence update failed", "user_id", userID, "error", err)
	}
	return respondOK(c, http.StatusOK, "Checked in successfully", logEntryView(entry))
}

// ListMine returns the calling resident's register entries. The status
// query param filters open ("out") or closed ("in") entries.
func (h *LogBookHandler) ListMine(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	status := c.QueryParam("status")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Entries.ListByUser(ctx, userID, status, page, limit)
	if err != nil {
		h.Log.Errorw("log entries failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load entries")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{
		"entries": logEntryViewList(list),
		"total":   total,
	})
}

// StatsMine summarizes the calling resident's register.
func (h *LogBookHandler) StatsMine(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Entries.StatsByUser(ctx, userID)
	if err != nil {
		h.Log.Errorw("log stats failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load stats")
	}
	return respondOK(c, http.StatusOK, "", s)
}

// ListCurrentlyOut is the admin gate view: every resident who has not
// checked back in, longest out first.
func (h *LogBookHandler) ListCurrentlyOut(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Entries.ListCurrentlyOut(ctx)
	if err != nil {
		h.Log.Errorw("currently-out list failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load entries")
	}
	return respondOK(c, http.StatusOK, "", logEntryViewList(list))
}

// ListAll is the admin register view across all residents.
func (h *LogBookHandler) ListAll(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Entries.ListAll(ctx, page, limit)
	if err != nil {
		h.Log.Errorw("log register failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load entries")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{
		"entries": logEntryViewList(list),
		"total":   total,
	})
}
