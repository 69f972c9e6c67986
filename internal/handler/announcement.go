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
	"github.com/madhavprabhu/hostelhub/internal/service"
)

// AnnouncementHandler serves both surfaces of the announcement feature:
// the admin CRUD routes and the resident feed. Writes go through the
// Notifier so notification fan-out and realtime events stay in one place.
type AnnouncementHandler struct {
	Announcements *repository.AnnouncementRepo
	Notifier      *service.Notifier
	Log           *zap.SugaredLogger
}

func NewAnnouncementHandler(repo *repository.AnnouncementRepo, notifier *service.Notifier, log *zap.SugaredLogger) *AnnouncementHandler {
	return &AnnouncementHandler{Announcements: repo, Notifier: notifier, Log: log}
}

type announcementReq struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	CreatedDate string `json:"createdDate"` // YYYY-MM-DD, defaults to today
	ExpiryDate  string `json:"expiryDate"`  // YYYY-MM-DD, empty means no expiry
}

type announcementJSON struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	IsActive    bool       `json:"isActive"`
	CreatedDate time.Time  `json:"createdDate"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	CreatedBy   uint64     `json:"createdBy"`
	UpdatedBy   *uint64    `json:"updatedBy,omitempty"`
	TotalViews  uint64     `json:"totalViews"`
	IsExpired   bool       `json:"isExpired"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func announcementView(a model.Announcement) announcementJSON {
	return announcementJSON{
		ID: a.ID, Title: a.Title, Content: a.Content, Priority: a.Priority,
		Category: a.Category, IsActive: a.IsActive, CreatedDate: a.CreatedDate,
		ExpiryDate: a.ExpiryDate, CreatedBy: a.CreatedBy, UpdatedBy: a.UpdatedBy,
		TotalViews: a.TotalViews, IsExpired: a.IsExpired(time.Now().UTC()),
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func announcementViews(list []model.Announcement) []announcementJSON {
	out := make([]announcementJSON, 0, len(list))
	for _, a := range list {
		out = append(out, announcementView(a))
	}
	return out
}

// parseAnnouncement validates the request body into a repo payload.
// Returns a user-facing message on failure.
func parseAnnouncement(req announcementReq, createdBy uint64) (repository.NewAnnouncement, string) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return repository.NewAnnouncement{}, "Title and content are required"
	}
	if len(req.Title) > 200 {
		return repository.NewAnnouncement{}, "Title must be at most 200 characters"
	}
	if len(req.Content) > 2000 {
		return repository.NewAnnouncement{}, "Content must be at most 2000 characters"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !model.ValidAnnouncementPriority(req.Priority) {
		return repository.NewAnnouncement{}, "Invalid priority"
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if !model.ValidAnnouncementCategory(req.Category) {
		return repository.NewAnnouncement{}, "Invalid category"
	}

	created := time.Now().UTC()
	if req.CreatedDate != "" {
		d, err := time.Parse("2006-01-02", req.CreatedDate)
		if err != nil {
			return repository.NewAnnouncement{}, "Invalid created date"
		}
		created = d
	}
	var expiry *time.Time
	if req.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return repository.NewAnnouncement{}, "Invalid expiry date"
		}
		if d.Before(created) {
			return repository.NewAnnouncement{}, "Expiry date must be on or after the created date"
		}
		expiry = &d
	}
	return repository.NewAnnouncement{
		Title: req.Title, Content: req.Content, Priority: req.Priority,
		Category: req.Category, CreatedDate: created, ExpiryDate: expiry,
		CreatedBy: createdBy,
	}, ""
}

// Create inserts an announcement and fans out a notification to every
// resident. The announcement stands even when fan-out partially fails;
// the failure is logged and the response still succeeds.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	adminID := middleware.PrincipalID(c)
	var req announcementReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	payload, msg := parseAnnouncement(req, adminID)
	if msg != "" {
		return respondErr(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Announcements.Create(ctx, payload)
	if err != nil {
		h.Log.Errorw("announcement create failed", "admin_id", adminID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to create announcement")
	}
	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to create announcement")
	}

	if _, err := h.Notifier.FanOutAnnouncement(ctx, a); err != nil {
		h.Log.Errorw("announcement fan-out failed", "announcement_id", id, "error", err)
	}
	return respondOK(c, http.StatusCreated, "Announcement created successfully", announcementView(a))
}

// List is the admin view: every announcement, filterable and paginated.
func (h *AnnouncementHandler) List(c echo.Context) error {
	f := repository.Filter{
		Priority: c.QueryParam("priority"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sortBy"),
		SortDesc: c.QueryParam("sortOrder") != "asc",
	}
	if v := c.QueryParam("isActive"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Announcements.List(ctx, f)
	if err != nil {
		h.Log.Errorw("announcement list failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load announcements")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{
		"announcements": announcementViews(list),
		"total":         total,
	})
}

// ListActive is the resident feed: active, unexpired, high priority first.
func (h *AnnouncementHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Announcements.ListActive(ctx)
	if err != nil {
		h.Log.Errorw("active announcement list failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load announcements")
	}
	return respondOK(c, http.StatusOK, "", announcementViews(list))
}

// Get returns a single announcement by id.
func (h *AnnouncementHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Announcement not found")
		}
		return respondErr(c, http.StatusInternalServerError, "Failed to load announcement")
	}
	return respondOK(c, http.StatusOK, "", announcementView(a))
}

// Update overwrites an announcement. Edits do not re-notify residents.
func (h *AnnouncementHandler) Update(c echo.Context) error {
	adminID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req announcementReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	payload, msg := parseAnnouncement(req, adminID)
	if msg != "" {
		return respondErr(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Announcements.Update(ctx, id, payload, adminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Announcement not found")
		}
		h.Log.Errorw("announcement update failed", "announcement_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update announcement")
	}
	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to update announcement")
	}
	return respondOK(c, http.StatusOK, "Announcement updated successfully", announcementView(a))
}

// Toggle flips the active flag without touching content.
func (h *AnnouncementHandler) Toggle(c echo.Context) error {
	adminID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	active, err := h.Announcements.ToggleActive(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Announcement not found")
		}
		h.Log.Errorw("announcement toggle failed", "announcement_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update announcement")
	}
	msg := "Announcement deactivated"
	if active {
		msg = "Announcement activated"
	}
	return respondOK(c, http.StatusOK, msg, echo.Map{"isActive": active})
}

// Delete removes an announcement and cascades: its notification rows are
// deleted and connected clients are told to drop it.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Announcement not found")
		}
		h.Log.Errorw("announcement delete failed", "announcement_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to delete announcement")
	}
	if _, err := h.Notifier.CascadeDelete(ctx, id); err != nil {
		h.Log.Errorw("announcement cascade failed", "announcement_id", id, "error", err)
	}
	return respondOK(c, http.StatusOK, "Announcement deleted successfully", nil)
}

// RecordView marks the announcement as seen by the calling resident.
func (h *AnnouncementHandler) RecordView(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Announcements.RecordView(ctx, id, userID); err != nil {
		h.Log.Errorw("record view failed", "announcement_id", id, "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to record view")
	}
	return respondOK(c, http.StatusOK, "View recorded", nil)
}

// pathID parses a numeric path parameter shared by all handlers.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
