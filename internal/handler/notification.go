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

// NotificationHandler serves the resident notification inbox plus the
// admin recent-feed and targeted-send routes.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Notifier      *service.Notifier
	Log           *zap.SugaredLogger
}

func NewNotificationHandler(repo *repository.NotificationRepo, notifier *service.Notifier, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{Notifications: repo, Notifier: notifier, Log: log}
}

type notificationJSON struct {
	ID             uint64    `json:"id"`
	AnnouncementID *uint64   `json:"announcementId,omitempty"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Priority       string    `json:"priority"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func notificationViewList(list []model.Notification) []notificationJSON {
	out := make([]notificationJSON, 0, len(list))
	for _, n := range list {
		out = append(out, notificationJSON{
			ID: n.ID, AnnouncementID: n.AnnouncementID, Type: n.Type, Title: n.Title,
			Message: n.Message, Priority: n.Priority, IsRead: n.IsRead, CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// List returns the caller's notifications, newest first, paginated.
func (h *NotificationHandler) List(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		h.Log.Errorw("notification list failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load notifications")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{
		"notifications": notificationViewList(list),
		"total":         total,
	})
}

// UnreadCount returns how many unread notifications the caller has. Polled
// by the badge in the client header.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		h.Log.Errorw("unread count failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load unread count")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{"count": n})
}

// MarkRead flags one of the caller's notifications read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Notification not found")
		}
		h.Log.Errorw("mark read failed", "notification_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update notification")
	}
	return respondOK(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead flags every unread notification of the caller read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		h.Log.Errorw("mark all read failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update notifications")
	}
	return respondOK(c, http.StatusOK, "All notifications marked as read", echo.Map{"updated": n})
}

// Delete removes one of the caller's notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Notification not found")
		}
		h.Log.Errorw("notification delete failed", "notification_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to delete notification")
	}
	return respondOK(c, http.StatusOK, "Notification deleted", nil)
}

// ListRecent is the admin overview of the most recent notifications across
// all residents.
func (h *NotificationHandler) ListRecent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Notifications.ListRecent(ctx, limit)
	if err != nil {
		h.Log.Errorw("recent notifications failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load notifications")
	}
	return respondOK(c, http.StatusOK, "", notificationViewList(list))
}

type sendNotificationReq struct {
	UserIDs  []uint64 `json:"userIds"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority string   `json:"priority"`
}

// Send lets an admin address selected residents directly. An empty userIds
// list is a no-op that still succeeds, so client-side filter results can be
// posted without checking.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendNotificationReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return respondErr(c, http.StatusBadRequest, "Title and message are required")
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !model.ValidNotificationPriority(req.Priority) {
		return respondErr(c, http.StatusBadRequest, "Invalid priority")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notifier.NotifyUsers(ctx, req.UserIDs, repository.Payload{
		Type: "general", Title: req.Title, Message: req.Message, Priority: req.Priority,
	})
	if err != nil {
		h.Log.Errorw("targeted send failed", "recipients", len(req.UserIDs), "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to send notifications")
	}
	return respondOK(c, http.StatusOK, "Notifications sent", echo.Map{"sent": n})
}
