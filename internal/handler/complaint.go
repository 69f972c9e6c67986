package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/realtime"
	"github.com/madhavprabhu/hostelhub/internal/repository"
	"github.com/madhavprabhu/hostelhub/internal/service"
)

// ComplaintHandler covers resident complaint filing and the admin triage
// routes. Filing pushes a new-complaint event to the shared admin room;
// resolving pushes complaint-resolved to the resident's room and writes a
// notification row so the outcome survives a closed tab.
type ComplaintHandler struct {
	Complaints *repository.ComplaintRepo
	Users      *repository.UserRepo
	Notifier   *service.Notifier
	Live       service.Publisher
	Log        *zap.SugaredLogger
}

func NewComplaintHandler(complaints *repository.ComplaintRepo, users *repository.UserRepo,
	notifier *service.Notifier, live service.Publisher, log *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{Complaints: complaints, Users: users, Notifier: notifier, Live: live, Log: log}
}

type complaintReq struct {
	Complaint string `json:"complaint"`
}

type complaintStatusReq struct {
	Status string `json:"status"`
}

type complaintJSON struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	RoomNo    string    `json:"roomNo,omitempty"`
	Complaint string    `json:"complaint"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func complaintView(c model.Complaint) complaintJSON {
	return complaintJSON{ID: c.ID, UserID: c.UserID, Complaint: c.Complaint,
		Status: c.Status, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// Create files a complaint for the calling resident. The 10-character
// minimum and its message are load-bearing; the client matches on the text.
func (h *ComplaintHandler) Create(c echo.Context) error {
	u, ok := middleware.SessionUser(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	var req complaintReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	text := strings.TrimSpace(req.Complaint)
	if len(text) < 10 {
		return respondErr(c, http.StatusBadRequest, "Complaint must be at least 10 characters long")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Complaints.Create(ctx, u.ID, text)
	if err != nil {
		h.Log.Errorw("complaint create failed", "user_id", u.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to submit complaint")
	}
	row, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to submit complaint")
	}

	view := complaintView(row)
	view.UserName = u.FullName
	view.RoomNo = u.RoomNo
	h.Live.Publish(realtime.RoomAdmins, realtime.EventNewComplaint, view)
	return respondOK(c, http.StatusCreated, "Complaint submitted successfully", view)
}

// ListMine returns the calling resident's complaints, newest first.
func (h *ComplaintHandler) ListMine(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Complaints.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Errorw("complaint list failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load complaints")
	}
	out := make([]complaintJSON, 0, len(list))
	for _, row := range list {
		out = append(out, complaintView(row))
	}
	return respondOK(c, http.StatusOK, "", out)
}

// Status returns just the status of one of the caller's complaints.
// Ownership is enforced here; the repo lookup itself is unscoped.
func (h *ComplaintHandler) Status(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Complaints.GetByID(ctx, id)
	if err != nil || row.UserID != userID {
		return respondErr(c, http.StatusNotFound, "Complaint not found")
	}
	return respondOK(c, http.StatusOK, "", echo.Map{"id": row.ID, "status": row.Status})
}

// List is the admin triage view: every complaint, optionally filtered by
// status, with the filing resident's name and room attached.
func (h *ComplaintHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidComplaintStatus(status) {
		return respondErr(c, http.StatusBadRequest, "Invalid status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Complaints.List(ctx, status)
	if err != nil {
		h.Log.Errorw("complaint admin list failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load complaints")
	}

	// Resolve each distinct resident once; a deleted account leaves the
	// name blank rather than failing the list.
	names := map[uint64]model.User{}
	out := make([]complaintJSON, 0, len(list))
	for _, row := range list {
		view := complaintView(row)
		u, seen := names[row.UserID]
		if !seen {
			u, err = h.Users.GetByID(ctx, row.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				h.Log.Errorw("complaint user lookup failed", "user_id", row.UserID, "error", err)
			}
			names[row.UserID] = u
		}
		view.UserName = u.FullName
		view.RoomNo = u.RoomNo
		out = append(out, view)
	}
	return respondOK(c, http.StatusOK, "", out)
}

// UpdateStatus moves a complaint through pending, in-progress and resolved.
// On resolve the filing resident gets a notification row and a live
// complaint-resolved event in their room.
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req complaintStatusReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if !model.ValidComplaintStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "Invalid status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Complaints.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Complaint not found")
		}
		h.Log.Errorw("complaint status update failed", "complaint_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update complaint")
	}

	if req.Status == "resolved" {
		if _, err := h.Notifier.NotifyUsers(ctx, []uint64{row.UserID}, repository.Payload{
			Type:     "complaint",
			Title:    "Complaint resolved",
			Message:  "Your complaint has been resolved by the hostel office.",
			Priority: "medium",
		}); err != nil {
			h.Log.Errorw("resolve notification failed", "complaint_id", id, "error", err)
		}
		h.Live.Publish(realtime.RoomUser(row.UserID), realtime.EventComplaintResolved, complaintView(row))
	}
	return respondOK(c, http.StatusOK, "Complaint updated successfully", complaintView(row))
}
