package handler

import (
	"context"
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

// ContactHandler is the resident-to-office message box. The sender's
// profile details are snapshotted onto the message so the admin inbox is
// self-contained.
type ContactHandler struct {
	Contacts *repository.ContactRepo
	Live     service.Publisher
	Log      *zap.SugaredLogger
}

func NewContactHandler(contacts *repository.ContactRepo, live service.Publisher, log *zap.SugaredLogger) *ContactHandler {
	return &ContactHandler{Contacts: contacts, Live: live, Log: log}
}

type contactReq struct {
	Message string `json:"message"`
}

type contactJSON struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Room      string    `json:"room"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func contactView(m model.Contact) contactJSON {
	return contactJSON{ID: m.ID, UserID: m.UserID, Name: m.Name, Email: m.Email,
		Phone: m.Phone, Room: m.Room, Message: m.Message, CreatedAt: m.CreatedAt}
}

// Create stores a message from the calling resident and pushes it to the
// shared admin room.
func (h *ContactHandler) Create(c echo.Context) error {
	u, ok := middleware.SessionUser(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return respondErr(c, http.StatusBadRequest, "Message is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Contacts.Create(ctx, model.Contact{
		UserID: u.ID, Name: u.FullName, Email: u.Email,
		Phone: u.Phone, Room: u.RoomNo, Message: req.Message,
	})
	if err != nil {
		h.Log.Errorw("contact create failed", "user_id", u.ID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to send message")
	}

	view := contactView(row)
	h.Live.Publish(realtime.RoomAdmins, realtime.EventNewContactMessage, view)
	return respondOK(c, http.StatusCreated, "Message sent successfully", view)
}

// List is the admin contact inbox, newest first.
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Contacts.List(ctx)
	if err != nil {
		h.Log.Errorw("contact list failed", "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load messages")
	}
	out := make([]contactJSON, 0, len(list))
	for _, m := range list {
		out = append(out, contactView(m))
	}
	return respondOK(c, http.StatusOK, "", out)
}
