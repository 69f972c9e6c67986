package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/realtime"
)

// WSHandler upgrades authenticated requests into hub connections. The
// session is resolved before the upgrade, so the socket's identity comes
// from the verified cookie and never from anything the client sends over
// the wire afterwards.
type WSHandler struct {
	Hub      *realtime.Hub
	Sessions *middleware.Sessions
	Log      *zap.SugaredLogger
}

func NewWSHandler(hub *realtime.Hub, sessions *middleware.Sessions, log *zap.SugaredLogger) *WSHandler {
	return &WSHandler{Hub: hub, Sessions: sessions, Log: log}
}

// Connect resolves the session cookie and hands the connection to the hub.
func (h *WSHandler) Connect(c echo.Context) error {
	id, role, err := h.Sessions.Resolve(c)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.Hub.ServeWS(c.Response(), c.Request(), id, role); err != nil {
		h.Log.Warnw("websocket upgrade failed", "principal", id, "role", role, "error", err)
		return err
	}
	return nil
}
