package router

import (
	"github.com/labstack/echo/v4"

	"github.com/madhavprabhu/hostelhub/internal/handler"
	"github.com/madhavprabhu/hostelhub/internal/middleware"
)

// AdminHandlers bundles every handler mounted under the admin surface.
type AdminHandlers struct {
	Auth          *handler.AdminAuthHandler
	Announcements *handler.AnnouncementHandler
	Notifications *handler.NotificationHandler
	Complaints    *handler.ComplaintHandler
	LogBook       *handler.LogBookHandler
	Payments      *handler.PaymentHandler
	Contacts      *handler.ContactHandler
	Dashboard     *handler.DashboardHandler
}

// RegisterAdmin registers the admin routes.  Login sits outside the guard
// behind the rate limiter; everything else requires the admin cookie.
// cacheBoard, when non-nil, short-caches the room-occupancy board.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, sessions *middleware.Sessions,
	limit echo.MiddlewareFunc, cacheBoard echo.MiddlewareFunc) {

	e.POST("/api/admin/login", h.Auth.Login, limit)
	e.POST("/api/admin/logout", h.Auth.Logout)

	g := e.Group("/api/admin", sessions.RequireAdmin())
	g.GET("/profile", h.Auth.Profile)
	g.PUT("/profile", h.Auth.UpdateProfile)

	// Announcement management.  Create fans out notifications; delete
	// cascades to them.
	g.POST("/announcements", h.Announcements.Create)
	g.GET("/announcements", h.Announcements.List)
	g.GET("/announcements/:id", h.Announcements.Get)
	g.PUT("/announcements/:id", h.Announcements.Update)
	g.PATCH("/announcements/:id/toggle", h.Announcements.Toggle)
	g.DELETE("/announcements/:id", h.Announcements.Delete)

	// Notification overview and targeted sends.
	g.GET("/notifications", h.Notifications.ListRecent)
	g.POST("/notifications", h.Notifications.Send)

	// Complaint triage.
	g.GET("/complaints", h.Complaints.List)
	g.PATCH("/complaints/:id", h.Complaints.UpdateStatus)

	// The movement register across all residents.
	g.GET("/logbook/entries", h.LogBook.ListAll)
	g.GET("/logbook/currently-out", h.LogBook.ListCurrentlyOut)

	// Fee corrections.
	g.GET("/payments/user-payment-history/:userId", h.Payments.UserHistory)
	g.PATCH("/payments/update-payment-history/:paymentId", h.Payments.Update)

	// Contact inbox.
	g.GET("/contacts", h.Contacts.List)

	// Room occupancy board.
	if cacheBoard != nil {
		g.GET("/dashboard/room-occupancy", h.Dashboard.Occupancy, cacheBoard)
	} else {
		g.GET("/dashboard/room-occupancy", h.Dashboard.Occupancy)
	}
}
