package router

import (
	"github.com/labstack/echo/v4"

	"github.com/madhavprabhu/hostelhub/internal/handler"
	"github.com/madhavprabhu/hostelhub/internal/middleware"
)

// UserHandlers bundles every handler mounted under the resident surface so
// RegisterUser does not grow a parameter per feature.
type UserHandlers struct {
	Auth          *handler.AuthHandler
	Announcements *handler.AnnouncementHandler
	Notifications *handler.NotificationHandler
	Complaints    *handler.ComplaintHandler
	LogBook       *handler.LogBookHandler
	Payments      *handler.PaymentHandler
	Contacts      *handler.ContactHandler
}

// RegisterUser registers the resident-facing routes.  The credential
// endpoints sit outside the session guard with the rate limiter in front;
// everything else requires a valid resident session.  cacheFeed, when
// non-nil, short-caches the announcement feed reads.
func RegisterUser(e *echo.Echo, h UserHandlers, sessions *middleware.Sessions,
	limit echo.MiddlewareFunc, cacheFeed echo.MiddlewareFunc) {

	// Unauthenticated credential routes.  The limiter keys per IP and route,
	// so a brute-force run against login does not starve signup.
	cred := e.Group("/api/user")
	cred.POST("/signup", h.Auth.Signup, limit)
	cred.POST("/login", h.Auth.Login, limit)
	// Logout only clears cookies; it works with or without a session.
	cred.POST("/logout", h.Auth.Logout)

	// Everything below requires a resident session.
	g := e.Group("/api/user", sessions.RequireUser())
	g.GET("/profile", h.Auth.Profile)
	g.PUT("/update-profile", h.Auth.UpdateProfile)
	g.PUT("/change-password", h.Auth.ChangePassword)

	// Announcement feed, active and unexpired only.
	if cacheFeed != nil {
		g.GET("/announcements", h.Announcements.ListActive, cacheFeed)
	} else {
		g.GET("/announcements", h.Announcements.ListActive)
	}
	g.POST("/announcements/:id/view", h.Announcements.RecordView)

	// Notification inbox.
	g.GET("/notifications", h.Notifications.List)
	g.GET("/notifications/unread-count", h.Notifications.UnreadCount)
	g.PATCH("/notifications/mark-all-read", h.Notifications.MarkAllRead)
	g.PATCH("/notifications/:id/read", h.Notifications.MarkRead)
	g.DELETE("/notifications/:id", h.Notifications.Delete)

	// Offline fee payments.
	g.POST("/payments/make-payment", h.Payments.Create)
	g.GET("/payments/payment-history", h.Payments.History)

	// Message box to the hostel office.
	g.POST("/contact", h.Contacts.Create)

	// Complaints live under their own prefix, matching the client paths.
	comp := e.Group("/api/complaints", sessions.RequireUser())
	comp.POST("", h.Complaints.Create)
	comp.GET("", h.Complaints.ListMine)
	comp.GET("/:id/status", h.Complaints.Status)

	// The movement register.
	lb := e.Group("/api/logbook", sessions.RequireUser())
	lb.POST("/checkout", h.LogBook.CheckOut)
	lb.PUT("/checkin/:id", h.LogBook.CheckIn)
	lb.GET("/entries", h.LogBook.ListMine)
	lb.GET("/currently-out", h.LogBook.ListCurrentlyOut)
	lb.GET("/stats", h.LogBook.StatsMine)
}
