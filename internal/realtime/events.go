// Package realtime maintains the websocket broadcast hub.  Rooms are named
// groups of connected sockets; the notification materializer publishes into
// them after its database writes succeed.  Delivery is at-most-once: events
// emitted while a socket is disconnected are lost, and a reconnecting
// client must re-join its rooms.
package realtime

import "fmt"

// Server-to-client event names.  Payload shapes are defined by the callers
// that publish them (handlers and the materializer).
const (
    EventNewAnnouncement     = "new-announcement"
    EventUserNotification    = "user-notification"
    EventAnnouncementDeleted = "announcement-deleted"
    EventNewContactMessage   = "new-contact-message"
    EventNewComplaint        = "new-complaint"
    EventComplaintResolved   = "complaint-resolved"
)

// Client-to-server event names.  Join messages only trigger room joins; the
// identity joined is always the one proven by the session cookie at
// upgrade time, never anything the client sends.
const (
    joinUser  = "join-user"
    joinAdmin = "join-admin"
)

// RoomAdmins is the shared room every connected admin session joins, so
// admin-facing events (new contact message, new complaint) reach every
// open admin tab.
const RoomAdmins = "admin_admin"

// RoomUser names one resident's private room.
func RoomUser(id uint64) string { return fmt.Sprintf("user_%d", id) }

// RoomAdmin names one admin's private room.
func RoomAdmin(id uint64) string { return fmt.Sprintf("admin_%d", id) }

// envelope is the wire format for both directions: an event name plus an
// event-specific JSON payload.
type envelope struct {
    Event string      `json:"event"`
    Data  interface{} `json:"data,omitempty"`
}
