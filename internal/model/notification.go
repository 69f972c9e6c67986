package model

import "time"

// Notification is one resident's copy of a system event, stored in the
// `notifications` table.  Announcement notifications are materialized
// fan-out-on-write: one row per active resident at announcement-creation
// time.  Residents who sign up later never retroactively receive rows for
// earlier announcements.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – addressed resident.
//  AnnouncementID – source announcement, when the notification came from one
//                   (nullable; cascade-deleted with the announcement).
//  Type           – announcement category, or complaint|contact|general for
//                   non-announcement notifications.
//  Title          – short headline.
//  Message        – body text.
//  Priority       – low | medium | high | urgent.
//  IsRead         – whether the resident has opened it.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Notification struct {
    ID             uint64    // notifications.id
    UserID         uint64    // notifications.user_id
    AnnouncementID *uint64   // notifications.announcement_id (nullable)
    Type           string    // notifications.type
    Title          string    // notifications.title
    Message        string    // notifications.message
    Priority       string    // notifications.priority
    IsRead         bool      // notifications.is_read
    CreatedAt      time.Time // notifications.created_at
    UpdatedAt      time.Time // notifications.updated_at
}

// NotificationPriorities lists accepted notifications.priority values.
// "urgent" exists here but not on announcements; targeted admin sends may
// use it.
var NotificationPriorities = []string{"low", "medium", "high", "urgent"}

// ValidNotificationPriority reports whether p is an accepted priority.
func ValidNotificationPriority(p string) bool { return contains(NotificationPriorities, p) }
