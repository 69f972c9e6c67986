package model

import "time"

// Announcement is an admin-authored notice shown to every resident, stored
// in the `announcements` table.  Creating one fans out a notification row
// per active resident; deleting one cascades to those rows.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short headline, at most 200 characters.
//  Content     – body text, at most 2000 characters.
//  Priority    – low | medium | high.
//  Category    – general | maintenance | facility | emergency | event.
//  IsActive    – soft-expiry flag; inactive announcements are hidden from
//                residents without being deleted.
//  CreatedDate – display date, admin-settable (may differ from CreatedAt).
//  ExpiryDate  – optional expiry; must be on or after CreatedDate.
//  CreatedBy   – admin who authored the announcement.
//  UpdatedBy   – admin who last edited it (nullable).
//  TotalViews  – running view counter, incremented on every view.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Announcement struct {
    ID          uint64     // announcements.id
    Title       string     // announcements.title
    Content     string     // announcements.content
    Priority    string     // announcements.priority
    Category    string     // announcements.category
    IsActive    bool       // announcements.is_active
    CreatedDate time.Time  // announcements.created_date
    ExpiryDate  *time.Time // announcements.expiry_date (nullable)
    CreatedBy   uint64     // announcements.created_by
    UpdatedBy   *uint64    // announcements.updated_by (nullable)
    TotalViews  uint64     // announcements.total_views
    CreatedAt   time.Time  // announcements.created_at
    UpdatedAt   time.Time  // announcements.updated_at
}

// IsExpired reports whether the announcement's expiry date has passed.
// Announcements without an expiry never expire.
func (a Announcement) IsExpired(now time.Time) bool {
    return a.ExpiryDate != nil && now.After(*a.ExpiryDate)
}

// AnnouncementView records that one resident has seen one announcement,
// stored in `announcement_views` with a unique (announcement_id, user_id)
// pair so repeat views do not duplicate rows.
//
// Fields:
//  ID             – primary key identifier.
//  AnnouncementID – the viewed announcement.
//  UserID         – the resident who viewed it.
//  ViewedAt       – first view timestamp.
type AnnouncementView struct {
    ID             uint64    // announcement_views.id
    AnnouncementID uint64    // announcement_views.announcement_id
    UserID         uint64    // announcement_views.user_id
    ViewedAt       time.Time // announcement_views.viewed_at
}

// Accepted values for announcements.priority and announcements.category.
var (
    AnnouncementPriorities = []string{"low", "medium", "high"}
    AnnouncementCategories = []string{"general", "maintenance", "facility", "emergency", "event"}
)

// ValidAnnouncementPriority reports whether p is an accepted priority.
func ValidAnnouncementPriority(p string) bool { return contains(AnnouncementPriorities, p) }

// ValidAnnouncementCategory reports whether c is an accepted category.
func ValidAnnouncementCategory(c string) bool { return contains(AnnouncementCategories, c) }

func contains(list []string, v string) bool {
    for _, s := range list {
        if s == v {
            return true
        }
    }
    return false
}
