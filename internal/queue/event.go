// Package queue defines message payloads exchanged over the message broker.
package queue

// AnnouncementPublishedEvent is published after an announcement is created
// and its notifications are materialized. It carries enough information for
// downstream consumers to log or archive the fan-out without querying the
// primary database.
type AnnouncementPublishedEvent struct {
    AnnouncementID uint64 `json:"announcement_id"`
    Title          string `json:"title"`
    Category       string `json:"category"`
    Priority       string `json:"priority"`
    CreatedBy      uint64 `json:"created_by"`
    Recipients     int    `json:"recipients"`
    PublishedAt    string `json:"published_at"`
}
