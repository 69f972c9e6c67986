package service

import (
    "context"
    "time"

    "go.uber.org/zap"

    "github.com/madhavprabhu/hostelhub/internal/model"
    "github.com/madhavprabhu/hostelhub/internal/queue"
    "github.com/madhavprabhu/hostelhub/internal/realtime"
    "github.com/madhavprabhu/hostelhub/internal/repository"
)

// Publisher is the slice of the realtime hub the notifier needs. Tests
// substitute a recording fake.
type Publisher interface {
    Publish(room, event string, data interface{})
    Broadcast(event string, data interface{})
}

// Notifier is the notification materializer: it turns one administrative
// write into per-resident notification rows plus a live event. Database
// writes always complete before any emit; emit and broker failures are
// logged and swallowed, so the HTTP caller still sees success — the live
// channel is best-effort by design.
type Notifier struct {
    Users         *repository.UserRepo
    Notifications *repository.NotificationRepo
    Live          Publisher
    Log           *zap.SugaredLogger

    // publishEvent is swappable in tests; defaults to the RabbitMQ publisher.
    publishEvent func(context.Context, queue.AnnouncementPublishedEvent) error
}

func NewNotifier(users *repository.UserRepo, notifications *repository.NotificationRepo,
    live Publisher, log *zap.SugaredLogger) *Notifier {
    return &Notifier{
        Users:         users,
        Notifications: notifications,
        Live:          live,
        Log:           log,
        publishEvent:  PublishAnnouncementEvent,
    }
}

// FanOutAnnouncement materializes one notification per resident for a
// freshly created announcement, broadcasts the live event to every
// connected client, and records the fan-out on the broker queue. Returns
// the number of notification rows written. Zero residents is a no-op
// success, same as an explicitly empty recipient list.
func (n *Notifier) FanOutAnnouncement(ctx context.Context, a model.Announcement) (int, error) {
    ids, err := n.Users.ListIDs(ctx)
    if err != nil {
        return 0, err
    }
    annID := a.ID
    written, err := n.Notifications.InsertForUsers(ctx, ids, repository.Payload{
        AnnouncementID: &annID,
        Type:           a.Category,
        Title:          "New " + a.Category + " announcement",
        Message:        a.Content,
        Priority:       a.Priority,
    })
    if err != nil {
        return 0, err
    }

    n.Live.Broadcast(realtime.EventNewAnnouncement, echoMap{
        "id":       a.ID,
        "title":    a.Title,
        "message":  a.Content,
        "category": a.Category,
        "priority": a.Priority,
    })

    if err := n.publishEvent(ctx, queue.AnnouncementPublishedEvent{
        AnnouncementID: a.ID,
        Title:          a.Title,
        Category:       a.Category,
        Priority:       a.Priority,
        CreatedBy:      a.CreatedBy,
        Recipients:     written,
        PublishedAt:    time.Now().UTC().Format(time.RFC3339),
    }); err != nil {
        n.Log.Warnw("announcement event publish failed", "announcement_id", a.ID, "error", err)
    }
    return written, nil
}

// NotifyUsers materializes a targeted notification for the given residents
// and pushes a live event into each of their private rooms. An empty id
// list is a no-op success.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []uint64, p repository.Payload) (int, error) {
    written, err := n.Notifications.InsertForUsers(ctx, userIDs, p)
    if err != nil {
        return 0, err
    }
    for _, id := range userIDs {
        n.Live.Publish(realtime.RoomUser(id), realtime.EventUserNotification, echoMap{
            "type":     p.Type,
            "title":    p.Title,
            "message":  p.Message,
            "priority": p.Priority,
        })
    }
    return written, nil
}

// CascadeDelete removes every notification referencing a deleted
// announcement and broadcasts the deletion so open clients drop it from
// their lists. The two deletes are not transactional: a crash between the
// announcement delete and this call leaves orphaned rows behind.
func (n *Notifier) CascadeDelete(ctx context.Context, announcementID uint64) (int64, error) {
    removed, err := n.Notifications.DeleteByAnnouncement(ctx, announcementID)
    if err != nil {
        return 0, err
    }
    n.Live.Broadcast(realtime.EventAnnouncementDeleted, echoMap{"id": announcementID})
    return removed, nil
}

// echoMap keeps the event payload literals short.
type echoMap = map[string]interface{}
