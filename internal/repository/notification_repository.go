package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

const notificationColumns = "id,user_id,announcement_id,type,title,message,priority,is_read,created_at,updated_at"

// Payload is the recipient-independent part of a notification. The
// materializer stamps it with one user id per addressed resident.
type Payload struct {
	AnnouncementID *uint64
	Type           string
	Title          string
	Message        string
	Priority       string
}

// InsertForUsers bulk-inserts one notification per recipient id in a single
// multi-row statement and returns the number of rows written. An empty id
// list is a no-op. The statement size grows with the resident count; that
// unbounded write is inherent to fan-out-on-write.
func (r *NotificationRepo) InsertForUsers(ctx context.Context, userIDs []uint64, p Payload) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO notifications (user_id,announcement_id,type,title,message,priority) VALUES ")
	args := make([]interface{}, 0, len(userIDs)*6)
	for i, id := range userIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?)")
		args = append(args, id, p.AnnouncementID, p.Type, p.Title, p.Message, p.Priority)
	}
	res, err := r.DB.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListByUser returns one resident's notifications, newest first, paginated.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, page, limit int) ([]model.Notification, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanNotifications(rows)
	return out, total, err
}

// ListRecent returns the most recent notifications across all residents,
// for the admin overview.
func (r *NotificationRepo) ListRecent(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+notificationColumns+" FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func scanNotifications(rows *sql.Rows) ([]model.Notification, error) {
	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.AnnouncementID, &n.Type, &n.Title,
			&n.Message, &n.Priority, &n.IsRead, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadCount returns how many unread notifications the resident has.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}

// MarkRead flags one notification read. Ownership is part of the WHERE so a
// resident can never touch another resident's rows.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkAllRead flags every unread notification of the resident read and
// returns how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes one notification owned by the resident.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM notifications WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteByAnnouncement removes every notification that references the
// announcement. Runs after the announcement delete; there is no cross-table
// transaction, so a crash in between can leave orphans (accepted tradeoff).
func (r *NotificationRepo) DeleteByAnnouncement(ctx context.Context, announcementID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM notifications WHERE announcement_id=?", announcementID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
