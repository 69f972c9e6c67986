package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type AnnouncementRepo struct{ DB *sql.DB }

func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo { return &AnnouncementRepo{DB: db} }

const announcementColumns = "id,title,content,priority,category,is_active,created_date," +
	"expiry_date,created_by,updated_by,total_views,created_at,updated_at"

// NewAnnouncement carries the create payload. CreatedDate is admin-settable
// (any date, including past ones); ExpiryDate, when present, must be on or
// after CreatedDate — validated in the handler so the repo stays dumb.
type NewAnnouncement struct {
	Title       string
	Content     string
	Priority    string
	Category    string
	CreatedDate time.Time
	ExpiryDate  *time.Time
	CreatedBy   uint64
}

// Create inserts an announcement and returns its ID.
func (r *AnnouncementRepo) Create(ctx context.Context, n NewAnnouncement) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO announcements (title,content,priority,category,created_date,expiry_date,created_by)
		 VALUES (?,?,?,?,?,?,?)`,
		n.Title, n.Content, n.Priority, n.Category, n.CreatedDate, n.ExpiryDate, n.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single announcement.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id uint64) (model.Announcement, error) {
	var a model.Announcement
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+announcementColumns+" FROM announcements WHERE id=? LIMIT 1", id).Scan(
		&a.ID, &a.Title, &a.Content, &a.Priority, &a.Category, &a.IsActive, &a.CreatedDate,
		&a.ExpiryDate, &a.CreatedBy, &a.UpdatedBy, &a.TotalViews, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Announcement{}, ErrNotFound
	}
	return a, err
}

// Filter narrows and orders the admin announcement list. Zero values mean
// "no constraint". SortBy is restricted to a known column set to keep the
// interpolated ORDER BY safe.
type Filter struct {
	Priority string
	Category string
	IsActive *bool
	Search   string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

var sortableColumns = map[string]bool{
	"created_at": true, "created_date": true, "priority": true,
	"category": true, "title": true, "expiry_date": true,
}

// List returns a filtered, paginated page of announcements plus the total
// row count for the filter.
func (r *AnnouncementRepo) List(ctx context.Context, f Filter) ([]model.Announcement, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if f.Priority != "" {
		where = append(where, "priority=?")
		args = append(args, f.Priority)
	}
	if f.Category != "" {
		where = append(where, "category=?")
		args = append(args, f.Category)
	}
	if f.IsActive != nil {
		where = append(where, "is_active=?")
		args = append(args, *f.IsActive)
	}
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR content LIKE ?)")
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM announcements WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := f.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "ASC"
	if f.SortDesc {
		order = "DESC"
	}
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT %s FROM announcements WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		announcementColumns, cond, sortBy, order)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanAnnouncements(rows)
	return out, total, err
}

// ListActive returns announcements visible to residents: active and either
// unexpired or without an expiry, high priority first, newest first within
// a priority.
func (r *AnnouncementRepo) ListActive(ctx context.Context) ([]model.Announcement, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+announcementColumns+` FROM announcements
		 WHERE is_active=1 AND (expiry_date IS NULL OR expiry_date > ?)
		 ORDER BY FIELD(priority,'high','medium','low'), created_at DESC`,
		time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncements(rows)
}

func scanAnnouncements(rows *sql.Rows) ([]model.Announcement, error) {
	var out []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.Category, &a.IsActive,
			&a.CreatedDate, &a.ExpiryDate, &a.CreatedBy, &a.UpdatedBy, &a.TotalViews,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields and records the editing admin.
// Last write wins; there is no version check.
func (r *AnnouncementRepo) Update(ctx context.Context, id uint64, n NewAnnouncement, updatedBy uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE announcements SET title=?,content=?,priority=?,category=?,created_date=?,
			expiry_date=?,updated_by=? WHERE id=?`,
		n.Title, n.Content, n.Priority, n.Category, n.CreatedDate, n.ExpiryDate, updatedBy, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ToggleActive flips the active flag and returns the new value.
func (r *AnnouncementRepo) ToggleActive(ctx context.Context, id uint64, updatedBy uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE announcements SET is_active=NOT is_active, updated_by=? WHERE id=?", updatedBy, id)
	if err != nil {
		return false, err
	}
	if err := requireRow(res); err != nil {
		return false, err
	}
	var active bool
	err = r.DB.QueryRowContext(ctx, "SELECT is_active FROM announcements WHERE id=?", id).Scan(&active)
	return active, err
}

// Delete removes the announcement row. Notification cleanup is the
// materializer's job and runs after this returns.
func (r *AnnouncementRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM announcements WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RecordView registers that a resident viewed the announcement. The unique
// (announcement_id,user_id) key makes repeat views idempotent for the view
// row while total_views still counts every call, matching the original
// unique-vs-total split.
func (r *AnnouncementRepo) RecordView(ctx context.Context, announcementID, userID uint64) error {
	if _, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO announcement_views (announcement_id,user_id) VALUES (?,?)",
		announcementID, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE announcements SET total_views=total_views+1 WHERE id=?", announcementID)
	return err
}
