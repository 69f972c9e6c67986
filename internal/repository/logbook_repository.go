package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type LogBookRepo struct{ DB *sql.DB }

func NewLogBookRepo(db *sql.DB) *LogBookRepo { return &LogBookRepo{DB: db} }

const logColumns = "id,user_id,name,phone,permission,out_time,in_time,reason,created_at,updated_at"

// NewLogEntry carries the checkout payload.
type NewLogEntry struct {
	UserID     uint64
	Name       string
	Phone      string
	Permission string
	OutTime    time.Time
	Reason     string
}

// Create inserts a checkout entry (in_time NULL) and returns its ID.
func (r *LogBookRepo) Create(ctx context.Context, n NewLogEntry) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO logbook_entries (user_id,name,phone,permission,out_time,reason) VALUES (?,?,?,?,?,?)",
		n.UserID, n.Name, n.Phone, n.Permission, n.OutTime, n.Reason)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetForUser fetches one entry owned by the resident.
func (r *LogBookRepo) GetForUser(ctx context.Context, id, userID uint64) (model.LogEntry, error) {
	var e model.LogEntry
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM logbook_entries WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.Phone, &e.Permission,
		&e.OutTime, &e.InTime, &e.Reason, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.LogEntry{}, ErrNotFound
	}
	return e, err
}

// CheckIn sets in_time on an owned entry, but only while it is still NULL;
// the guard in the WHERE clause makes the null→timestamp transition happen
// at most once even under concurrent requests. A second attempt returns
// ErrAlreadyCheckedIn and leaves the row unchanged.
func (r *LogBookRepo) CheckIn(ctx context.Context, id, userID uint64, at time.Time) (model.LogEntry, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE logbook_entries SET in_time=? WHERE id=? AND user_id=? AND in_time IS NULL",
		at, id, userID)
	if err != nil {
		return model.LogEntry{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.LogEntry{}, err
	}
	if n == 0 {
		// Either the entry does not exist for this resident, or it is
		// already checked in; fetch to tell the two apart.
		e, err := r.GetForUser(ctx, id, userID)
		if err != nil {
			return model.LogEntry{}, err
		}
		if e.InTime != nil {
			return model.LogEntry{}, ErrAlreadyCheckedIn
		}
		return model.LogEntry{}, ErrNotFound
	}
	return r.GetForUser(ctx, id, userID)
}

// ListByUser returns the resident's entries, latest checkout first.
// status: "out" → only open entries, "in" → only closed, "" → all.
func (r *LogBookRepo) ListByUser(ctx context.Context, userID uint64, status string, page, limit int) ([]model.LogEntry, int, error) {
	cond := "user_id=?"
	args := []interface{}{userID}
	switch status {
	case "out":
		cond += " AND in_time IS NULL"
	case "in":
		cond += " AND in_time IS NOT NULL"
	}
	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM logbook_entries WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+logColumns+" FROM logbook_entries WHERE "+cond+
			" ORDER BY out_time DESC, id DESC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanLogEntries(rows)
	return out, total, err
}

// ListCurrentlyOut returns every open entry across residents, oldest
// checkout first so the longest-out residents surface on top.
func (r *LogBookRepo) ListCurrentlyOut(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+logColumns+" FROM logbook_entries WHERE in_time IS NULL ORDER BY out_time ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogEntries(rows)
}

// ListAll returns every entry, latest first, for the admin register view.
func (r *LogBookRepo) ListAll(ctx context.Context, page, limit int) ([]model.LogEntry, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM logbook_entries").Scan(&total); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+logColumns+" FROM logbook_entries ORDER BY out_time DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanLogEntries(rows)
	return out, total, err
}

func scanLogEntries(rows *sql.Rows) ([]model.LogEntry, error) {
	var out []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Phone, &e.Permission,
			&e.OutTime, &e.InTime, &e.Reason, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats summarizes one resident's logbook.
type Stats struct {
	Total        int `json:"total"`
	CurrentlyOut int `json:"currentlyOut"`
	Returned     int `json:"returned"`
}

// StatsByUser counts the resident's total, open and closed entries.
func (r *LogBookRepo) StatsByUser(ctx context.Context, userID uint64) (Stats, error) {
	var s Stats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(in_time IS NULL),0),
		        COALESCE(SUM(in_time IS NOT NULL),0)
		 FROM logbook_entries WHERE user_id=?`, userID).
		Scan(&s.Total, &s.CurrentlyOut, &s.Returned)
	return s, err
}
