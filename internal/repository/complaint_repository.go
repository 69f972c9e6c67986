package repository

import (
	"context"
	"database/sql"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type ComplaintRepo struct{ DB *sql.DB }

func NewComplaintRepo(db *sql.DB) *ComplaintRepo { return &ComplaintRepo{DB: db} }

const complaintColumns = "id,user_id,complaint,status,created_at,updated_at"

// Create inserts a pending complaint and returns its ID. Length validation
// lives in the handler; the repo stores whatever it is given.
func (r *ComplaintRepo) Create(ctx context.Context, userID uint64, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO complaints (user_id,complaint,status) VALUES (?,?,'pending')",
		userID, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one complaint.
func (r *ComplaintRepo) GetByID(ctx context.Context, id uint64) (model.Complaint, error) {
	var c model.Complaint
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE id=? LIMIT 1", id).Scan(
		&c.ID, &c.UserID, &c.Complaint, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Complaint{}, ErrNotFound
	}
	return c, err
}

// ListByUser returns one resident's complaints, newest first.
func (r *ComplaintRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Complaint, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// List returns all complaints, optionally filtered by status, newest first.
func (r *ComplaintRepo) List(ctx context.Context, status string) ([]model.Complaint, error) {
	query := "SELECT " + complaintColumns + " FROM complaints"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status=?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows *sql.Rows) ([]model.Complaint, error) {
	var out []model.Complaint
	for rows.Next() {
		var c model.Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.Complaint, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus moves a complaint to a new status and returns the updated
// row. Existence is checked first because MySQL reports zero affected rows
// for a no-change update, which would be indistinguishable from a miss.
func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Complaint, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Complaint{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE complaints SET status=? WHERE id=?", status, id); err != nil {
		return model.Complaint{}, err
	}
	return r.GetByID(ctx, id)
}
