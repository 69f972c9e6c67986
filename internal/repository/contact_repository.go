package repository

import (
	"context"
	"database/sql"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// Create inserts a contact message and returns the stored row.
func (r *ContactRepo) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contacts (user_id,name,email,phone,room,message) VALUES (?,?,?,?,?,?)",
		c.UserID, c.Name, c.Email, c.Phone, c.Room, c.Message)
	if err != nil {
		return model.Contact{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Contact{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one contact message.
func (r *ContactRepo) GetByID(ctx context.Context, id uint64) (model.Contact, error) {
	var c model.Contact
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,name,email,phone,room,message,created_at FROM contacts WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Room, &c.Message, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Contact{}, ErrNotFound
	}
	return c, err
}

// List returns the admin contact inbox, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,name,email,phone,room,message,created_at FROM contacts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Room,
			&c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
