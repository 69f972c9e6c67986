package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/utils"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

const adminColumns = "id,name,email,password_hash,phone,created_at,updated_at"

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+adminColumns+" FROM admins WHERE email=? LIMIT 1", email)
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.Admin, error) {
	return r.get(ctx, "SELECT "+adminColumns+" FROM admins WHERE id=? LIMIT 1", id)
}

func (r *AdminRepo) get(ctx context.Context, query string, arg interface{}) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// Count returns the number of admin accounts. The startup seed runs only
// when this is zero.
func (r *AdminRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n)
	return n, err
}

// Create inserts an admin account and returns its ID. Used by the startup
// seed; there is no self-service admin registration.
func (r *AdminRepo) Create(ctx context.Context, name, email, password, phone string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (name,email,password_hash,phone) VALUES (?,?,?,?)",
		name, email, hash, phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateProfile overwrites the admin's name and phone.
func (r *AdminRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET name=?, phone=? WHERE id=?", name, phone, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
