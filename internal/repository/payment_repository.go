package repository

import (
	"context"
	"database/sql"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = "id,user_id,amount_cents,method,status,created_at"

// Create inserts a pending payment row and returns its ID.
func (r *PaymentRepo) Create(ctx context.Context, userID, amountCents uint64, method string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (user_id,amount_cents,method,status) VALUES (?,?,?,'pending')",
		userID, amountCents, method)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one payment.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	var p model.Payment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.UserID, &p.AmountCents, &p.Method, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

// ListByUser returns one resident's payments, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.AmountCents, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Overwrite replaces amount, method and status in place and returns the
// updated row. Prior values are not recorded anywhere; edits are
// destructive.
func (r *PaymentRepo) Overwrite(ctx context.Context, id, amountCents uint64, method, status string) (model.Payment, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Payment{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET amount_cents=?, method=?, status=? WHERE id=?",
		amountCents, method, status, id); err != nil {
		return model.Payment{}, err
	}
	return r.GetByID(ctx, id)
}
