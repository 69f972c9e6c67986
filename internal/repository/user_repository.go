package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,full_name,email,password_hash,phone,study_year,room_no,profile_pic," +
	"parent_name,parent_phone,guardian_name,guardian_phone,aadhar_no,college_id,address," +
	"is_present,last_check_in,last_check_out,created_at,updated_at"

// NewUser carries the signup payload into the repository. The password is
// plain here and hashed inside Create so a hash never crosses the handler
// boundary.
type NewUser struct {
	FullName      string
	Email         string
	Password      string
	Phone         string
	StudyYear     string
	RoomNo        string
	ParentName    string
	ParentPhone   string
	GuardianName  string
	GuardianPhone string
	AadharNo      string
	CollegeID     string
	Address       string
}

// Create inserts a resident and returns its ID. Duplicate email maps to
// ErrEmailExists; duplicate aadhar/college id maps to ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, n NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(n.Email))
	hash, err := utils.HashPassword(n.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (full_name,email,password_hash,phone,study_year,room_no,
			parent_name,parent_phone,guardian_name,guardian_phone,aadhar_no,college_id,address)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		n.FullName, email, hash, n.Phone, n.StudyYear, n.RoomNo,
		n.ParentName, n.ParentPhone, n.GuardianName, n.GuardianPhone,
		n.AadharNo, n.CollegeID, n.Address)
	if err != nil {
		// MySQL duplicate-key error 1062; the index name tells which column collided.
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "1062") {
			if strings.Contains(low, "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a resident by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a resident by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.StudyYear, &u.RoomNo,
		&u.ProfilePic, &u.ParentName, &u.ParentPhone, &u.GuardianName, &u.GuardianPhone,
		&u.AadharNo, &u.CollegeID, &u.Address, &u.IsPresent, &u.LastCheckIn, &u.LastCheckOut,
		&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ProfileUpdate lists the mutable profile fields. Identity fields (email,
// aadhar, college id) are fixed after signup.
type ProfileUpdate struct {
	FullName      string
	Phone         string
	RoomNo        string
	ProfilePic    string
	ParentName    string
	ParentPhone   string
	GuardianName  string
	GuardianPhone string
	Address       string
}

// UpdateProfile overwrites the mutable profile fields of one resident.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfileUpdate) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name=?,phone=?,room_no=?,profile_pic=?,parent_name=?,
			parent_phone=?,guardian_name=?,guardian_phone=?,address=? WHERE id=?`,
		p.FullName, p.Phone, p.RoomNo, p.ProfilePic, p.ParentName,
		p.ParentPhone, p.GuardianName, p.GuardianPhone, p.Address, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdatePassword stores a new bcrypt hash for the resident.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListIDs returns every resident id. Announcement fan-out uses this to
// materialize one notification per resident; the insert is unbounded by
// design, matching the write-time fan-out model.
func (r *UserRepo) ListIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Occupant is the slice of a resident row the room-occupancy board needs.
type Occupant struct {
	FullName  string
	RoomNo    string
	IsPresent bool
}

// ListOccupants returns name, room and presence for every resident.
func (r *UserRepo) ListOccupants(ctx context.Context) ([]Occupant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT full_name,room_no,is_present FROM users ORDER BY room_no, full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Occupant
	for rows.Next() {
		var o Occupant
		if err := rows.Scan(&o.FullName, &o.RoomNo, &o.IsPresent); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SetPresence updates the presence flag and the matching last_check_* column.
func (r *UserRepo) SetPresence(ctx context.Context, id uint64, present bool, at time.Time) error {
	var err error
	if present {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET is_present=1, last_check_in=? WHERE id=?", at, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET is_present=0, last_check_out=? WHERE id=?", at, id)
	}
	return err
}

// requireRow converts a zero-row UPDATE into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
