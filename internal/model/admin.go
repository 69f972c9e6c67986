package model

import "time"

// Admin represents a hostel administrator as stored in the `admins` table.
// Admin accounts are never self-registered; the server seeds a default one
// at startup when the table is empty.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – administrator's display name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact number.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Admin struct {
    ID           uint64    // admins.id
    Name         string    // admins.name
    Email        string    // admins.email
    PasswordHash string    // admins.password_hash
    Phone        string    // admins.phone
    CreatedAt    time.Time // admins.created_at
    UpdatedAt    time.Time // admins.updated_at
}

// Role claim values carried in session tokens and attached to request
// contexts after session resolution.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)
