package model

import "time"

// LogEntry is one checkout/checkin pair in the hostel movement register,
// stored in `logbook_entries`.  A nil InTime means the resident is
// currently out.  InTime transitions null→timestamp exactly once; the
// repository rejects a second check-in.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – resident the entry belongs to.
//  Name       – name of the person who granted permission.
//  Phone      – their contact number.
//  Permission – relationship of the permitter (Father|Mother|Sibling|Guardian).
//  OutTime    – when the resident left; defaults to the request time.
//  InTime     – when the resident returned (nullable while out).
//  Reason     – stated reason for leaving.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type LogEntry struct {
    ID         uint64     // logbook_entries.id
    UserID     uint64     // logbook_entries.user_id
    Name       string     // logbook_entries.name
    Phone      string     // logbook_entries.phone
    Permission string     // logbook_entries.permission
    OutTime    time.Time  // logbook_entries.out_time
    InTime     *time.Time // logbook_entries.in_time (nullable)
    Reason     string     // logbook_entries.reason
    CreatedAt  time.Time  // logbook_entries.created_at
    UpdatedAt  time.Time  // logbook_entries.updated_at
}

// IsOut reports whether the entry still has no check-in time.
func (e LogEntry) IsOut() bool { return e.InTime == nil }

// LogPermissions lists accepted logbook_entries.permission values.
var LogPermissions = []string{"Father", "Mother", "Sibling", "Guardian"}

// ValidLogPermission reports whether p is an accepted permission source.
func ValidLogPermission(p string) bool { return contains(LogPermissions, p) }
