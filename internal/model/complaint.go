package model

import "time"

// Complaint is a resident-filed grievance, stored in the `complaints`
// table.  Residents create and read their own complaints; only admins move
// the status.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – resident who filed the complaint.
//  Complaint – free-text body, at least 10 characters.
//  Status    – pending | resolved | rejected.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Complaint struct {
    ID        uint64    // complaints.id
    UserID    uint64    // complaints.user_id
    Complaint string    // complaints.complaint
    Status    string    // complaints.status
    CreatedAt time.Time // complaints.created_at
    UpdatedAt time.Time // complaints.updated_at
}

// ComplaintStatuses lists accepted complaints.status values.
var ComplaintStatuses = []string{"pending", "resolved", "rejected"}

// ValidComplaintStatus reports whether s is an accepted status.
func ValidComplaintStatus(s string) bool { return contains(ComplaintStatuses, s) }
