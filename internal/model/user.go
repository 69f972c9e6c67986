package model

import "time"

// User represents a hostel resident as stored in the `users` table.  Each
// field corresponds to a column in the database.  The json tags are omitted
// here because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags so the
// password hash can never leak into a response by accident.
//
// Fields:
//  ID            – primary key identifier of the resident.
//  FullName      – resident's full name.
//  Email         – unique email address, stored lower-cased.
//  PasswordHash  – bcrypt hashed password.
//  Phone         – resident's contact number.
//  StudyYear     – academic year ("1st Year" .. "4th Year").
//  RoomNo        – assigned hostel room number (e.g. "302").
//  ProfilePic    – optional avatar URL.
//  ParentName    – parent's name for the logbook permission chain.
//  ParentPhone   – parent's contact number.
//  GuardianName  – local guardian's name.
//  GuardianPhone – local guardian's contact number.
//  AadharNo      – unique 12-digit government ID.
//  CollegeID     – unique college roll number.
//  Address       – home address.
//  IsPresent     – whether the resident is currently inside the hostel.
//  LastCheckIn   – timestamp of the most recent check-in.
//  LastCheckOut  – timestamp of the most recent check-out (nullable).
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
    ID            uint64     // users.id
    FullName      string     // users.full_name
    Email         string     // users.email
    PasswordHash  string     // users.password_hash
    Phone         string     // users.phone
    StudyYear     string     // users.study_year
    RoomNo        string     // users.room_no
    ProfilePic    string     // users.profile_pic
    ParentName    string     // users.parent_name
    ParentPhone   string     // users.parent_phone
    GuardianName  string     // users.guardian_name
    GuardianPhone string     // users.guardian_phone
    AadharNo      string     // users.aadhar_no
    CollegeID     string     // users.college_id
    Address       string     // users.address
    IsPresent     bool       // users.is_present
    LastCheckIn   *time.Time // users.last_check_in (nullable)
    LastCheckOut  *time.Time // users.last_check_out (nullable)
    CreatedAt     time.Time  // users.created_at
    UpdatedAt     time.Time  // users.updated_at
}

// StudyYears lists the accepted values for users.study_year.
var StudyYears = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}

// ValidStudyYear reports whether y is one of the accepted study years.
func ValidStudyYear(y string) bool {
    for _, s := range StudyYears {
        if s == y {
            return true
        }
    }
    return false
}
