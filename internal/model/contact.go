package model

import "time"

// Contact is a resident-to-admin message stored in the `contacts` table.
// Name, email, phone and room are copied from the resident's profile at
// creation time so the admin inbox stays readable even if the profile
// changes later.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – resident who sent the message.
//  Name      – resident's name at send time.
//  Email     – resident's email at send time.
//  Phone     – resident's phone at send time.
//  Room      – resident's room at send time.
//  Message   – free-text body.
//  CreatedAt – timestamp of creation.
type Contact struct {
    ID        uint64    // contacts.id
    UserID    uint64    // contacts.user_id
    Name      string    // contacts.name
    Email     string    // contacts.email
    Phone     string    // contacts.phone
    Room      string    // contacts.room
    Message   string    // contacts.message
    CreatedAt time.Time // contacts.created_at
}
