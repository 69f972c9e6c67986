package model

import "time"

// Payment is one hostel-fee payment record in the `payments` table.
// Residents create rows through make-payment; admins may later overwrite
// amount, method and status in place.  No audit trail of prior values is
// kept.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – paying resident.
//  AmountCents – amount in paise/cents to avoid float money arithmetic.
//  Method      – cash | upi.
//  Status      – success | pending | failed.
//  CreatedAt   – timestamp of creation.
type Payment struct {
    ID          uint64    // payments.id
    UserID      uint64    // payments.user_id
    AmountCents uint64    // payments.amount_cents
    Method      string    // payments.method
    Status      string    // payments.status
    CreatedAt   time.Time // payments.created_at
}

// Accepted values for payments.method and payments.status.
var (
    PaymentMethods  = []string{"cash", "upi"}
    PaymentStatuses = []string{"success", "pending", "failed"}
)

// ValidPaymentMethod reports whether m is an accepted method.
func ValidPaymentMethod(m string) bool { return contains(PaymentMethods, m) }

// ValidPaymentStatus reports whether s is an accepted status.
func ValidPaymentStatus(s string) bool { return contains(PaymentStatuses, s) }
