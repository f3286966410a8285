package model

import "time"

// Transaction represents a row in the `transactions` table.  A transaction
// is recorded exactly once when a checkout session is confirmed as paid and
// is immutable thereafter; confirming the same session again finds the
// booking already paid and records nothing.
//
// Fields:
//
//	ID            – UUID primary key.
//	BookingID     – the booking this payment settles.
//	SessionID     – checkout session identifier from the payment provider.
//	AmountCents   – amount charged in minor currency units.
//	PayerEmail    – email of the payer.
//	PaymentStatus – terminal status reported by the provider (e.g. "paid").
//	CreatedAt     – timestamp of creation.
type Transaction struct {
	ID            string    // transactions.id
	BookingID     string    // transactions.booking_id
	SessionID     string    // transactions.session_id
	AmountCents   int64     // transactions.amount_cents
	PayerEmail    string    // transactions.payer_email
	PaymentStatus string    // transactions.payment_status
	CreatedAt     time.Time // transactions.created_at
}
