package model

import "time"

// Booking statuses.  A booking starts as "pending" and moves along one of
// two independent paths: moderation (pending -> accepted|rejected) or
// payment (pending -> paid).  Transitions only fire from "pending"; a
// booking in a terminal state stays there.
const (
	BookingStatusPending  = "pending"
	BookingStatusAccepted = "accepted"
	BookingStatusRejected = "rejected"
	BookingStatusPaid     = "paid"
)

// Booking represents a row in the `bookings` table: a purchaser's claim
// against a ticket's inventory.  UnitPriceCents snapshots the ticket price
// at booking time so later vendor edits do not change what the buyer owes.
// Bookings are never deleted.
//
// Fields:
//
//	ID             – UUID primary key.
//	TicketID       – the ticket whose inventory this booking claims.
//	PurchaserEmail – email of the buyer.
//	Quantity       – number of units claimed.
//	UnitPriceCents – per-unit price at booking time.
//	Status         – lifecycle status (see constants above).
//	CreatedAt      – timestamp of creation.
type Booking struct {
	ID             string    // bookings.id
	TicketID       uint64    // bookings.ticket_id
	PurchaserEmail string    // bookings.purchaser_email
	Quantity       uint32    // bookings.quantity
	UnitPriceCents int64     // bookings.unit_price_cents
	Status         string    // bookings.status
	CreatedAt      time.Time // bookings.created_at
}

// AmountCents returns the total amount owed for the booking.
func (b *Booking) AmountCents() int64 {
	return b.UnitPriceCents * int64(b.Quantity)
}
