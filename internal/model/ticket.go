package model

import "time"

// Ticket verification statuses.  A ticket enters the marketplace as
// "pending" and is moderated by an admin into "approved" or "rejected".
// Only approved tickets are visible to buyers or eligible for advertising.
const (
	TicketStatusPending  = "pending"
	TicketStatusApproved = "approved"
	TicketStatusRejected = "rejected"
)

// Ticket represents a row in the `tickets` table: a vendor-listed unit of
// transport inventory with a finite remaining quantity.  Quantity is
// unsigned and the booking flow only ever decrements it through a
// conditional UPDATE, so it can never go below zero.
//
// Fields:
//
//	ID            – primary key identifier.
//	Title         – listing title shown to buyers.
//	FromLocation  – departure location of the route.
//	ToLocation    – destination of the route.
//	TransportType – bus, train, launch or plane.
//	PriceCents    – price per unit in minor currency units.
//	Quantity      – remaining units for sale (never negative).
//	DepartureAt   – departure date and time in UTC.
//	VendorEmail   – email of the owning vendor account.
//	Status        – verification status (pending/approved/rejected).
//	Advertised    – whether the ticket is promoted on the front page.
//	Image         – promotional image URL.
//	Perks         – comma separated perks shown in advertisements.
//	CreatedAt     – timestamp of creation.
type Ticket struct {
	ID            uint64    // tickets.id
	Title         string    // tickets.title
	FromLocation  string    // tickets.from_location
	ToLocation    string    // tickets.to_location
	TransportType string    // tickets.transport_type
	PriceCents    int64     // tickets.price_cents
	Quantity      uint32    // tickets.quantity
	DepartureAt   time.Time // tickets.departure_at
	VendorEmail   string    // tickets.vendor_email
	Status        string    // tickets.status
	Advertised    bool      // tickets.advertised
	Image         string    // tickets.image
	Perks         string    // tickets.perks
	CreatedAt     time.Time // tickets.created_at
}
