package model

// Advertisement is the denormalized promotional projection of an advertised
// ticket, kept in the `advertisements` table.  Rows are created and deleted
// in the same transaction that flips the ticket's advertised flag, so the
// projection is never authoritative on its own.
//
// Fields:
//
//	TicketID      – primary key, references tickets.id.
//	Title         – ticket title.
//	PriceCents    – current ticket price at the time of advertising.
//	TransportType – bus, train, launch or plane.
//	VendorName    – display name of the owning vendor.
//	Image         – promotional image URL.
//	Perks         – comma separated perks.
type Advertisement struct {
	TicketID      uint64 `json:"ticket_id"`      // advertisements.ticket_id
	Title         string `json:"title"`          // advertisements.title
	PriceCents    int64  `json:"price_cents"`    // advertisements.price_cents
	TransportType string `json:"transport_type"` // advertisements.transport_type
	VendorName    string `json:"vendor_name"`    // advertisements.vendor_name
	Image         string `json:"image"`          // advertisements.image
	Perks         string `json:"perks"`          // advertisements.perks
}
