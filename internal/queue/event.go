// Package queue defines message payloads exchanged over the message broker
// and the names of the durable queues they travel on.
package queue

// Queue names.  Both queues are declared durable by publisher and consumer.
const (
	BookingCreatedQueue   = "booking.created"
	PaymentCompletedQueue = "payment.completed"
)

// BookingCreatedEvent is published when a booking claims inventory.  It
// carries enough for downstream consumers to log or notify the vendor
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingID      string `json:"booking_id"`
	TicketID       uint64 `json:"ticket_id"`
	TicketTitle    string `json:"ticket_title"`
	VendorEmail    string `json:"vendor_email"`
	PurchaserEmail string `json:"purchaser_email"`
	Quantity       uint32 `json:"quantity"`
	AmountCents    int64  `json:"amount_cents"`
	CreatedAt      string `json:"created_at"`
}

// PaymentCompletedEvent is published when a checkout session is confirmed
// and the booking settles as paid.
type PaymentCompletedEvent struct {
	BookingID     string `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	SessionID     string `json:"session_id"`
	PayerEmail    string `json:"payer_email"`
	AmountCents   int64  `json:"amount_cents"`
	CompletedAt   string `json:"completed_at"`
}
