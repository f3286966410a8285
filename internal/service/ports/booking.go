package ports

import (
	"context"

	"github.com/ticketkati/ticketkati/internal/model"
)

// BookingStore persists bookings.  Create must atomically insert the
// booking and claim its inventory, returning
// repository.ErrInsufficientInventory when the ticket cannot cover the
// requested quantity.  MarkPaid must atomically settle the booking and
// record the transaction, returning repository.ErrConflict when the
// booking is already paid.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	MarkPaid(ctx context.Context, bookingID string, txn *model.Transaction) error
}
