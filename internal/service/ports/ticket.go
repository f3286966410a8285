package ports

import (
	"context"

	"github.com/ticketkati/ticketkati/internal/model"
)

// TicketStore is the slice of ticket storage the workflows need: a lookup
// by id for validation and price snapshotting.  Inventory mutation happens
// inside BookingStore.Create so it cannot be separated from the booking
// insert.
type TicketStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
}
