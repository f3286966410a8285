package ports

import (
	"context"

	"github.com/ticketkati/ticketkati/internal/queue"
)

// EventPublisher emits marketplace events to the message broker.  Both
// methods are best effort; workflows log failures and carry on.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
	PublishPaymentCompleted(ctx context.Context, ev queue.PaymentCompletedEvent) error
}
