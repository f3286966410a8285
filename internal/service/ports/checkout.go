package ports

import (
	"context"

	"github.com/ticketkati/ticketkati/internal/payment"
)

// CheckoutProvider abstracts the hosted payment provider: create a session
// for a booking, retrieve a session by id.  Implementations wrap provider
// failures in payment.ErrProvider.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*payment.CheckoutSession, error)
}
