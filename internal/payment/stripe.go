package payment

import (
	"context"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider implements checkout against Stripe Checkout Sessions.
// The booking id rides on the session's client reference id, and the
// success redirect carries the session id back via the {CHECKOUT_SESSION_ID}
// template so confirmation needs no local state from the create step.
type StripeProvider struct {
	api     *client.API
	siteURL string
}

// NewStripeProvider builds a provider from the secret API key and the
// frontend base URL used for redirect targets.
func NewStripeProvider(secretKey, siteURL string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, siteURL: strings.TrimRight(siteURL, "/")}
}

// CreateSession opens a single-line-item checkout session for a booking.
// No local state is written; the returned URL is where the client pays.
func (p *StripeProvider) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(req.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(p.siteURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(p.siteURL + "/payment-cancelled"),
		CustomerEmail:     stripe.String(req.PayerEmail),
		ClientReferenceID: stripe.String(req.BookingID),
	}
	params.Context = ctx
	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrProvider, err)
	}
	return fromStripe(s), nil
}

// GetSession retrieves a session by id so the confirmation step can read
// its payment status and booking reference.
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get session %s: %v", ErrProvider, id, err)
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		BookingID:     s.ClientReferenceID,
		PayerEmail:    s.CustomerEmail,
		AmountCents:   s.AmountTotal,
		PaymentStatus: string(s.PaymentStatus),
	}
}
