// Package payment integrates the hosted checkout provider.  The rest of
// the application talks to the CheckoutProvider interface defined in
// service/ports; this package supplies the wire types and the Stripe
// implementation.
package payment

import "errors"

// ErrProvider wraps any failure reported by the payment provider.  The
// marketplace performs no retries or reconciliation (a confirmed external
// payment whose local update fails stays unreconciled); handlers translate
// this into HTTP 500.
var ErrProvider = errors.New("payment provider error")

// CheckoutRequest describes the single-line-item checkout session created
// for a booking.  AmountCents is the total in minor currency units.
type CheckoutRequest struct {
	AmountCents int64  // total charge in minor units
	BookingID   string // booking the session settles, round-tripped via the session
	PayerEmail  string // prefills the checkout form
	Description string // line item label shown on the hosted page
}

// CheckoutSession is the provider's view of a pending or settled payment.
// BookingID is carried on the session itself (client reference id) so the
// confirmation step needs nothing but the session identifier.
type CheckoutSession struct {
	ID            string // provider session identifier
	URL           string // hosted checkout page the client is redirected to
	BookingID     string // booking reference stored on the session
	PayerEmail    string // email the session was created for
	AmountCents   int64  // total amount in minor units
	PaymentStatus string // provider payment status, "paid" once settled
}

// StatusPaid is the provider payment status of a settled session.
const StatusPaid = "paid"
