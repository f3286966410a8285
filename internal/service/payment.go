package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/payment"
	"github.com/ticketkati/ticketkati/internal/queue"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/service/ports"
)

// PaymentService drives the checkout flow: open a session with the
// provider, and on confirmation settle the booking and record the
// transaction.
type PaymentService struct {
	bookings  ports.BookingStore
	provider  ports.CheckoutProvider
	publisher ports.EventPublisher
}

// NewPaymentService constructs a PaymentService.  publisher may be nil.
func NewPaymentService(bookings ports.BookingStore, provider ports.CheckoutProvider, publisher ports.EventPublisher) *PaymentService {
	return &PaymentService{bookings: bookings, provider: provider, publisher: publisher}
}

// InitiateCheckout opens a checkout session for a booking.  It fails with
// ErrValidation on missing input, repository.ErrBookingNotFound when the
// booking is absent and payment.ErrProvider on provider failure.  No local
// state is written; the caller redirects the client to the session URL.
func (s *PaymentService) InitiateCheckout(ctx context.Context, amountCents int64, bookingID, payerEmail, description string) (*payment.CheckoutSession, error) {
	if amountCents <= 0 || bookingID == "" || payerEmail == "" {
		return nil, fmt.Errorf("%w: amount, booking id and payer email are required", ErrValidation)
	}
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if description == "" {
		description = "Ticket booking " + bookingID
	}
	sess, err := s.provider.CreateSession(ctx, payment.CheckoutRequest{
		AmountCents: amountCents,
		BookingID:   bookingID,
		PayerEmail:  payerEmail,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Confirm settles the booking referenced by a checkout session.  It fails
// with ErrValidation when the session id is missing or the session is not
// paid, payment.ErrProvider when the provider cannot be reached and
// repository.ErrBookingNotFound when the referenced booking is absent.
//
// Confirmation is idempotent: when the booking is already paid, Confirm
// returns (nil, true, nil) and no second transaction is recorded.
// Inventory is NOT touched here; it was claimed when the booking was
// created.  On first settlement the transaction is returned and a
// payment.completed event published best effort.
func (s *PaymentService) Confirm(ctx context.Context, sessionID string) (*model.Transaction, bool, error) {
	if sessionID == "" {
		return nil, false, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return nil, false, fmt.Errorf("%w: session %s is not paid (status %q)", ErrValidation, sessionID, sess.PaymentStatus)
	}

	booking, err := s.bookings.GetByID(ctx, sess.BookingID)
	if err != nil {
		return nil, false, fmt.Errorf("get booking: %w", err)
	}
	if booking.Status == model.BookingStatusPaid {
		return nil, true, nil
	}

	payer := sess.PayerEmail
	if payer == "" {
		payer = booking.PurchaserEmail
	}
	amount := sess.AmountCents
	if amount == 0 {
		amount = booking.AmountCents()
	}
	txn := &model.Transaction{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		SessionID:     sess.ID,
		AmountCents:   amount,
		PayerEmail:    payer,
		PaymentStatus: sess.PaymentStatus,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.bookings.MarkPaid(ctx, booking.ID, txn); err != nil {
		// A concurrent confirmation settled the booking first; treat it
		// as the idempotent success case.
		if errors.Is(err, repository.ErrConflict) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("mark paid: %w", err)
	}

	if s.publisher != nil {
		ev := queue.PaymentCompletedEvent{
			BookingID:     booking.ID,
			TransactionID: txn.ID,
			SessionID:     sess.ID,
			PayerEmail:    txn.PayerEmail,
			AmountCents:   txn.AmountCents,
			CompletedAt:   txn.CreatedAt.Format(time.RFC3339),
		}
		go func() {
			if err := s.publisher.PublishPaymentCompleted(context.WithoutCancel(ctx), ev); err != nil {
				log.Printf("payment-service: publish payment.completed failed: %v", err)
			}
		}()
	}

	return txn, false, nil
}
