package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/payment"
	"github.com/ticketkati/ticketkati/internal/queue"
	"github.com/ticketkati/ticketkati/internal/repository"
)

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:             "b-1",
		TicketID:       7,
		PurchaserEmail: "buyer@example.com",
		Quantity:       2,
		UnitPriceCents: 120000,
		Status:         model.BookingStatusPending,
	}
}

func paidSession() *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID:            "cs_test_1",
		BookingID:     "b-1",
		PayerEmail:    "buyer@example.com",
		AmountCents:   240000,
		PaymentStatus: payment.StatusPaid,
	}
}

func TestPaymentService_InitiateCheckout_Success(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	provider.On("CreateSession", mock.Anything, payment.CheckoutRequest{
		AmountCents: 240000,
		BookingID:   "b-1",
		PayerEmail:  "buyer@example.com",
		Description: "Ticket booking b-1",
	}).Return(&payment.CheckoutSession{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)

	sess, err := svc.InitiateCheckout(context.Background(), 240000, "b-1", "buyer@example.com", "")

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.NotEmpty(t, sess.URL)
	provider.AssertExpectations(t)
}

func TestPaymentService_InitiateCheckout_Validation(t *testing.T) {
	svc := NewPaymentService(&mockBookingStore{}, &mockCheckoutProvider{}, nil)

	cases := []struct {
		name      string
		amount    int64
		bookingID string
		email     string
	}{
		{"zero amount", 0, "b-1", "buyer@example.com"},
		{"negative amount", -5, "b-1", "buyer@example.com"},
		{"empty booking id", 240000, "", "buyer@example.com"},
		{"empty email", 240000, "b-1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.InitiateCheckout(context.Background(), tc.amount, tc.bookingID, tc.email, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPaymentService_InitiateCheckout_BookingNotFound(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	bookings.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrBookingNotFound)

	_, err := svc.InitiateCheckout(context.Background(), 240000, "missing", "buyer@example.com", "")

	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestPaymentService_InitiateCheckout_ProviderError(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	provider.On("CreateSession", mock.Anything, mock.Anything).Return(nil, payment.ErrProvider)

	_, err := svc.InitiateCheckout(context.Background(), 240000, "b-1", "buyer@example.com", "trip")

	assert.ErrorIs(t, err, payment.ErrProvider)
}

func TestPaymentService_Confirm_Success(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	provider.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession(), nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	bookings.On("MarkPaid", mock.Anything, "b-1", mock.AnythingOfType("*model.Transaction")).Return(nil)

	txn, already, err := svc.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.False(t, already)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "b-1", txn.BookingID)
	assert.Equal(t, "cs_test_1", txn.SessionID)
	assert.Equal(t, int64(240000), txn.AmountCents)
	assert.Equal(t, "buyer@example.com", txn.PayerEmail)
	assert.Equal(t, payment.StatusPaid, txn.PaymentStatus)
	bookings.AssertExpectations(t)
}

func TestPaymentService_Confirm_EmptySessionID(t *testing.T) {
	svc := NewPaymentService(&mockBookingStore{}, &mockCheckoutProvider{}, nil)

	_, _, err := svc.Confirm(context.Background(), "")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentService_Confirm_SessionNotPaid(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	sess := paidSession()
	sess.PaymentStatus = "unpaid"
	provider.On("GetSession", mock.Anything, "cs_test_1").Return(sess, nil)

	_, _, err := svc.Confirm(context.Background(), "cs_test_1")

	assert.ErrorIs(t, err, ErrValidation)
	bookings.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_ProviderError(t *testing.T) {
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(&mockBookingStore{}, provider, nil)

	provider.On("GetSession", mock.Anything, "cs_test_1").Return(nil, payment.ErrProvider)

	_, _, err := svc.Confirm(context.Background(), "cs_test_1")

	assert.ErrorIs(t, err, payment.ErrProvider)
}

func TestPaymentService_Confirm_BookingNotFound(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	provider.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession(), nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(nil, repository.ErrBookingNotFound)

	_, _, err := svc.Confirm(context.Background(), "cs_test_1")

	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestPaymentService_Confirm_AlreadyPaid(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	paid := pendingBooking()
	paid.Status = model.BookingStatusPaid
	provider.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession(), nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(paid, nil)

	txn, already, err := svc.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.True(t, already)
	assert.Nil(t, txn)
	bookings.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Confirm_ConcurrentSettlement(t *testing.T) {
	// MarkPaid reporting a conflict means another confirmation won the
	// race; the caller still sees success, not an error.
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	provider.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession(), nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	bookings.On("MarkPaid", mock.Anything, "b-1", mock.Anything).Return(repository.ErrConflict)

	txn, already, err := svc.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.True(t, already)
	assert.Nil(t, txn)
}

func TestPaymentService_Confirm_FallbacksFromBooking(t *testing.T) {
	// Sessions from some providers omit payer email and amount; both fall
	// back to the booking snapshot.
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	svc := NewPaymentService(bookings, provider, nil)

	sess := paidSession()
	sess.PayerEmail = ""
	sess.AmountCents = 0
	provider.On("GetSession", mock.Anything, "cs_test_1").Return(sess, nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	bookings.On("MarkPaid", mock.Anything, "b-1", mock.Anything).Return(nil)

	txn, already, err := svc.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, "buyer@example.com", txn.PayerEmail)
	assert.Equal(t, int64(240000), txn.AmountCents)
}

func TestPaymentService_Confirm_PublishesEvent(t *testing.T) {
	bookings := &mockBookingStore{}
	provider := &mockCheckoutProvider{}
	publisher := &mockEventPublisher{}
	svc := NewPaymentService(bookings, provider, publisher)

	provider.On("GetSession", mock.Anything, "cs_test_1").Return(paidSession(), nil)
	bookings.On("GetByID", mock.Anything, "b-1").Return(pendingBooking(), nil)
	bookings.On("MarkPaid", mock.Anything, "b-1", mock.Anything).Return(nil)

	published := make(chan queue.PaymentCompletedEvent, 1)
	publisher.On("PublishPaymentCompleted", mock.Anything, mock.AnythingOfType("queue.PaymentCompletedEvent")).
		Run(func(args mock.Arguments) {
			published <- args.Get(1).(queue.PaymentCompletedEvent)
		}).Return(nil)

	txn, _, err := svc.Confirm(context.Background(), "cs_test_1")
	require.NoError(t, err)

	select {
	case ev := <-published:
		assert.Equal(t, "b-1", ev.BookingID)
		assert.Equal(t, txn.ID, ev.TransactionID)
		assert.Equal(t, "cs_test_1", ev.SessionID)
		assert.Equal(t, int64(240000), ev.AmountCents)
	case <-time.After(2 * time.Second):
		t.Fatal("payment.completed event was not published")
	}
}
