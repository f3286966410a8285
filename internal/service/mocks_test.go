package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/payment"
	"github.com/ticketkati/ticketkati/internal/queue"
)

type mockTicketStore struct{ mock.Mock }

func (m *mockTicketStore) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Ticket)
	return t, args.Error(1)
}

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) MarkPaid(ctx context.Context, bookingID string, txn *model.Transaction) error {
	return m.Called(ctx, bookingID, txn).Error(0)
}

type mockCheckoutProvider struct{ mock.Mock }

func (m *mockCheckoutProvider) CreateSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockCheckoutProvider) GetSession(ctx context.Context, id string) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockEventPublisher) PublishPaymentCompleted(ctx context.Context, ev queue.PaymentCompletedEvent) error {
	return m.Called(ctx, ev).Error(0)
}
