package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/queue"
	"github.com/ticketkati/ticketkati/internal/repository"
)

func approvedTicket() *model.Ticket {
	return &model.Ticket{
		ID:            7,
		Title:         "Dhaka to Sylhet",
		FromLocation:  "Dhaka",
		ToLocation:    "Sylhet",
		TransportType: "bus",
		PriceCents:    120000,
		Quantity:      10,
		VendorEmail:   "vendor@example.com",
		Status:        model.TicketStatusApproved,
	}
}

func TestBookingService_Create_Success(t *testing.T) {
	tickets := &mockTicketStore{}
	bookings := &mockBookingStore{}
	svc := NewBookingService(tickets, bookings, nil)

	tickets.On("GetByID", mock.Anything, uint64(7)).Return(approvedTicket(), nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)

	booking, err := svc.Create(context.Background(), 7, "buyer@example.com", 3)

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, uint64(7), booking.TicketID)
	assert.Equal(t, "buyer@example.com", booking.PurchaserEmail)
	assert.Equal(t, uint32(3), booking.Quantity)
	assert.Equal(t, int64(120000), booking.UnitPriceCents)
	assert.Equal(t, int64(360000), booking.AmountCents())
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	tickets.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestBookingService_Create_Validation(t *testing.T) {
	svc := NewBookingService(&mockTicketStore{}, &mockBookingStore{}, nil)

	cases := []struct {
		name     string
		ticketID uint64
		email    string
		quantity uint32
	}{
		{"zero ticket id", 0, "buyer@example.com", 1},
		{"empty email", 7, "", 1},
		{"zero quantity", 7, "buyer@example.com", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.ticketID, tc.email, tc.quantity)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBookingService_Create_TicketNotFound(t *testing.T) {
	tickets := &mockTicketStore{}
	svc := NewBookingService(tickets, &mockBookingStore{}, nil)

	tickets.On("GetByID", mock.Anything, uint64(404)).Return(nil, repository.ErrTicketNotFound)

	_, err := svc.Create(context.Background(), 404, "buyer@example.com", 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestBookingService_Create_QuantityExceedsInventory(t *testing.T) {
	tickets := &mockTicketStore{}
	bookings := &mockBookingStore{}
	svc := NewBookingService(tickets, bookings, nil)

	tickets.On("GetByID", mock.Anything, uint64(7)).Return(approvedTicket(), nil)

	_, err := svc.Create(context.Background(), 7, "buyer@example.com", 11)

	assert.ErrorIs(t, err, repository.ErrInsufficientInventory)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_Create_StoreRejectsInventory(t *testing.T) {
	// The read in Create is only a fast path; the store's conditional
	// decrement can still fail when a concurrent booking drains the
	// inventory between the read and the insert.
	tickets := &mockTicketStore{}
	bookings := &mockBookingStore{}
	svc := NewBookingService(tickets, bookings, nil)

	tickets.On("GetByID", mock.Anything, uint64(7)).Return(approvedTicket(), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(repository.ErrInsufficientInventory)

	_, err := svc.Create(context.Background(), 7, "buyer@example.com", 10)

	assert.ErrorIs(t, err, repository.ErrInsufficientInventory)
}

func TestBookingService_Create_PublishesEvent(t *testing.T) {
	tickets := &mockTicketStore{}
	bookings := &mockBookingStore{}
	publisher := &mockEventPublisher{}
	svc := NewBookingService(tickets, bookings, publisher)

	tickets.On("GetByID", mock.Anything, uint64(7)).Return(approvedTicket(), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	published := make(chan queue.BookingCreatedEvent, 1)
	publisher.On("PublishBookingCreated", mock.Anything, mock.AnythingOfType("queue.BookingCreatedEvent")).
		Run(func(args mock.Arguments) {
			published <- args.Get(1).(queue.BookingCreatedEvent)
		}).Return(nil)

	booking, err := svc.Create(context.Background(), 7, "buyer@example.com", 2)
	require.NoError(t, err)

	select {
	case ev := <-published:
		assert.Equal(t, booking.ID, ev.BookingID)
		assert.Equal(t, uint64(7), ev.TicketID)
		assert.Equal(t, "vendor@example.com", ev.VendorEmail)
		assert.Equal(t, int64(240000), ev.AmountCents)
	case <-time.After(2 * time.Second):
		t.Fatal("booking.created event was not published")
	}
}

func TestBookingService_Create_StoreError(t *testing.T) {
	tickets := &mockTicketStore{}
	bookings := &mockBookingStore{}
	svc := NewBookingService(tickets, bookings, nil)

	tickets.On("GetByID", mock.Anything, uint64(7)).Return(approvedTicket(), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), 7, "buyer@example.com", 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}
