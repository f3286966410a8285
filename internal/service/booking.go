// Package service implements the booking and payment workflows, the two
// invariant-bearing flows of the marketplace.  Everything else is plain
// CRUD and lives directly in the handlers.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/queue"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/service/ports"
)

// BookingService creates bookings against ticket inventory.
type BookingService struct {
	tickets   ports.TicketStore
	bookings  ports.BookingStore
	publisher ports.EventPublisher
}

// NewBookingService constructs a BookingService.  publisher may be nil,
// in which case no events are emitted.
func NewBookingService(tickets ports.TicketStore, bookings ports.BookingStore, publisher ports.EventPublisher) *BookingService {
	return &BookingService{tickets: tickets, bookings: bookings, publisher: publisher}
}

// Create books quantity units of a ticket for purchaserEmail.  It fails
// with ErrValidation on missing input, repository.ErrTicketNotFound when
// the ticket is absent and repository.ErrInsufficientInventory when the
// remaining quantity cannot cover the request.  On success the booking is
// pending, the ticket quantity has been decremented exactly once, and a
// booking.created event is published best effort.
func (s *BookingService) Create(ctx context.Context, ticketID uint64, purchaserEmail string, quantity uint32) (*model.Booking, error) {
	if ticketID == 0 || purchaserEmail == "" || quantity < 1 {
		return nil, fmt.Errorf("%w: ticket id, email and quantity are required", ErrValidation)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	// Fast failure for obviously oversized requests.  The authoritative
	// check is the conditional decrement inside the store; this read is
	// only here to skip a doomed transaction.
	if quantity > ticket.Quantity {
		return nil, repository.ErrInsufficientInventory
	}

	booking := &model.Booking{
		ID:             uuid.New().String(),
		TicketID:       ticketID,
		PurchaserEmail: purchaserEmail,
		Quantity:       quantity,
		UnitPriceCents: ticket.PriceCents,
		Status:         model.BookingStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if s.publisher != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:      booking.ID,
			TicketID:       ticket.ID,
			TicketTitle:    ticket.Title,
			VendorEmail:    ticket.VendorEmail,
			PurchaserEmail: booking.PurchaserEmail,
			Quantity:       booking.Quantity,
			AmountCents:    booking.AmountCents(),
			CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
		}
		go func() {
			if err := s.publisher.PublishBookingCreated(context.WithoutCancel(ctx), ev); err != nil {
				log.Printf("booking-service: publish booking.created failed: %v", err)
			}
		}()
	}

	return booking, nil
}
