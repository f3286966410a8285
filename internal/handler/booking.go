package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/service"
)

// BookingHandler serves booking creation, listing and moderation.
// Creation goes through the BookingService so the inventory claim is
// atomic; the listing and moderation endpoints talk to the repository
// directly.
type BookingHandler struct {
	Svc      *service.BookingService
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Svc: svc, Bookings: bookings}
}

// ----- DTOs -----

type bookingReq struct {
	TicketID uint64 `json:"ticket_id"`
	Email    string `json:"email"`
	Quantity uint32 `json:"quantity"`
}

type bookingPart struct {
	ID             string    `json:"id"`
	TicketID       uint64    `json:"ticket_id"`
	PurchaserEmail string    `json:"purchaser_email"`
	Quantity       uint32    `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	AmountCents    int64     `json:"amount_cents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toBookingPart(b model.Booking) bookingPart {
	return bookingPart{
		ID: b.ID, TicketID: b.TicketID, PurchaserEmail: b.PurchaserEmail,
		Quantity: b.Quantity, UnitPriceCents: b.UnitPriceCents,
		AmountCents: b.AmountCents(), Status: b.Status, CreatedAt: b.CreatedAt,
	}
}

// Create handles POST /bookings.  On success the booking is pending and
// the ticket's remaining quantity has already been decremented; 400 with
// an unchanged quantity when the request exceeds it.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, err := h.Svc.Create(ctx, req.TicketID, req.Email, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toBookingPart(*booking)})
}

// ListAll handles GET /bookings.  Admins see everything; vendors see the
// bookings against their own tickets.
func (h *BookingHandler) ListAll(c echo.Context) error {
	email, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var bookings []model.Booking
	if role, _ := c.Get("role").(string); role == model.RoleAdmin {
		bookings, err = h.Bookings.ListAll(c.Request().Context())
	} else {
		bookings, err = h.Bookings.ListByVendor(c.Request().Context(), email)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toBookingParts(bookings)})
}

// ListByEmail handles GET /bookings/:email, the purchaser's own bookings.
func (h *BookingHandler) ListByEmail(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	bookings, err := h.Bookings.ListByEmail(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toBookingParts(bookings)})
}

func toBookingParts(bookings []model.Booking) []bookingPart {
	items := make([]bookingPart, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingPart(b))
	}
	return items
}

// Accept handles PATCH /bookings/accept/:id (vendor or admin).
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.moderate(c, model.BookingStatusAccepted)
}

// Reject handles PATCH /bookings/reject/:id (vendor or admin).
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.moderate(c, model.BookingStatusRejected)
}

// moderate moves a booking out of "pending".  A booking that already
// reached accepted, rejected or paid stays put and the caller gets 409.
func (h *BookingHandler) moderate(c echo.Context, status string) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.UpdateStatusFromPending(ctx, id, status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
