package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/repository"
)

// TicketHandler serves ticket CRUD for vendors, the public browse
// endpoints and admin moderation.  Vendor identity comes from the JWT;
// clients cannot list or edit on behalf of another vendor.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(tickets *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

// ----- DTOs -----

type ticketReq struct {
	Title         string    `json:"title"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	TransportType string    `json:"transport_type"`
	PriceCents    int64     `json:"price_cents"`
	Quantity      uint32    `json:"quantity"`
	DepartureAt   time.Time `json:"departure_at"`
	Image         string    `json:"image"`
	Perks         string    `json:"perks"`
}

type ticketPart struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	TransportType string    `json:"transport_type"`
	PriceCents    int64     `json:"price_cents"`
	Quantity      uint32    `json:"quantity"`
	DepartureAt   time.Time `json:"departure_at"`
	VendorEmail   string    `json:"vendor_email"`
	Status        string    `json:"status"`
	Advertised    bool      `json:"advertised"`
	Image         string    `json:"image,omitempty"`
	Perks         string    `json:"perks,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTicketPart(t model.Ticket) ticketPart {
	return ticketPart{
		ID: t.ID, Title: t.Title, From: t.FromLocation, To: t.ToLocation,
		TransportType: t.TransportType, PriceCents: t.PriceCents, Quantity: t.Quantity,
		DepartureAt: t.DepartureAt, VendorEmail: t.VendorEmail, Status: t.Status,
		Advertised: t.Advertised, Image: t.Image, Perks: t.Perks, CreatedAt: t.CreatedAt,
	}
}

func (req *ticketReq) validate() string {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return "title is required"
	case strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "":
		return "from and to are required"
	case strings.TrimSpace(req.TransportType) == "":
		return "transport_type is required"
	case req.PriceCents <= 0:
		return "price_cents must be positive"
	case req.DepartureAt.IsZero():
		return "departure_at is required"
	}
	return ""
}

func (req *ticketReq) toModel(vendorEmail string) *model.Ticket {
	return &model.Ticket{
		Title:         strings.TrimSpace(req.Title),
		FromLocation:  strings.TrimSpace(req.From),
		ToLocation:    strings.TrimSpace(req.To),
		TransportType: strings.ToLower(strings.TrimSpace(req.TransportType)),
		PriceCents:    req.PriceCents,
		Quantity:      req.Quantity,
		DepartureAt:   req.DepartureAt.UTC(),
		VendorEmail:   vendorEmail,
		Image:         req.Image,
		Perks:         req.Perks,
	}
}

// Create handles POST /tickets (vendor).  The listing enters moderation
// as "pending" and stays invisible to buyers until approved.
func (h *TicketHandler) Create(c echo.Context) error {
	vendorEmail, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := req.toModel(vendorEmail)
	if _, err := h.Tickets.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	t.Status = model.TicketStatusPending
	return c.JSON(http.StatusCreated, echo.Map{"item": toTicketPart(*t)})
}

// ListApproved handles GET /all-tickets, the public browse endpoint.  It
// sits behind the Redis response cache.
func (h *TicketHandler) ListApproved(c echo.Context) error {
	tickets, err := h.Tickets.ListApproved(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	items := make([]ticketPart, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, toTicketPart(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetByID handles GET /tickets/:id.
func (h *TicketHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toTicketPart(*t)})
}

// ListByVendor handles GET /tickets/vendor/:email (vendor).  Vendors can
// only list their own tickets; the path email must match the JWT.
func (h *TicketHandler) ListByVendor(c echo.Context) error {
	vendorEmail, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !strings.EqualFold(c.Param("email"), vendorEmail) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	tickets, err := h.Tickets.ListByVendor(c.Request().Context(), vendorEmail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	items := make([]ticketPart, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, toTicketPart(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PATCH /tickets/:id (vendor).  Editing resets the listing
// to "pending" for re-moderation.
func (h *TicketHandler) Update(c echo.Context) error {
	vendorEmail, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Update(ctx, id, vendorEmail, req.toModel(vendorEmail)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.TicketStatusPending})
}

// Delete handles DELETE /tickets/:id.  A vendor may delete their own
// listing; admins may delete any.
func (h *TicketHandler) Delete(c echo.Context) error {
	email, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	owner := email
	if role, _ := c.Get("role").(string); role == model.RoleAdmin {
		owner = "" // admins bypass the ownership check
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id, owner); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Approve handles PATCH /tickets/approve/:id (admin).
func (h *TicketHandler) Approve(c echo.Context) error {
	return h.moderate(c, model.TicketStatusApproved)
}

// Reject handles PATCH /tickets/reject/:id (admin).
func (h *TicketHandler) Reject(c echo.Context) error {
	return h.moderate(c, model.TicketStatusRejected)
}

func (h *TicketHandler) moderate(c echo.Context, status string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.UpdateStatusFromPending(ctx, id, status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

// Advertise handles PATCH /tickets/advertise/:id (admin).  It toggles the
// advertised flag; the advertisements projection row is created or removed
// in the same transaction.
func (h *TicketHandler) Advertise(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	advertised := !t.Advertised
	if err := h.Tickets.SetAdvertised(ctx, id, advertised); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "advertised": advertised})
}
