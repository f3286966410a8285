package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/service"
)

// PaymentHandler serves the checkout flow.  Both endpoints are driven by
// the frontend redirect dance: create a session, send the client to the
// provider, confirm with the session id the provider appends to the
// success URL.
type PaymentHandler struct {
	Svc *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

type checkoutReq struct {
	AmountCents int64  `json:"amount_cents"`
	BookingID   string `json:"booking_id"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// CreateCheckoutSession handles POST /create-checkout-session.  It returns
// the provider's session id and the URL to redirect the client to.  No
// local state is written here.
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	sess, err := h.Svc.InitiateCheckout(ctx, req.AmountCents, req.BookingID, req.Email, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sess.ID,
		"url":        sess.URL,
	})
}

// PaymentSuccess handles PATCH /payment-success?session_id=.  Confirming
// the same session twice is safe: the second call reports success without
// recording another transaction.
func (h *PaymentHandler) PaymentSuccess(c echo.Context) error {
	sessionID := c.QueryParam("session_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	txn, already, err := h.Svc.Confirm(ctx, sessionID)
	if err != nil {
		return respondError(c, err)
	}
	if already {
		return c.JSON(http.StatusOK, echo.Map{"status": "paid", "already_confirmed": true})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":         "paid",
		"transaction_id": txn.ID,
		"amount_cents":   txn.AmountCents,
	})
}
