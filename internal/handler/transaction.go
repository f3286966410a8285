package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/repository"
)

// TransactionHandler lists settled payments.  Transactions are written by
// the payment workflow and immutable, so this is read-only.
type TransactionHandler struct {
	Txns *repository.TransactionRepo
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(txns *repository.TransactionRepo) *TransactionHandler {
	return &TransactionHandler{Txns: txns}
}

type transactionPart struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	SessionID     string    `json:"session_id"`
	AmountCents   int64     `json:"amount_cents"`
	PayerEmail    string    `json:"payer_email"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionParts(txns []model.Transaction) []transactionPart {
	items := make([]transactionPart, 0, len(txns))
	for _, t := range txns {
		items = append(items, transactionPart{
			ID: t.ID, BookingID: t.BookingID, SessionID: t.SessionID,
			AmountCents: t.AmountCents, PayerEmail: t.PayerEmail,
			PaymentStatus: t.PaymentStatus, CreatedAt: t.CreatedAt,
		})
	}
	return items
}

// ListAll handles GET /transactions (admin).
func (h *TransactionHandler) ListAll(c echo.Context) error {
	txns, err := h.Txns.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load transactions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toTransactionParts(txns)})
}

// ListByEmail handles GET /transactions/:email.  Callers may only read
// their own payment history unless they are an admin.
func (h *TransactionHandler) ListByEmail(c echo.Context) error {
	email, err := authEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target := c.Param("email")
	if role, _ := c.Get("role").(string); role != model.RoleAdmin && !strings.EqualFold(target, email) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	txns, err := h.Txns.ListByEmail(c.Request().Context(), target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load transactions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toTransactionParts(txns)})
}
