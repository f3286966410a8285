package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ticketkati/ticketkati/internal/model"
)

// TransactionRepo reads the transactions table.  Rows are inserted by
// BookingRepo.MarkPaid inside the settlement transaction and are immutable
// afterwards, so this repository only lists.
type TransactionRepo struct{ DB *sql.DB }

// NewTransactionRepo returns a TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{DB: db} }

const transactionCols = `id, booking_id, session_id, amount_cents, payer_email, payment_status, created_at`

// ListAll returns every transaction, newest first.  Admin-only view.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]model.Transaction, error) {
	return r.list(ctx, "SELECT "+transactionCols+" FROM transactions ORDER BY created_at DESC")
}

// ListByEmail returns the transactions paid by the given email, newest first.
func (r *TransactionRepo) ListByEmail(ctx context.Context, email string) ([]model.Transaction, error) {
	return r.list(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE payer_email=? ORDER BY created_at DESC",
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *TransactionRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	txns := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.BookingID, &t.SessionID, &t.AmountCents,
			&t.PayerEmail, &t.PaymentStatus, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
