package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ticketkati/ticketkati/internal/model"
)

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides operations on the bookings table.  The two
// multi-write flows of the marketplace, claiming inventory at booking time
// and settling a payment, run inside transactions here so callers never
// observe a booking without its inventory decrement or a paid booking
// without its transaction record.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = `id, ticket_id, purchaser_email, quantity, unit_price_cents, status, created_at`

func scanBooking(s interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var b model.Booking
	err := s.Scan(&b.ID, &b.TicketID, &b.PurchaserEmail, &b.Quantity,
		&b.UnitPriceCents, &b.Status, &b.CreatedAt)
	return b, err
}

// Create inserts a pending booking and claims its inventory in a single
// transaction.  The decrement is one conditional UPDATE: quantity shrinks
// only when enough units remain, so two concurrent bookings for the last
// units cannot both succeed.  ErrInsufficientInventory is returned when
// the condition fails; the insert rolls back with it.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO bookings (id, ticket_id, purchaser_email, quantity, unit_price_cents, status)
		VALUES (?,?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, ins,
		b.ID, b.TicketID, strings.ToLower(strings.TrimSpace(b.PurchaserEmail)),
		b.Quantity, b.UnitPriceCents, model.BookingStatusPending); err != nil {
		return err
	}

	const dec = `UPDATE tickets SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`
	res, err := tx.ExecContext(ctx, dec, b.Quantity, b.TicketID, b.Quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientInventory
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a booking by id.  ErrBookingNotFound is returned when
// the id does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=?", id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListAll returns every booking, newest first.  Used by moderation views.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings ORDER BY created_at DESC")
}

// ListByEmail returns the bookings created by the given purchaser,
// newest first.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE purchaser_email=? ORDER BY created_at DESC",
		strings.ToLower(strings.TrimSpace(email)))
}

// ListByVendor returns bookings against any of the vendor's tickets so
// vendors can moderate incoming claims, newest first.
func (r *BookingRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Booking, error) {
	const q = `SELECT b.id, b.ticket_id, b.purchaser_email, b.quantity, b.unit_price_cents, b.status, b.created_at
		FROM bookings b
		JOIN tickets t ON t.id = b.ticket_id
		WHERE t.vendor_email=?
		ORDER BY b.created_at DESC`
	return r.list(ctx, q, strings.ToLower(strings.TrimSpace(vendorEmail)))
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatusFromPending moves a booking from "pending" into the given
// status.  The guard is the WHERE clause: zero affected rows on an
// existing booking means it already reached a terminal state, which
// surfaces as ErrConflict.
func (r *BookingRepo) UpdateStatusFromPending(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status=?",
		status, id, model.BookingStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// MarkPaid settles a booking: it flips the status to "paid" and records
// the transaction in one transaction.  The status UPDATE is conditional on
// the booking not already being paid, which is what makes confirming the
// same checkout session twice insert exactly one transaction row; a
// repeated call reports ErrConflict and the caller treats it as the
// idempotent success case.
func (r *BookingRepo) MarkPaid(ctx context.Context, bookingID string, txn *model.Transaction) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status<>?",
		model.BookingStatusPaid, bookingID, model.BookingStatusPaid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return err
		}
		return ErrConflict
	}

	const ins = `INSERT INTO transactions (id, booking_id, session_id, amount_cents, payer_email, payment_status)
		VALUES (?,?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, ins,
		txn.ID, txn.BookingID, txn.SessionID, txn.AmountCents,
		strings.ToLower(strings.TrimSpace(txn.PayerEmail)), txn.PaymentStatus); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
