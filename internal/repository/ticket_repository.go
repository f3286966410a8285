package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ticketkati/ticketkati/internal/model"
)

// ErrTicketNotFound is returned when a ticket id does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo provides CRUD and moderation operations on the tickets table.
// The advertisements projection is maintained here as well because its rows
// change only in lockstep with the advertised flag.
type TicketRepo struct{ DB *sql.DB }

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketCols = `id, title, from_location, to_location, transport_type, price_cents,
	quantity, departure_at, vendor_email, status, advertised, image, perks, created_at`

func scanTicket(s interface {
	Scan(dest ...interface{}) error
}) (model.Ticket, error) {
	var t model.Ticket
	var image, perks sql.NullString
	err := s.Scan(&t.ID, &t.Title, &t.FromLocation, &t.ToLocation, &t.TransportType,
		&t.PriceCents, &t.Quantity, &t.DepartureAt, &t.VendorEmail, &t.Status,
		&t.Advertised, &image, &perks, &t.CreatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	t.Image = image.String
	t.Perks = perks.String
	return t, nil
}

// Create inserts a new ticket with status "pending" and returns its ID.
// Vendor email is normalized to lower case so ownership checks compare
// equal regardless of how the client spelled it.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) (uint64, error) {
	const q = `INSERT INTO tickets
		(title, from_location, to_location, transport_type, price_cents, quantity,
		 departure_at, vendor_email, status, image, perks)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q,
		t.Title, t.FromLocation, t.ToLocation, t.TransportType, t.PriceCents, t.Quantity,
		t.DepartureAt, strings.ToLower(strings.TrimSpace(t.VendorEmail)),
		model.TicketStatusPending, t.Image, t.Perks)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = uint64(id)
	return t.ID, nil
}

// GetByID fetches a ticket by id.  ErrTicketNotFound is returned when the
// id does not exist.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE id=?", id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListApproved returns all approved tickets ordered by departure time.
// This feeds the public browse endpoint; pending and rejected listings
// stay invisible to buyers.
func (r *TicketRepo) ListApproved(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE status=? ORDER BY departure_at ASC`
	return r.list(ctx, q, model.TicketStatusApproved)
}

// ListByVendor returns every ticket owned by the vendor regardless of
// status, newest first, so vendors can see their pending submissions.
func (r *TicketRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE vendor_email=? ORDER BY created_at DESC`
	return r.list(ctx, q, strings.ToLower(strings.TrimSpace(vendorEmail)))
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update rewrites the editable fields of a ticket owned by vendorEmail.
// Editing resets the verification status to "pending" so an admin reviews
// the listing again.  ErrTicketNotFound and ErrForbidden are returned for
// a missing ticket and an ownership mismatch respectively.
func (r *TicketRepo) Update(ctx context.Context, id uint64, vendorEmail string, t *model.Ticket) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != strings.ToLower(strings.TrimSpace(vendorEmail)) {
		return ErrForbidden
	}
	const q = `UPDATE tickets SET title=?, from_location=?, to_location=?, transport_type=?,
		price_cents=?, quantity=?, departure_at=?, image=?, perks=?, status=?
		WHERE id=?`
	_, err = r.DB.ExecContext(ctx, q,
		t.Title, t.FromLocation, t.ToLocation, t.TransportType,
		t.PriceCents, t.Quantity, t.DepartureAt, t.Image, t.Perks,
		model.TicketStatusPending, id)
	return err
}

// Delete removes a ticket.  When vendorEmail is non-empty the ticket must
// belong to that vendor; admins pass an empty string to bypass the check.
// The advertisements projection row, if any, goes with it.
func (r *TicketRepo) Delete(ctx context.Context, id uint64, vendorEmail string) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if vendorEmail != "" && owner != strings.ToLower(strings.TrimSpace(vendorEmail)) {
		return ErrForbidden
	}
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM advertisements WHERE ticket_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *TicketRepo) ownerOf(ctx context.Context, id uint64) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, "SELECT vendor_email FROM tickets WHERE id=?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTicketNotFound
	}
	return owner, err
}

// UpdateStatusFromPending moves a ticket from "pending" into the given
// verification status.  The transition guard lives in the WHERE clause:
// zero affected rows on an existing ticket means it already left the
// pending state, which surfaces as ErrConflict.
func (r *TicketRepo) UpdateStatusFromPending(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET status=? WHERE id=? AND status=?",
		status, id, model.TicketStatusPending)
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

// SetAdvertised flips the advertised flag of an approved ticket and keeps
// the advertisements projection in lockstep inside one transaction.
// Advertising a ticket that is not approved returns ErrConflict.  The
// vendor's display name is denormalized into the projection at flip time.
func (r *TicketRepo) SetAdvertised(ctx context.Context, id uint64, advertised bool) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if advertised && t.Status != model.TicketStatusApproved {
		return ErrConflict
	}
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
	if _, err := tx.ExecContext(ctx, "UPDATE tickets SET advertised=? WHERE id=?", advertised, id); err != nil {
		return err
	}
	if advertised {
		const ins = `INSERT INTO advertisements (ticket_id, title, price_cents, transport_type, vendor_name, image, perks)
			SELECT t.id, t.title, t.price_cents, t.transport_type, COALESCE(a.name, t.vendor_email), t.image, t.perks
			FROM tickets t
			LEFT JOIN accounts a ON a.email = t.vendor_email
			WHERE t.id=?
			ON DUPLICATE KEY UPDATE title=VALUES(title), price_cents=VALUES(price_cents),
				transport_type=VALUES(transport_type), vendor_name=VALUES(vendor_name),
				image=VALUES(image), perks=VALUES(perks)`
		if _, err := tx.ExecContext(ctx, ins, id); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, "DELETE FROM advertisements WHERE ticket_id=?", id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DelistByVendor takes every ticket of a fraud-flagged vendor off sale in
// one transaction: listings are rejected and their advertisements removed.
// Existing bookings and transactions are left untouched.
func (r *TicketRepo) DelistByVendor(ctx context.Context, vendorEmail string) error {
	vendorEmail = strings.ToLower(strings.TrimSpace(vendorEmail))
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
	const delAds = `DELETE a FROM advertisements a
		JOIN tickets t ON t.id = a.ticket_id
		WHERE t.vendor_email=?`
	if _, err := tx.ExecContext(ctx, delAds, vendorEmail); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE tickets SET status=?, advertised=0 WHERE vendor_email=?",
		model.TicketStatusRejected, vendorEmail); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
