package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketkati/ticketkati/internal/model"
)

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func bookingRows(b model.Booking) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "ticket_id", "purchaser_email", "quantity", "unit_price_cents", "status", "created_at",
	}).AddRow(b.ID, b.TicketID, b.PurchaserEmail, b.Quantity, b.UnitPriceCents, b.Status, b.CreatedAt)
}

func TestBookingRepo_Create_ClaimsInventory(t *testing.T) {
	repo, mock := newBookingRepo(t)

	b := &model.Booking{
		ID:             "b-1",
		TicketID:       7,
		PurchaserEmail: "Buyer@Example.com",
		Quantity:       3,
		UnitPriceCents: 120000,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("b-1", uint64(7), "buyer@example.com", uint32(3), int64(120000), model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tickets SET quantity = quantity - \? WHERE id = \? AND quantity >= \?`).
		WithArgs(uint32(3), uint64(7), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), b)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_Create_InsufficientInventoryRollsBack(t *testing.T) {
	repo, mock := newBookingRepo(t)

	b := &model.Booking{
		ID:             "b-1",
		TicketID:       7,
		PurchaserEmail: "buyer@example.com",
		Quantity:       5,
		UnitPriceCents: 120000,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The guard in the WHERE clause matched no row: not enough units left.
	mock.ExpectExec(`UPDATE tickets SET quantity = quantity - \?`).
		WithArgs(uint32(5), uint64(7), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), b)

	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingRepo_UpdateStatusFromPending_Success(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status=\?`).
		WithArgs(model.BookingStatusAccepted, "b-1", model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatusFromPending(context.Background(), "b-1", model.BookingStatusAccepted)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_UpdateStatusFromPending_AlreadyDecided(t *testing.T) {
	repo, mock := newBookingRepo(t)

	accepted := model.Booking{
		ID: "b-1", TicketID: 7, PurchaserEmail: "buyer@example.com",
		Quantity: 1, UnitPriceCents: 120000,
		Status: model.BookingStatusAccepted, CreatedAt: time.Now(),
	}

	mock.ExpectExec(`UPDATE bookings SET status=\?`).
		WithArgs(model.BookingStatusRejected, "b-1", model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WithArgs("b-1").
		WillReturnRows(bookingRows(accepted))

	err := repo.UpdateStatusFromPending(context.Background(), "b-1", model.BookingStatusRejected)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookingRepo_UpdateStatusFromPending_MissingBooking(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status=\?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.UpdateStatusFromPending(context.Background(), "missing", model.BookingStatusAccepted)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingRepo_MarkPaid_RecordsTransaction(t *testing.T) {
	repo, mock := newBookingRepo(t)

	txn := &model.Transaction{
		ID:            "t-1",
		BookingID:     "b-1",
		SessionID:     "cs_test_1",
		AmountCents:   240000,
		PayerEmail:    "Buyer@Example.com",
		PaymentStatus: "paid",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status<>\?`).
		WithArgs(model.BookingStatusPaid, "b-1", model.BookingStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs("t-1", "b-1", "cs_test_1", int64(240000), "buyer@example.com", "paid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkPaid(context.Background(), "b-1", txn)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_MarkPaid_AlreadyPaid(t *testing.T) {
	repo, mock := newBookingRepo(t)

	paid := model.Booking{
		ID: "b-1", TicketID: 7, PurchaserEmail: "buyer@example.com",
		Quantity: 2, UnitPriceCents: 120000,
		Status: model.BookingStatusPaid, CreatedAt: time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status<>\?`).
		WithArgs(model.BookingStatusPaid, "b-1", model.BookingStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WithArgs("b-1").
		WillReturnRows(bookingRows(paid))
	mock.ExpectRollback()

	err := repo.MarkPaid(context.Background(), "b-1", &model.Transaction{ID: "t-2", BookingID: "b-1"})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_ListByEmail_NormalizesEmail(t *testing.T) {
	repo, mock := newBookingRepo(t)

	b := model.Booking{
		ID: "b-1", TicketID: 7, PurchaserEmail: "buyer@example.com",
		Quantity: 1, UnitPriceCents: 120000,
		Status: model.BookingStatusPending, CreatedAt: time.Now(),
	}
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE purchaser_email=").
		WithArgs("buyer@example.com").
		WillReturnRows(bookingRows(b))

	bookings, err := repo.ListByEmail(context.Background(), "  Buyer@Example.com ")

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-1", bookings[0].ID)
}
