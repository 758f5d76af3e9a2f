package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"busbooking/internal/passengers"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func twoSeatBooking() *Booking {
	id := uuid.New()
	return &Booking{
		ID:          id,
		BookingCode: "BUS-20261102-ABCDEF",
		UserID:      uuid.New(),
		ScheduleID:  uuid.New(),
		TotalSeats:  2,
		Status:      StatusConfirmed,
		SeatBookings: []SeatBooking{
			{ID: uuid.New(), BookingID: id, SeatID: uuid.New(), SeatNumber: "1-1A", SeatPrice: 100},
			{ID: uuid.New(), BookingID: id, SeatID: uuid.New(), SeatNumber: "1-1B", SeatPrice: 200},
		},
		Payments: []Payment{{ID: uuid.New(), BookingID: id, Amount: 365, TransactionID: "TXN_1_ABCDEF12"}},
	}
}

func idRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id.String())
}

func TestRepository_CreateBookingAtomic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	b := twoSeatBooking()
	traveller := passengers.Passenger{ID: uuid.New(), Name: "Jane", Age: 30, Gender: passengers.GenderFemale}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats" SET "status"=\$1,"updated_at"=\$2 WHERE id IN \(\$3,\$4\) AND schedule_id = \$5 AND status = \$6`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "passengers"`).WillReturnRows(idRows(traveller.ID))
	mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnRows(idRows(b.ID))
	mock.ExpectQuery(`INSERT INTO "seat_bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b.SeatBookings[0].ID.String()).AddRow(b.SeatBookings[1].ID.String()))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnRows(idRows(b.Payments[0].ID))
	mock.ExpectCommit()

	err := repo.CreateBookingAtomic(context.Background(), b, []passengers.Passenger{traveller})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBookingAtomicRollsBackWhenSeatTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	b := twoSeatBooking()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.CreateBookingAtomic(context.Background(), b, nil)

	assert.True(t, errors.Is(err, ErrSeatUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBookingLinksPassengers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	b := twoSeatBooking()
	b.Payments = nil
	pid := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnRows(idRows(b.ID))
	mock.ExpectQuery(`INSERT INTO "seat_bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b.SeatBookings[0].ID.String()).AddRow(b.SeatBookings[1].ID.String()))
	mock.ExpectExec(`UPDATE "passengers" SET "booking_id"=\$1 WHERE id IN \(\$2\)`).
		WithArgs(b.ID, pid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBooking(context.Background(), b, []uuid.UUID{pid}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetBookingByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBookingByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CancelBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	b := twoSeatBooking()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET .* WHERE id = \$\d+ AND status = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "seats" SET "status"=\$1,"updated_at"=\$2 WHERE id IN \(\$3,\$4\) AND status = \$5`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "payments" SET .* WHERE booking_id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CancelBooking(context.Background(), b, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CancelBookingAlreadyCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CancelBooking(context.Background(), twoSeatBooking(), time.Now())

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))
}
