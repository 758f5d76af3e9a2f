package seats

import (
	"context"
	"testing"

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

func TestRepository_GetSeatsByScheduleID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	scheduleID := uuid.New()
	seatID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "schedule_id", "seat_number", "seat_type", "status", "price"}).
		AddRow(seatID.String(), scheduleID.String(), "1-1A", "SEATER", "AVAILABLE", 100)
	mock.ExpectQuery(`SELECT \* FROM "seats" WHERE schedule_id = \$1 ORDER BY seat_number ASC`).
		WithArgs(scheduleID).
		WillReturnRows(rows)

	seats, err := repo.GetSeatsByScheduleID(context.Background(), scheduleID)

	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, seatID, seats[0].ID)
	assert.Equal(t, "1-1A", seats[0].SeatNumber)
	assert.Equal(t, StatusAvailable, seats[0].Status)
	assert.Equal(t, int64(100), seats[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAvailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	a, b := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"schedule_id", "count"}).AddRow(a.String(), 7)
	mock.ExpectQuery(`SELECT schedule_id, COUNT\(\*\) AS count FROM "seats" WHERE schedule_id IN \(\$1,\$2\) AND status = \$3 GROUP BY "schedule_id"`).
		WithArgs(a, b, StatusAvailable).
		WillReturnRows(rows)

	counts, err := repo.CountAvailable(context.Background(), []uuid.UUID{a, b})

	require.NoError(t, err)
	assert.Equal(t, 7, counts[a])
	assert.Equal(t, 0, counts[b])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAvailableEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	counts, err := repo.CountAvailable(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
