package seats

import (
	"context"
	"errors"
	"testing"
	"time"

	"busbooking/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateSeats(ctx context.Context, seats []Seat) error {
	return m.Called(ctx, seats).Error(0)
}

func (m *mockRepository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	args := m.Called(ctx, id)
	seat, _ := args.Get(0).(*Seat)
	return seat, args.Error(1)
}

func (m *mockRepository) GetSeatsByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, scheduleID)
	seats, _ := args.Get(0).([]Seat)
	return seats, args.Error(1)
}

func (m *mockRepository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, seatIDs)
	seats, _ := args.Get(0).([]Seat)
	return seats, args.Error(1)
}

func (m *mockRepository) CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, scheduleIDs)
	counts, _ := args.Get(0).(map[uuid.UUID]int)
	return counts, args.Error(1)
}

type mockCache struct {
	mock.Mock
	cache.Service
}

func (m *mockCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	args := m.Called(ctx, key, ttl)
	data, err := fetcher()
	if err != nil {
		return err
	}
	*(dest.(*[]Seat)) = data.([]Seat)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func TestGetScheduleSeats_WithoutCache(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil)
	scheduleID := uuid.New()
	want := []Seat{{ID: uuid.New(), ScheduleID: scheduleID, SeatNumber: "1-1A", Status: StatusAvailable, Price: 100}}

	repo.On("GetSeatsByScheduleID", mock.Anything, scheduleID).Return(want, nil)

	got, err := svc.GetScheduleSeats(context.Background(), scheduleID.String())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestGetScheduleSeats_ThroughCache(t *testing.T) {
	repo := new(mockRepository)
	c := new(mockCache)
	svc := NewService(repo, c)
	scheduleID := uuid.New()
	want := []Seat{{ID: uuid.New(), ScheduleID: scheduleID, SeatNumber: "1-1B", Status: StatusBooked, Price: 120}}

	c.On("GetOrSet", mock.Anything, "busbooking:seats:schedule:uuid:"+scheduleID.String(), mock.Anything).Return(nil)
	repo.On("GetSeatsByScheduleID", mock.Anything, scheduleID).Return(want, nil)

	got, err := svc.GetScheduleSeats(context.Background(), scheduleID.String())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	c.AssertExpectations(t)
}

func TestGetScheduleSeats_InvalidID(t *testing.T) {
	svc := NewService(new(mockRepository), nil)

	_, err := svc.GetScheduleSeats(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, ErrInvalidSchedID)
}

func TestGetSeatByID_NotFound(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil)
	id := uuid.New()
	repo.On("GetSeatByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetSeatByID(context.Background(), id.String())

	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestCheckAvailability(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil)
	free := Seat{ID: uuid.New(), SeatNumber: "1-1A", Status: StatusAvailable}
	taken := Seat{ID: uuid.New(), SeatNumber: "1-1B", Status: StatusBooked}
	missing := uuid.New()

	repo.On("GetSeatsByIDs", mock.Anything, []uuid.UUID{free.ID, taken.ID, missing}).Return([]Seat{taken, free}, nil)

	resp, err := svc.CheckAvailability(context.Background(), []string{free.ID.String(), taken.ID.String(), missing.String()})

	require.NoError(t, err)
	require.Len(t, resp.Seats, 3)
	assert.True(t, resp.Seats[0].Available)
	assert.False(t, resp.Seats[1].Available)
	assert.Equal(t, "BOOKED", resp.Seats[1].Status)
	assert.Equal(t, "UNKNOWN", resp.Seats[2].Status)
}

func TestCheckAvailability_RepoError(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil)
	id := uuid.New()
	repo.On("GetSeatsByIDs", mock.Anything, []uuid.UUID{id}).Return(nil, errors.New("db down"))

	_, err := svc.CheckAvailability(context.Background(), []string{id.String()})

	assert.Error(t, err)
}

func TestInvalidateSchedule(t *testing.T) {
	c := new(mockCache)
	svc := NewService(new(mockRepository), c)

	c.On("Delete", mock.Anything, "busbooking:seats:schedule:uuid:s1").Return(nil)
	c.On("DeletePattern", mock.Anything, "busbooking:schedules:search:*").Return(nil)

	svc.InvalidateSchedule(context.Background(), "s1")

	c.AssertExpectations(t)
}
