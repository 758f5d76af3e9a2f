package schedules

import (
	"context"
	"testing"
	"time"

	"busbooking/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateCity(ctx context.Context, city *City) error {
	return m.Called(ctx, city).Error(0)
}

func (m *mockRepository) CreateBus(ctx context.Context, bus *Bus) error {
	return m.Called(ctx, bus).Error(0)
}

func (m *mockRepository) CreateRoute(ctx context.Context, route *Route) error {
	return m.Called(ctx, route).Error(0)
}

func (m *mockRepository) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *mockRepository) GetScheduleByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*Schedule)
	return s, args.Error(1)
}

func (m *mockRepository) SearchSchedules(ctx context.Context, query ScheduleSearchQuery) ([]Schedule, int64, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).([]Schedule)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetCities(ctx context.Context) ([]City, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]City)
	return list, args.Error(1)
}

type mockSeatReader struct {
	mock.Mock
}

func (m *mockSeatReader) GetScheduleSeats(ctx context.Context, scheduleID string) ([]seats.Seat, error) {
	args := m.Called(ctx, scheduleID)
	list, _ := args.Get(0).([]seats.Seat)
	return list, args.Error(1)
}

func (m *mockSeatReader) CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, scheduleIDs)
	counts, _ := args.Get(0).(map[uuid.UUID]int)
	return counts, args.Error(1)
}

func puneGoa(departure time.Time) *Schedule {
	return &Schedule{
		ID:            uuid.New(),
		DepartureTime: departure,
		ArrivalTime:   departure.Add(11 * time.Hour),
		BaseFare:      850,
		Status:        StatusScheduled,
		Route: Route{
			SourceCity:      City{Name: "Pune"},
			DestinationCity: City{Name: "Goa"},
		},
		Bus: Bus{Name: "Konkan Express", BusType: "AC_SLEEPER", Operator: "Konkan Travels", TotalSeats: 33},
	}
}

func TestSearchSchedules_AttachesAvailableCounts(t *testing.T) {
	repo := &mockRepository{}
	reader := &mockSeatReader{}
	a := puneGoa(time.Now().Add(24 * time.Hour))
	b := puneGoa(time.Now().Add(48 * time.Hour))

	query := ScheduleSearchQuery{From: "pune", To: "goa", Page: 1, Limit: DefaultPageLimit}
	repo.On("SearchSchedules", mock.Anything, query).Return([]Schedule{*a, *b}, int64(2), nil)
	reader.On("CountAvailable", mock.Anything, []uuid.UUID{a.ID, b.ID}).Return(map[uuid.UUID]int{a.ID: 12}, nil)

	resp, err := NewService(repo, reader, nil).SearchSchedules(context.Background(), ScheduleSearchQuery{From: "pune", To: "goa"})

	require.NoError(t, err)
	require.Len(t, resp.Schedules, 2)
	assert.Equal(t, 12, resp.Schedules[0].AvailableSeats)
	assert.Equal(t, 0, resp.Schedules[1].AvailableSeats)
	assert.Equal(t, "Pune", resp.Schedules[0].Source)
	assert.Equal(t, 660, resp.Schedules[0].DurationMinutes)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestGetSchedule(t *testing.T) {
	repo := &mockRepository{}
	reader := &mockSeatReader{}
	sch := puneGoa(time.Now().Add(24 * time.Hour))
	repo.On("GetScheduleByID", mock.Anything, sch.ID).Return(sch, nil)
	reader.On("CountAvailable", mock.Anything, []uuid.UUID{sch.ID}).Return(map[uuid.UUID]int{sch.ID: 30}, nil)
	svc := NewService(repo, reader, nil)

	resp, err := svc.GetSchedule(context.Background(), sch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 30, resp.AvailableSeats)
	assert.Equal(t, int64(850), resp.BaseFare)

	_, err = svc.GetSchedule(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidScheduleID)

	missing := uuid.New()
	repo.On("GetScheduleByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = svc.GetSchedule(context.Background(), missing.String())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestGetSeatMap_DropsMalformedLabels(t *testing.T) {
	repo := &mockRepository{}
	reader := &mockSeatReader{}
	sch := puneGoa(time.Now().Add(24 * time.Hour))
	repo.On("GetScheduleByID", mock.Anything, sch.ID).Return(sch, nil)
	reader.On("GetScheduleSeats", mock.Anything, sch.ID.String()).Return([]seats.Seat{
		{ID: uuid.New(), SeatNumber: "1-2B", Status: seats.StatusAvailable},
		{ID: uuid.New(), SeatNumber: "1-1A", Status: seats.StatusBooked},
		{ID: uuid.New(), SeatNumber: "LEGACY", Status: seats.StatusAvailable},
	}, nil)

	rows, err := NewService(repo, reader, nil).GetSeatMap(context.Background(), sch.ID.String())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "1-1A", rows[0].Seats[0].SeatNumber)
	assert.Equal(t, 2, rows[1].Number)
}

func TestInventory(t *testing.T) {
	repo := &mockRepository{}
	reader := &mockSeatReader{}
	open := puneGoa(time.Now().Add(24 * time.Hour))
	gone := puneGoa(time.Now().Add(-time.Hour))
	repo.On("GetScheduleByID", mock.Anything, open.ID).Return(open, nil)
	repo.On("GetScheduleByID", mock.Anything, gone.ID).Return(gone, nil)
	repo.On("GetCities", mock.Anything).Return([]City{{Name: "Goa"}, {Name: "Pune"}}, nil)
	inv := NewInventory(NewService(repo, reader, nil), reader)

	info, err := inv.FetchSchedule(context.Background(), open.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", info.Source)
	assert.Equal(t, "Goa", info.Destination)
	assert.Equal(t, "Konkan Express", info.BusName)
	assert.Equal(t, int64(850), info.FareBasis)

	_, err = inv.FetchSchedule(context.Background(), gone.ID)
	assert.ErrorIs(t, err, ErrScheduleClosed)

	cities, err := inv.FetchCities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa", "Pune"}, cities)
}
