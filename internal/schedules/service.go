package schedules

import (
	"context"
	"errors"
	"fmt"
	"math"

	"busbooking/internal/seatmap"
	"busbooking/internal/seats"
	"busbooking/internal/shared/constants"
	"busbooking/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrInvalidScheduleID = errors.New("invalid schedule ID")
	ErrScheduleClosed    = errors.New("schedule is no longer open for booking")
)

// SeatReader is the part of the seat inventory the schedule views need.
type SeatReader interface {
	GetScheduleSeats(ctx context.Context, scheduleID string) ([]seats.Seat, error)
	CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type Service interface {
	SearchSchedules(ctx context.Context, query ScheduleSearchQuery) (*SearchResponse, error)
	GetSchedule(ctx context.Context, id string) (*ScheduleResponse, error)
	GetSeatMap(ctx context.Context, id string) ([]seatmap.Row, error)
	GetCities(ctx context.Context) ([]CityResponse, error)

	// Schedule returns the stored schedule with its route and bus.
	Schedule(ctx context.Context, id uuid.UUID) (*Schedule, error)
}

type service struct {
	repo         Repository
	seats        SeatReader
	cacheService cache.Service
}

// NewService creates the schedule read service. cacheService may be nil.
func NewService(repo Repository, seatReader SeatReader, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		seats:        seatReader,
		cacheService: cacheService,
	}
}

func (s *service) SearchSchedules(ctx context.Context, query ScheduleSearchQuery) (*SearchResponse, error) {
	query = query.normalized()

	// only the default first page is cached; counts go stale within TTL_SCHEDULE_SEARCH
	if s.cacheService != nil && query.Page == 1 && query.Limit == DefaultPageLimit {
		var resp SearchResponse
		key := constants.BuildScheduleSearchKey(query.From, query.To, query.Date)
		err := s.cacheService.GetOrSet(ctx, key, constants.TTL_SCHEDULE_SEARCH, func() (interface{}, error) {
			return s.search(ctx, query)
		}, &resp)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}

	return s.search(ctx, query)
}

func (s *service) search(ctx context.Context, query ScheduleSearchQuery) (*SearchResponse, error) {
	list, total, err := s.repo.SearchSchedules(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(list))
	for _, sch := range list {
		ids = append(ids, sch.ID)
	}
	counts, err := s.seats.CountAvailable(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count available seats: %w", err)
	}

	resp := &SearchResponse{
		Schedules:  make([]ScheduleResponse, 0, len(list)),
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}
	for i := range list {
		resp.Schedules = append(resp.Schedules, list[i].ToResponse(counts[list[i].ID]))
	}
	return resp, nil
}

func (s *service) Schedule(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	load := func() (*Schedule, error) {
		sch, err := s.repo.GetScheduleByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrScheduleNotFound
			}
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}
		return sch, nil
	}

	if s.cacheService == nil {
		return load()
	}

	var sch Schedule
	err := s.cacheService.GetOrSet(ctx, constants.BuildScheduleDetailKey(id.String()), constants.TTL_SCHEDULE_DETAIL,
		func() (interface{}, error) {
			return load()
		}, &sch)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &sch, nil
}

func (s *service) GetSchedule(ctx context.Context, id string) (*ScheduleResponse, error) {
	scheduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidScheduleID
	}

	sch, err := s.Schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	counts, err := s.seats.CountAvailable(ctx, []uuid.UUID{scheduleID})
	if err != nil {
		return nil, fmt.Errorf("failed to count available seats: %w", err)
	}

	resp := sch.ToResponse(counts[scheduleID])
	return &resp, nil
}

func (s *service) GetSeatMap(ctx context.Context, id string) ([]seatmap.Row, error) {
	scheduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidScheduleID
	}
	if _, err := s.Schedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	inventory, err := s.seats.GetScheduleSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	return seatmap.Build(ctx, inventory).Rows(), nil
}

func (s *service) GetCities(ctx context.Context) ([]CityResponse, error) {
	load := func() ([]CityResponse, error) {
		cities, err := s.repo.GetCities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get cities: %w", err)
		}
		out := make([]CityResponse, 0, len(cities))
		for _, c := range cities {
			out = append(out, c.ToResponse())
		}
		return out, nil
	}

	if s.cacheService == nil {
		return load()
	}

	var out []CityResponse
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_CITIES, constants.TTL_CITIES, func() (interface{}, error) {
		return load()
	}, &out)
	return out, err
}
