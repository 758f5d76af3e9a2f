package seats

import (
	"context"
	"errors"
	"fmt"

	"busbooking/internal/shared/constants"
	"busbooking/pkg/cache"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSeatNotFound   = errors.New("seat not found")
	ErrInvalidSeatID  = errors.New("invalid seat ID")
	ErrInvalidSchedID = errors.New("invalid schedule ID")
)

type Service interface {
	GetScheduleSeats(ctx context.Context, scheduleID string) ([]Seat, error)
	GetSeatByID(ctx context.Context, id string) (*Seat, error)
	CheckAvailability(ctx context.Context, seatIDs []string) (*AvailabilityResponse, error)
	CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error)
	InvalidateSchedule(ctx context.Context, scheduleID string)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

// NewService creates the seat inventory service. cacheService may be nil.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
	}
}

func (s *service) GetScheduleSeats(ctx context.Context, scheduleID string) ([]Seat, error) {
	scheduleUUID, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, ErrInvalidSchedID
	}

	if s.cacheService == nil {
		return s.repo.GetSeatsByScheduleID(ctx, scheduleUUID)
	}

	var seats []Seat
	err = s.cacheService.GetOrSet(ctx, constants.BuildScheduleSeatsKey(scheduleID), constants.TTL_SCHEDULE_SEATS,
		func() (interface{}, error) {
			return s.repo.GetSeatsByScheduleID(ctx, scheduleUUID)
		}, &seats)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	return seats, nil
}

func (s *service) GetSeatByID(ctx context.Context, id string) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidSeatID
	}

	seat, err := s.repo.GetSeatByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

// CheckAvailability reads straight from the database, never from cache
func (s *service) CheckAvailability(ctx context.Context, seatIDs []string) (*AvailabilityResponse, error) {
	ids := make([]uuid.UUID, 0, len(seatIDs))
	for _, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidSeatID
		}
		ids = append(ids, id)
	}

	found, err := s.repo.GetSeatsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	byID := make(map[uuid.UUID]Seat, len(found))
	for _, seat := range found {
		byID[seat.ID] = seat
	}

	resp := &AvailabilityResponse{Seats: make([]AvailabilityInfo, 0, len(ids))}
	for _, id := range ids {
		seat, ok := byID[id]
		if !ok {
			resp.Seats = append(resp.Seats, AvailabilityInfo{SeatID: id.String(), Available: false, Status: "UNKNOWN"})
			continue
		}
		resp.Seats = append(resp.Seats, AvailabilityInfo{
			SeatID:     id.String(),
			SeatNumber: seat.SeatNumber,
			Available:  seat.IsAvailable(),
			Status:     string(seat.Status),
		})
	}
	return resp, nil
}

func (s *service) CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return s.repo.CountAvailable(ctx, scheduleIDs)
}

// InvalidateSchedule drops cached inventory after seats change status
func (s *service) InvalidateSchedule(ctx context.Context, scheduleID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildScheduleSeatsKey(scheduleID)); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to invalidate seat cache", "schedule_id", scheduleID)
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_SCHEDULE_SEARCH+":*"); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to invalidate schedule search cache")
	}
	logger.GetDefault().DebugWithContext(ctx, "seat cache invalidated", map[string]interface{}{"schedule_id": scheduleID})
}
