package seats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateSeats(ctx context.Context, seats []Seat) error
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).Create(&seats).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("id IN ?", seatIDs).
		Find(&seats).Error
	return seats, err
}

type availableCount struct {
	ScheduleID uuid.UUID
	Count      int
}

// CountAvailable returns the AVAILABLE seat count per schedule
func (r *repository) CountAvailable(ctx context.Context, scheduleIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return counts, nil
	}

	var rows []availableCount
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Select("schedule_id, COUNT(*) AS count").
		Where("schedule_id IN ? AND status = ?", scheduleIDs, StatusAvailable).
		Group("schedule_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ScheduleID] = row.Count
	}
	return counts, nil
}
