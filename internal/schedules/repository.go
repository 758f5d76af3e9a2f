package schedules

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateCity(ctx context.Context, city *City) error
	CreateBus(ctx context.Context, bus *Bus) error
	CreateRoute(ctx context.Context, route *Route) error
	CreateSchedule(ctx context.Context, schedule *Schedule) error

	GetScheduleByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	SearchSchedules(ctx context.Context, query ScheduleSearchQuery) ([]Schedule, int64, error)
	GetCities(ctx context.Context) ([]City, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCity(ctx context.Context, city *City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *repository) CreateBus(ctx context.Context, bus *Bus) error {
	return r.db.WithContext(ctx).Create(bus).Error
}

func (r *repository) CreateRoute(ctx context.Context, route *Route) error {
	return r.db.WithContext(ctx).Omit("SourceCity", "DestinationCity").Create(route).Error
}

func (r *repository) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	return r.db.WithContext(ctx).Omit("Route", "Bus").Create(schedule).Error
}

func (r *repository) GetScheduleByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	var schedule Schedule
	err := r.db.WithContext(ctx).
		Preload("Route.SourceCity").
		Preload("Route.DestinationCity").
		Preload("Bus").
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// SearchSchedules lists upcoming SCHEDULED departures, optionally filtered by
// city names (case-insensitive) and travel date.
func (r *repository) SearchSchedules(ctx context.Context, query ScheduleSearchQuery) ([]Schedule, int64, error) {
	var schedules []Schedule
	var totalCount int64

	query = query.normalized()

	db := r.db.WithContext(ctx).
		Model(&Schedule{}).
		Joins("JOIN routes ON routes.id = schedules.route_id").
		Joins("JOIN cities src ON src.id = routes.source_city_id").
		Joins("JOIN cities dst ON dst.id = routes.destination_city_id").
		Where("schedules.status = ?", StatusScheduled)

	if query.From != "" {
		db = db.Where("LOWER(src.name) = ?", strings.ToLower(strings.TrimSpace(query.From)))
	}
	if query.To != "" {
		db = db.Where("LOWER(dst.name) = ?", strings.ToLower(strings.TrimSpace(query.To)))
	}
	if query.Date != "" {
		if day, err := time.Parse("2006-01-02", query.Date); err == nil {
			db = db.Where("schedules.departure_time >= ? AND schedules.departure_time < ?", day, day.Add(24*time.Hour))
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Select("schedules.*").
		Preload("Route.SourceCity").
		Preload("Route.DestinationCity").
		Preload("Bus").
		Order("schedules.departure_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&schedules).Error

	return schedules, totalCount, err
}

func (r *repository) GetCities(ctx context.Context) ([]City, error) {
	var cities []City
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cities).Error
	return cities, err
}
