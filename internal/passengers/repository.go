package passengers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreatePassenger(ctx context.Context, p *Passenger) error
	DeletePassengers(ctx context.Context, ids []uuid.UUID) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Passenger, error)
	AttachToBooking(ctx context.Context, ids []uuid.UUID, bookingID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePassenger(ctx context.Context, p *Passenger) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// DeletePassengers removes passengers created for a submission that did not complete.
func (r *repository) DeletePassengers(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Passenger{}).Error
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Passenger, error) {
	var out []Passenger
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("seat_number ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) AttachToBooking(ctx context.Context, ids []uuid.UUID, bookingID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Passenger{}).
		Where("id IN ?", ids).
		Update("booking_id", bookingID).Error
}
