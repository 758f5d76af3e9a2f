package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"busbooking/internal/passengers"
	"busbooking/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking, passengerIDs []uuid.UUID) error
	CreateBookingAtomic(ctx context.Context, booking *Booking, travellers []passengers.Passenger) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	CancelBooking(ctx context.Context, booking *Booking, now time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateBooking reserves the seats and inserts the booking, then links the passengers created beforehand.
func (r *repository) CreateBooking(ctx context.Context, booking *Booking, passengerIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveSeats(tx, booking.ScheduleID, booking.SeatIDs()); err != nil {
			return err
		}
		if err := insertBooking(tx, booking); err != nil {
			return err
		}
		if len(passengerIDs) == 0 {
			return nil
		}
		return tx.Model(&passengers.Passenger{}).
			Where("id IN ?", passengerIDs).
			Update("booking_id", booking.ID).Error
	})
}

// CreateBookingAtomic does the whole submission in one transaction.
func (r *repository) CreateBookingAtomic(ctx context.Context, booking *Booking, travellers []passengers.Passenger) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveSeats(tx, booking.ScheduleID, booking.SeatIDs()); err != nil {
			return err
		}
		if len(travellers) > 0 {
			if err := tx.Create(&travellers).Error; err != nil {
				return fmt.Errorf("failed to create passengers: %w", err)
			}
		}
		return insertBooking(tx, booking)
	})
}

// reserveSeats flips every seat from AVAILABLE to BOOKED or none of them.
func reserveSeats(tx *gorm.DB, scheduleID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return ErrSeatUnavailable
	}

	res := tx.Model(&seats.Seat{}).
		Where("id IN ?", seatIDs).
		Where("schedule_id = ?", scheduleID).
		Where("status = ?", seats.StatusAvailable).
		Update("status", seats.StatusBooked)
	if res.Error != nil {
		return fmt.Errorf("failed to reserve seats: %w", res.Error)
	}
	if res.RowsAffected != int64(len(seatIDs)) {
		return ErrSeatUnavailable
	}
	return nil
}

func insertBooking(tx *gorm.DB, booking *Booking) error {
	if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if len(booking.SeatBookings) > 0 {
		if err := tx.Create(&booking.SeatBookings).Error; err != nil {
			return fmt.Errorf("failed to create seat bookings: %w", err)
		}
	}
	if len(booking.Payments) > 0 {
		if err := tx.Create(&booking.Payments).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
	}
	return nil
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("SeatBookings", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_number ASC")
		}).
		Preload("Payments").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	query = query.normalized()

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)
	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("SeatBookings").
		Order("departure_time DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// CancelBooking marks the booking cancelled, hands its seats back and refunds the payment.
func (r *repository) CancelBooking(ctx context.Context, booking *Booking, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Booking{}).
			Where("id = ?", booking.ID).
			Where("status = ?", StatusConfirmed).
			Updates(map[string]interface{}{
				"status":         StatusCancelled,
				"payment_status": PaymentRefunded,
				"cancelled_at":   now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to cancel booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		if ids := booking.SeatIDs(); len(ids) > 0 {
			err := tx.Model(&seats.Seat{}).
				Where("id IN ?", ids).
				Where("status = ?", seats.StatusBooked).
				Update("status", seats.StatusAvailable).Error
			if err != nil {
				return fmt.Errorf("failed to release seats: %w", err)
			}
		}

		err := tx.Model(&Payment{}).
			Where("booking_id = ?", booking.ID).
			Updates(map[string]interface{}{
				"status":     PaymentRefunded,
				"updated_at": now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to refund payment: %w", err)
		}
		return nil
	})
}

func (r *repository) applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.DateFrom != "" {
		if _, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("travel_date >= ?", filters.DateFrom)
		}
	}
	if filters.DateTo != "" {
		if _, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			query = query.Where("travel_date <= ?", filters.DateTo)
		}
	}
	return query
}

func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
