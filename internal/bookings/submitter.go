package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"busbooking/internal/fare"
	"busbooking/internal/passengers"
	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"
	"busbooking/internal/shared/constants"
	"busbooking/pkg/cache"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
)

// PassengerStore persists passengers one at a time.
type PassengerStore interface {
	CreatePassenger(ctx context.Context, p *passengers.Passenger) error
	DeletePassengers(ctx context.Context, ids []uuid.UUID) error
}

// BookingStore persists a booking that references already created passengers.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *Booking, passengerIDs []uuid.UUID) error
}

// AtomicStore reserves the seats, inserts the passengers and the booking in a single unit.
type AtomicStore interface {
	CreateBookingAtomic(ctx context.Context, booking *Booking, travellers []passengers.Passenger) error
}

// SeatCache is notified once seats change status.
type SeatCache interface {
	InvalidateSchedule(ctx context.Context, scheduleID string)
}

// SubmissionRequest is everything needed to persist one paid booking.
// Seats and Passengers are paired by index.
type SubmissionRequest struct {
	UserID        uuid.UUID
	ScheduleID    uuid.UUID
	DepartureTime time.Time
	Source        string
	Destination   string
	Fare          fare.Breakdown
	Seats         []seats.Seat
	Passengers    []passengers.Passenger
	PaymentRef    string
	PaymentMethod string
	Currency      string
}

type Result struct {
	BookingID     uuid.UUID   `json:"booking_id"`
	BookingCode   string      `json:"booking_code"`
	PassengerIDs  []uuid.UUID `json:"passenger_ids"`
	TransactionID string      `json:"transaction_id"`
}

type Submitter struct {
	passengers   PassengerStore
	bookings     BookingStore
	seatCache    SeatCache
	cacheService cache.Service
	now          func() time.Time
}

// NewSubmitter wires the persistence collaborators. seatCache and cacheService may be nil.
func NewSubmitter(passengerStore PassengerStore, bookingStore BookingStore, seatCache SeatCache, cacheService cache.Service) *Submitter {
	return &Submitter{
		passengers:   passengerStore,
		bookings:     bookingStore,
		seatCache:    seatCache,
		cacheService: cacheService,
		now:          time.Now,
	}
}

// Submit persists the booking. Every failure is reported as BOOKING_FAILED.
func (s *Submitter) Submit(ctx context.Context, req SubmissionRequest) (*Result, error) {
	if len(req.Seats) == 0 || len(req.Passengers) != len(req.Seats) {
		return nil, apperror.NewSubmission(apperror.CodeBookingFailed,
			apperror.NewValidation(apperror.CodeCountMismatch, "passengers",
				fmt.Sprintf("%d passengers for %d seats", len(req.Passengers), len(req.Seats))))
	}

	now := s.now()
	booking, err := s.buildBooking(req, now)
	if err != nil {
		return nil, apperror.NewSubmission(apperror.CodeBookingFailed, err)
	}
	travellers := s.bindTravellers(req, booking.ID, now)

	if atomic, ok := s.bookings.(AtomicStore); ok {
		if err := atomic.CreateBookingAtomic(ctx, booking, travellers); err != nil {
			return nil, bookingFailed(err)
		}
	} else if err := s.submitSequential(ctx, booking, travellers); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(travellers))
	for _, p := range travellers {
		ids = append(ids, p.ID)
	}

	s.invalidate(ctx, booking)
	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.ScheduleID.String(), booking.UserID.String())

	return &Result{
		BookingID:     booking.ID,
		BookingCode:   booking.BookingCode,
		PassengerIDs:  ids,
		TransactionID: booking.Payments[0].TransactionID,
	}, nil
}

// submitSequential creates passengers then the booking, deleting the passengers again if anything fails.
func (s *Submitter) submitSequential(ctx context.Context, booking *Booking, travellers []passengers.Passenger) error {
	created := make([]uuid.UUID, 0, len(travellers))
	for i := range travellers {
		if err := s.passengers.CreatePassenger(ctx, &travellers[i]); err != nil {
			s.compensate(ctx, created)
			return bookingFailed(fmt.Errorf("create passenger %d: %w", i, err))
		}
		created = append(created, travellers[i].ID)
	}

	if err := s.bookings.CreateBooking(ctx, booking, created); err != nil {
		s.compensate(ctx, created)
		return bookingFailed(err)
	}
	return nil
}

func (s *Submitter) compensate(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if err := s.passengers.DeletePassengers(context.WithoutCancel(ctx), ids); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to remove passengers of an incomplete booking", err, map[string]interface{}{
			"passenger_ids": ids,
		})
	}
}

func (s *Submitter) buildBooking(req SubmissionRequest, now time.Time) (*Booking, error) {
	code, err := generateBookingCode(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking code: %w", err)
	}

	bookingID := uuid.New()
	seatBookings := make([]SeatBooking, 0, len(req.Seats))
	for _, seat := range req.Seats {
		seatBookings = append(seatBookings, SeatBooking{
			ID:         uuid.New(),
			BookingID:  bookingID,
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			SeatPrice:  seat.Price,
		})
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "INR"
	}
	method := req.PaymentMethod
	if method == "" {
		method = "card"
	}

	payment := Payment{
		ID:            uuid.New(),
		BookingID:     bookingID,
		Amount:        req.Fare.TotalAmount,
		Currency:      currency,
		PaymentMethod: method,
		TransactionID: generateTransactionID(now),
	}
	payment.MarkCompleted(req.PaymentRef, now)

	return &Booking{
		ID:            bookingID,
		BookingCode:   code,
		UserID:        req.UserID,
		ScheduleID:    req.ScheduleID,
		DepartureTime: req.DepartureTime,
		TravelDate:    req.DepartureTime.Format("2006-01-02"),
		Source:        req.Source,
		Destination:   req.Destination,
		TotalSeats:    len(req.Seats),
		BaseFare:      req.Fare.BaseFare,
		ServiceFee:    req.Fare.ServiceFee,
		GSTAmount:     req.Fare.GSTAmount,
		TotalPrice:    req.Fare.TotalAmount,
		Status:        StatusConfirmed,
		PaymentStatus: PaymentCompleted,
		SeatBookings:  seatBookings,
		Payments:      []Payment{payment},
	}, nil
}

// bindTravellers stamps each passenger with its seat, the booking and the owner.
func (s *Submitter) bindTravellers(req SubmissionRequest, bookingID uuid.UUID, now time.Time) []passengers.Passenger {
	out := make([]passengers.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		seat := req.Seats[i]
		id := bookingID
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.BookingID = &id
		p.ScheduleID = req.ScheduleID
		p.UserID = req.UserID
		p.SeatID = seat.ID
		p.SeatNumber = seat.SeatNumber
		p.CreatedAt = now
		out[i] = p
	}
	return out
}

func (s *Submitter) invalidate(ctx context.Context, booking *Booking) {
	if s.seatCache != nil {
		s.seatCache.InvalidateSchedule(ctx, booking.ScheduleID.String())
	}
	if s.cacheService != nil {
		if err := s.cacheService.DeletePattern(ctx, constants.BuildUserBookingsPattern(booking.UserID.String())); err != nil {
			logger.GetDefault().WithError(err).Warn("failed to invalidate user bookings cache", "user_id", booking.UserID)
		}
	}
}

func bookingFailed(err error) error {
	if errors.Is(err, ErrSeatUnavailable) {
		err = fmt.Errorf("%w: %w", apperror.NewValidation(apperror.CodeSeatUnavailable, "seats",
			"one or more seats were booked by someone else"), err)
	}
	return apperror.NewSubmission(apperror.CodeBookingFailed, err)
}

// generateBookingCode returns BUS-YYYYMMDD-XXXXXX with six random uppercase letters.
func generateBookingCode(now time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("BUS-%s-%s", now.Format("20060102"), string(randomPart)), nil
}

func generateTransactionID(now time.Time) string {
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", now.Unix(), strings.ToUpper(shortUUID))
}
