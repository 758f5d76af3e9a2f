package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busbooking/internal/notifications"
	"busbooking/internal/passengers"
	"busbooking/internal/shared/constants"
	"busbooking/pkg/cache"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidBookingID = errors.New("invalid booking ID")
	ErrAccessDenied     = errors.New("booking does not belong to user")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyDeparted  = errors.New("bus has already departed")
	ErrSeatUnavailable  = errors.New("one or more seats are no longer available")
)

// Requester is the authenticated caller of a booking operation.
type Requester struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

func (r Requester) canView(b *Booking) bool {
	return r.IsAdmin || b.UserID == r.UserID
}

// PassengerReader loads the travellers of a booking.
type PassengerReader interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]passengers.Passenger, error)
}

type Service interface {
	GetBooking(ctx context.Context, bookingID string, requester Requester) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error)
	CancelBooking(ctx context.Context, bookingID string, requester Requester) (*BookingResponse, error)
	RenderTicket(ctx context.Context, bookingID string, requester Requester) ([]byte, string, error)
}

type service struct {
	repo         Repository
	passengers   PassengerReader
	seatCache    SeatCache
	cacheService cache.Service
	publisher    notifications.Publisher
	now          func() time.Time
}

// NewService creates the booking management service. seatCache, cacheService and publisher may be nil.
func NewService(repo Repository, passengerReader PassengerReader, seatCache SeatCache, cacheService cache.Service, publisher notifications.Publisher) Service {
	return &service{
		repo:         repo,
		passengers:   passengerReader,
		seatCache:    seatCache,
		cacheService: cacheService,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *service) load(ctx context.Context, bookingID string, requester Requester) (*Booking, []passengers.Passenger, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, ErrInvalidBookingID
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !requester.canView(booking) {
		return nil, nil, ErrAccessDenied
	}

	travellers, err := s.passengers.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load passengers: %w", err)
	}
	return booking, travellers, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID string, requester Requester) (*BookingResponse, error) {
	booking, travellers, err := s.load(ctx, bookingID, requester)
	if err != nil {
		return nil, err
	}
	resp := booking.ToResponse(travellers)
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error) {
	query = query.normalized()

	fetch := func() (interface{}, error) {
		list, total, err := s.repo.GetUserBookings(ctx, userID, query)
		if err != nil {
			return nil, err
		}
		resp := &BookingListResponse{
			Bookings: make([]BookingResponse, 0, len(list)),
			Pagination: Pagination{
				Page:       query.Page,
				Limit:      query.Limit,
				Total:      total,
				TotalPages: CalculateTotalPages(total, query.Limit),
			},
		}
		for i := range list {
			resp.Bookings = append(resp.Bookings, list[i].ToResponse(nil))
		}
		return resp, nil
	}

	if s.cacheService == nil || !query.cacheable() {
		data, err := fetch()
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}
		return data.(*BookingListResponse), nil
	}

	var resp BookingListResponse
	key := constants.BuildUserBookingsKey(userID.String(), query.Page)
	if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_USER_BOOKINGS, fetch, &resp); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return &resp, nil
}

// CancelBooking is allowed for the owner only, and only before departure.
func (s *service) CancelBooking(ctx context.Context, bookingID string, requester Requester) (*BookingResponse, error) {
	booking, travellers, err := s.load(ctx, bookingID, Requester{UserID: requester.UserID})
	if err != nil {
		return nil, err
	}
	if booking.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	now := s.now()
	if booking.HasDeparted(now) {
		return nil, ErrAlreadyDeparted
	}

	if err := s.repo.CancelBooking(ctx, booking, now); err != nil {
		return nil, err
	}
	booking.Cancel(now)
	for i := range booking.Payments {
		booking.Payments[i].Status = PaymentRefunded
	}

	s.invalidate(ctx, booking)
	logger.GetDefault().LogBookingCancelled(ctx, booking.ID.String(), booking.ScheduleID.String(), booking.UserID.String())
	s.publishCancelled(ctx, booking, travellers, requester.Email)

	resp := booking.ToResponse(travellers)
	return &resp, nil
}

// RenderTicket returns the e-ticket PDF and a file name for it.
func (s *service) RenderTicket(ctx context.Context, bookingID string, requester Requester) ([]byte, string, error) {
	booking, travellers, err := s.load(ctx, bookingID, requester)
	if err != nil {
		return nil, "", err
	}
	if booking.IsCancelled() {
		return nil, "", ErrAlreadyCancelled
	}

	pdf, err := RenderTicketPDF(booking, travellers)
	if err != nil {
		return nil, "", err
	}
	return pdf, booking.BookingCode + ".pdf", nil
}

func (s *service) invalidate(ctx context.Context, booking *Booking) {
	if s.seatCache != nil {
		s.seatCache.InvalidateSchedule(ctx, booking.ScheduleID.String())
	}
	if s.cacheService != nil {
		if err := s.cacheService.DeletePattern(ctx, constants.BuildUserBookingsPattern(booking.UserID.String())); err != nil {
			logger.GetDefault().WithError(err).Warn("failed to invalidate user bookings cache", "user_id", booking.UserID)
		}
	}
}

func (s *service) publishCancelled(ctx context.Context, booking *Booking, travellers []passengers.Passenger, email string) {
	if s.publisher == nil {
		return
	}

	event := notifications.NewBookingEvent(notifications.EventTypeBookingCancelled)
	event.BookingID = booking.ID
	event.BookingCode = booking.BookingCode
	event.UserID = booking.UserID
	event.UserEmail = email
	event.ScheduleID = booking.ScheduleID
	event.Source = booking.Source
	event.Destination = booking.Destination
	event.Departure = booking.DepartureTime
	event.Seats = booking.SeatNumbers()
	event.Fare = notifications.FareInfo{
		BaseFare:    booking.BaseFare,
		ServiceFee:  booking.ServiceFee,
		GSTAmount:   booking.GSTAmount,
		TotalAmount: booking.TotalPrice,
	}
	for _, p := range travellers {
		event.Passengers = append(event.Passengers, notifications.PassengerInfo{
			Name: p.Name, Age: p.Age, Gender: string(p.Gender), Seat: p.SeatNumber,
		})
	}

	// cancellation already committed; a lost event only skips the email
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish cancellation event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}
}
