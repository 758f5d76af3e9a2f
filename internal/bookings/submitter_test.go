package bookings

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"busbooking/internal/fare"
	"busbooking/internal/passengers"
	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPassengerStore struct {
	mock.Mock
}

func (m *mockPassengerStore) CreatePassenger(ctx context.Context, p *passengers.Passenger) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPassengerStore) DeletePassengers(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) CreateBooking(ctx context.Context, booking *Booking, passengerIDs []uuid.UUID) error {
	return m.Called(ctx, booking, passengerIDs).Error(0)
}

type mockAtomicStore struct {
	mockBookingStore
}

func (m *mockAtomicStore) CreateBookingAtomic(ctx context.Context, booking *Booking, travellers []passengers.Passenger) error {
	return m.Called(ctx, booking, travellers).Error(0)
}

type mockSeatCache struct {
	mock.Mock
}

func (m *mockSeatCache) InvalidateSchedule(ctx context.Context, scheduleID string) {
	m.Called(ctx, scheduleID)
}

func sampleRequest() SubmissionRequest {
	s1 := seats.Seat{ID: uuid.New(), SeatNumber: "1-1A", Status: seats.StatusAvailable, Price: 100}
	s2 := seats.Seat{ID: uuid.New(), SeatNumber: "1-1B", Status: seats.StatusAvailable, Price: 200}
	return SubmissionRequest{
		UserID:        uuid.New(),
		ScheduleID:    uuid.New(),
		DepartureTime: time.Date(2026, 11, 2, 21, 30, 0, 0, time.UTC),
		Source:        "Pune",
		Destination:   "Goa",
		Fare:          fare.Breakdown{BaseFare: 300, ServiceFee: 50, GSTAmount: 15, TotalAmount: 365},
		Seats:         []seats.Seat{s1, s2},
		Passengers: []passengers.Passenger{
			{Name: "Jane", Age: 30, Gender: passengers.GenderFemale, SeatID: s1.ID},
			{Name: "John", Age: 32, Gender: passengers.GenderMale, SeatID: s2.ID},
		},
		PaymentRef: "SIM_ABC",
		Currency:   "inr",
	}
}

func TestSubmit_AtomicStore(t *testing.T) {
	store := &mockAtomicStore{}
	seatCache := &mockSeatCache{}
	req := sampleRequest()

	store.On("CreateBookingAtomic", mock.Anything, mock.AnythingOfType("*bookings.Booking"), mock.AnythingOfType("[]passengers.Passenger")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*Booking)
			travellers := args.Get(2).([]passengers.Passenger)
			require.Len(t, travellers, 2)
			assert.Equal(t, b.ID, *travellers[0].BookingID)
			assert.Equal(t, "1-1A", travellers[0].SeatNumber)
			assert.Equal(t, req.Seats[1].ID, travellers[1].SeatID)
			assert.Equal(t, req.UserID, travellers[1].UserID)
			assert.Equal(t, int64(365), b.TotalPrice)
			assert.Equal(t, "2026-11-02", b.TravelDate)
			assert.Len(t, b.SeatBookings, 2)
			require.Len(t, b.Payments, 1)
			assert.Equal(t, "INR", b.Payments[0].Currency)
			assert.Equal(t, "SIM_ABC", b.Payments[0].GatewayRef)
			assert.Equal(t, PaymentCompleted, b.Payments[0].Status)
		}).
		Return(nil)
	seatCache.On("InvalidateSchedule", mock.Anything, req.ScheduleID.String()).Return()

	res, err := NewSubmitter(&mockPassengerStore{}, store, seatCache, nil).Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BUS-\d{8}-[A-Z]{6}$`), res.BookingCode)
	assert.Regexp(t, regexp.MustCompile(`^TXN_\d+_[0-9A-F]{8}$`), res.TransactionID)
	assert.Len(t, res.PassengerIDs, 2)
	store.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
	seatCache.AssertExpectations(t)
}

func TestSubmit_SeatTakenReportsSeatUnavailable(t *testing.T) {
	store := &mockAtomicStore{}
	store.On("CreateBookingAtomic", mock.Anything, mock.Anything, mock.Anything).Return(ErrSeatUnavailable)

	_, err := NewSubmitter(&mockPassengerStore{}, store, nil, nil).Submit(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.Equal(t, apperror.CodeBookingFailed, apperror.CodeOf(err))
	assert.True(t, errors.Is(err, ErrSeatUnavailable))
	var v *apperror.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, apperror.CodeSeatUnavailable, v.Code)
}

func TestSubmit_SequentialSuccess(t *testing.T) {
	pstore := &mockPassengerStore{}
	bstore := &mockBookingStore{}

	pstore.On("CreatePassenger", mock.Anything, mock.AnythingOfType("*passengers.Passenger")).Return(nil).Twice()
	bstore.On("CreateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2 && ids[0] != uuid.Nil && ids[1] != uuid.Nil
	})).Return(nil)

	res, err := NewSubmitter(pstore, bstore, nil, nil).Submit(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Len(t, res.PassengerIDs, 2)
	pstore.AssertNotCalled(t, "DeletePassengers", mock.Anything, mock.Anything)
	bstore.AssertExpectations(t)
}

func TestSubmit_SequentialCompensatesOnBookingFailure(t *testing.T) {
	pstore := &mockPassengerStore{}
	bstore := &mockBookingStore{}

	var created []uuid.UUID
	pstore.On("CreatePassenger", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*passengers.Passenger).ID)
		}).
		Return(nil)
	bstore.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))
	pstore.On("DeletePassengers", mock.Anything, mock.Anything).Return(nil)

	_, err := NewSubmitter(pstore, bstore, nil, nil).Submit(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.Equal(t, apperror.CodeBookingFailed, apperror.CodeOf(err))
	pstore.AssertCalled(t, "DeletePassengers", mock.Anything, created)
}

func TestSubmit_SequentialCompensatesPartialPassengers(t *testing.T) {
	pstore := &mockPassengerStore{}
	bstore := &mockBookingStore{}

	pstore.On("CreatePassenger", mock.Anything, mock.Anything).Return(nil).Once()
	pstore.On("CreatePassenger", mock.Anything, mock.Anything).Return(errors.New("constraint")).Once()
	pstore.On("DeletePassengers", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool { return len(ids) == 1 })).Return(nil)

	_, err := NewSubmitter(pstore, bstore, nil, nil).Submit(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.Equal(t, apperror.CodeBookingFailed, apperror.CodeOf(err))
	bstore.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
	pstore.AssertExpectations(t)
}

func TestSubmit_CountMismatch(t *testing.T) {
	req := sampleRequest()
	req.Passengers = req.Passengers[:1]
	bstore := &mockBookingStore{}

	_, err := NewSubmitter(&mockPassengerStore{}, bstore, nil, nil).Submit(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, apperror.CodeBookingFailed, apperror.CodeOf(err))
	bstore.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateBookingCode(t *testing.T) {
	code, err := generateBookingCode(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Regexp(t, `^BUS-20261017-[A-Z]{6}$`, code)
}
