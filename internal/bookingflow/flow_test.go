package bookingflow

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"busbooking/internal/passengers"
	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func testSchedule() ScheduleInfo {
	return ScheduleInfo{
		ID:            uuid.New(),
		Source:        "Pune",
		Destination:   "Goa",
		BusName:       "Konkan Express",
		DepartureTime: time.Date(2026, 11, 2, 21, 30, 0, 0, time.UTC),
	}
}

func seatAt(label string, price int64, status seats.SeatStatus) seats.Seat {
	return seats.Seat{ID: uuid.New(), SeatNumber: label, Status: status, Price: price, SeatType: seats.TypeSeater}
}

func openFlow(t *testing.T, inventory ...seats.Seat) *Flow {
	t.Helper()
	f := NewFlow(testNow)
	require.NoError(t, f.Open(context.Background(), testSchedule(), inventory, []string{"Pune", "Goa", "Kolhapur"}))
	return f
}

func token() *AuthToken {
	return &AuthToken{UserID: uuid.New(), Email: "jane@example.com", ExpiresAt: testNow.Add(time.Hour)}
}

func TestOpen_EmptyMapStaysBrowsing(t *testing.T) {
	f := NewFlow(testNow)

	err := f.Open(context.Background(), testSchedule(), []seats.Seat{seatAt("bad", 100, seats.StatusAvailable)}, nil)

	assert.Equal(t, apperror.CodeEmptySeatMap, apperror.CodeOf(err))
	assert.Equal(t, StateBrowsing, f.State)
	assert.Equal(t, apperror.CodeEmptySeatMap, f.LastError)
}

func TestOpen_KeepsOnlyPlacedSeatsAndDefaultsStops(t *testing.T) {
	good := seatAt("1-1A", 100, seats.StatusAvailable)
	f := openFlow(t, good, seatAt("legacy", 100, seats.StatusAvailable))

	assert.Equal(t, StateSeatSelection, f.State)
	require.Len(t, f.Inventory, 1)
	assert.Equal(t, good.ID, f.Inventory[0].ID)
	assert.Equal(t, "Pune", f.Stops.Source)
	assert.Equal(t, "Goa", f.Stops.Destination)
}

func TestToggleSeat(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	booked := seatAt("1-1B", 100, seats.StatusBooked)
	f := openFlow(t, a, booked)

	selected, err := f.ToggleSeat(a.ID)
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, 1, f.Selection.Len())

	selected, err = f.ToggleSeat(a.ID)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, 0, f.Selection.Len())

	_, err = f.ToggleSeat(booked.ID)
	assert.Equal(t, apperror.CodeSeatUnavailable, apperror.CodeOf(err))

	_, err = f.ToggleSeat(uuid.New())
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestStageOperationsOutOfOrder(t *testing.T) {
	f := NewFlow(testNow)

	_, err := f.ToggleSeat(uuid.New())
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.ErrorIs(t, f.AddPassenger(), ErrOutOfOrder)
	assert.ErrorIs(t, f.ProceedToPayment(), ErrOutOfOrder)
	assert.ErrorIs(t, f.Back(), ErrOutOfOrder)
	assert.Equal(t, StateBrowsing, f.State)
}

func TestProceedToPassengers_Guards(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	f := openFlow(t, a)

	err := f.ProceedToPassengers(token(), testNow)
	assert.Equal(t, apperror.CodeEmptySeats, apperror.CodeOf(err))

	_, err = f.ToggleSeat(a.ID)
	require.NoError(t, err)

	require.NoError(t, f.SetDestination("Pune"))
	err = f.ProceedToPassengers(token(), testNow)
	assert.Equal(t, apperror.CodeIdenticalStops, apperror.CodeOf(err))

	require.NoError(t, f.SetDestination("Atlantis"))
	err = f.ProceedToPassengers(token(), testNow)
	assert.Equal(t, apperror.CodeUnknownStop, apperror.CodeOf(err))

	require.NoError(t, f.SetDestination("Kolhapur"))
	assert.ErrorIs(t, f.ProceedToPassengers(nil, testNow), ErrAuthRequired)

	expired := token()
	expired.ExpiresAt = testNow.Add(-time.Minute)
	assert.ErrorIs(t, f.ProceedToPassengers(expired, testNow), ErrAuthRequired)
	assert.Equal(t, StateSeatSelection, f.State)

	tok := token()
	require.NoError(t, f.ProceedToPassengers(tok, testNow))
	assert.Equal(t, StatePassengerInfo, f.State)
	assert.Equal(t, tok.UserID, *f.UserID)
	assert.Equal(t, "jane@example.com", f.UserEmail)
}

func TestProceedToPassengers_OtherUserRejected(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	f := openFlow(t, a)
	_, _ = f.ToggleSeat(a.ID)
	owner := token()
	require.NoError(t, f.ProceedToPassengers(owner, testNow))
	require.NoError(t, f.Back())

	assert.ErrorIs(t, f.ProceedToPassengers(token(), testNow), ErrAuthRequired)
	require.NoError(t, f.ProceedToPassengers(owner, testNow))
}

func toPassengerInfo(t *testing.T, inventory ...seats.Seat) *Flow {
	t.Helper()
	f := openFlow(t, inventory...)
	for _, s := range inventory {
		_, err := f.ToggleSeat(s.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.ProceedToPassengers(token(), testNow))
	return f
}

func TestPassengerStageAndBack(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	f := toPassengerInfo(t, a)

	err := f.ProceedToPayment()
	assert.Equal(t, apperror.CodeIncomplete, apperror.CodeOf(err))
	assert.Equal(t, StatePassengerInfo, f.State)

	assert.Equal(t, apperror.CodePassengerLimit, apperror.CodeOf(f.AddPassenger()))

	require.NoError(t, f.UpdatePassenger(0, passengers.Draft{Name: "Jane", Age: 30, Gender: "female"}))
	require.NoError(t, f.ProceedToPayment())
	assert.Equal(t, StatePayment, f.State)

	require.NoError(t, f.Back())
	assert.Equal(t, StatePassengerInfo, f.State)
	require.NoError(t, f.Back())
	assert.Equal(t, StateSeatSelection, f.State)
	assert.Equal(t, "Jane", f.Passengers.Drafts()[0].Name)
}

func TestEnsureStage_InconsistentContextErrors(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	f := toPassengerInfo(t, a)
	f.UserID = nil

	err := f.AddPassenger()

	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, StateErrored, f.State)
	assert.ErrorIs(t, f.Back(), ErrOutOfOrder)

	f.Restart(testNow)
	assert.Equal(t, StateBrowsing, f.State)
	assert.Equal(t, 0, f.Selection.Len())
	assert.Nil(t, f.Schedule)
}

func TestFailAndConfirm(t *testing.T) {
	f := openFlow(t, seatAt("1-1A", 100, seats.StatusAvailable))
	f.Fail(apperror.NewUpstream("FETCH_SEATS", assert.AnError))
	assert.Equal(t, StateErrored, f.State)
	assert.Equal(t, "UPSTREAM_FETCH_SEATS", f.LastError)

	assert.ErrorIs(t, f.Confirm(uuid.New(), "BUS-1"), ErrOutOfOrder)
}

func TestRefreshInventory_DropsTakenSeats(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	b := seatAt("1-1B", 100, seats.StatusAvailable)
	f := openFlow(t, a, b)
	_, _ = f.ToggleSeat(a.ID)
	_, _ = f.ToggleSeat(b.ID)

	takenB := b
	takenB.Status = seats.StatusBooked
	f.RefreshInventory(context.Background(), []seats.Seat{a, takenB})

	assert.Equal(t, []string{"1-1A"}, f.Selection.Labels())
}

func TestFlowSurvivesJSONRoundTrip(t *testing.T) {
	a := seatAt("1-1A", 100, seats.StatusAvailable)
	f := toPassengerInfo(t, a)
	require.NoError(t, f.UpdatePassenger(0, passengers.Draft{Name: "Jane", Age: 30, Gender: "female"}))

	data, err := json.Marshal(f)
	require.NoError(t, err)
	var back Flow
	require.NoError(t, json.Unmarshal(data, &back))
	back.normalize()

	assert.Equal(t, StatePassengerInfo, back.State)
	assert.True(t, back.Selection.Contains(a.ID))
	assert.Equal(t, "Jane", back.Passengers.Drafts()[0].Name)
	require.NoError(t, back.ProceedToPayment())
}
