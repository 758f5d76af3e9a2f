package selection

import (
	"encoding/json"
	"testing"

	"busbooking/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func available(label string) seats.Seat {
	return seats.Seat{ID: uuid.New(), SeatNumber: label, Status: seats.StatusAvailable, Price: 100}
}

func TestSelect_KeepsClickOrder(t *testing.T) {
	s := New()
	a, b, c := available("1-2B"), available("1-1A"), available("2-1C")

	assert.True(t, s.Select(a))
	assert.True(t, s.Select(b))
	assert.True(t, s.Select(c))

	assert.Equal(t, []string{"1-2B", "1-1A", "2-1C"}, s.Labels())
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, s.IDs())
}

func TestSelect_RejectsUnavailable(t *testing.T) {
	for _, status := range []seats.SeatStatus{seats.StatusBooked, seats.StatusBlocked} {
		t.Run(string(status), func(t *testing.T) {
			s := New()
			seat := available("1-1A")
			seat.Status = status

			assert.False(t, s.Select(seat))
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestSelect_IsIdempotent(t *testing.T) {
	s := New()
	a := available("1-1A")

	s.Select(a)
	s.Select(a)

	assert.Equal(t, 1, s.Len())
}

func TestToggle_TwiceRestoresSet(t *testing.T) {
	s := New()
	a, b := available("1-1A"), available("1-1B")
	s.Select(a)
	before := s.Seats()

	assert.True(t, s.Toggle(b))
	assert.False(t, s.Toggle(b))

	assert.Equal(t, before, s.Seats())
}

func TestToggle_UnavailableNeverEnters(t *testing.T) {
	s := New()
	booked := available("1-1A")
	booked.Status = seats.StatusBooked

	assert.False(t, s.Toggle(booked))
	assert.False(t, s.Contains(booked.ID))
}

func TestDeselect_AbsentIsNoop(t *testing.T) {
	s := New()
	a := available("1-1A")
	s.Select(a)

	assert.False(t, s.Deselect(available("9-9Z")))
	assert.Equal(t, 1, s.Len())
}

func TestSeats_ReturnsCopy(t *testing.T) {
	s := New()
	s.Select(available("1-1A"))

	got := s.Seats()
	got[0].SeatNumber = "changed"

	assert.Equal(t, []string{"1-1A"}, s.Labels())
}

func TestClear(t *testing.T) {
	s := New()
	s.Select(available("1-1A"))
	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	s := New()
	s.Select(available("2-1A"))
	s.Select(available("1-1A"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	restored := New()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, s.Seats(), restored.Seats())
}

func TestMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
