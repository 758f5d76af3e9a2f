// Package selection tracks the seats a user has clicked, in click order.
package selection

import (
	"encoding/json"

	"busbooking/internal/seats"

	"github.com/google/uuid"
)

// Set is insertion-ordered and unique by seat ID. Only AVAILABLE seats ever enter it.
type Set struct {
	seats []seats.Seat
}

func New() *Set {
	return &Set{}
}

// Select adds seat when it is available and not already present.
// It returns false when the seat is not selectable.
func (s *Set) Select(seat seats.Seat) bool {
	if !seat.IsAvailable() {
		return false
	}
	if s.Contains(seat.ID) {
		return true
	}
	s.seats = append(s.seats, seat)
	return true
}

// Deselect removes seat by ID. Removing an absent seat is a no-op.
func (s *Set) Deselect(seat seats.Seat) bool {
	for i, existing := range s.seats {
		if existing.ID == seat.ID {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips membership and reports whether the seat is selected afterwards.
func (s *Set) Toggle(seat seats.Seat) bool {
	if s.Contains(seat.ID) {
		s.Deselect(seat)
		return false
	}
	return s.Select(seat)
}

func (s *Set) Contains(id uuid.UUID) bool {
	for _, existing := range s.seats {
		if existing.ID == id {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	return len(s.seats)
}

// Seats returns a copy in click order.
func (s *Set) Seats() []seats.Seat {
	out := make([]seats.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

func (s *Set) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.seats))
	for _, seat := range s.seats {
		ids = append(ids, seat.ID)
	}
	return ids
}

func (s *Set) Labels() []string {
	labels := make([]string, 0, len(s.seats))
	for _, seat := range s.seats {
		labels = append(labels, seat.SeatNumber)
	}
	return labels
}

func (s *Set) Clear() {
	s.seats = nil
}

func (s *Set) MarshalJSON() ([]byte, error) {
	if s.seats == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.seats)
}

// UnmarshalJSON restores a persisted set, re-applying the uniqueness and availability rules.
func (s *Set) UnmarshalJSON(data []byte) error {
	var stored []seats.Seat
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	s.seats = nil
	for _, seat := range stored {
		s.Select(seat)
	}
	return nil
}
