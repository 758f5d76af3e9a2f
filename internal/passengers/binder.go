// Package passengers collects traveller details and binds them to selected seats.
package passengers

import (
	"encoding/json"
	"fmt"
	"strings"

	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"
)

// Binder holds one draft per passenger. The first draft always exists.
type Binder struct {
	seatCount int
	drafts    []Draft
}

func NewBinder(seatCount int) *Binder {
	return &Binder{seatCount: seatCount, drafts: []Draft{{}}}
}

// Restore rebuilds a binder from persisted drafts.
func Restore(seatCount int, drafts []Draft) *Binder {
	if len(drafts) == 0 {
		return NewBinder(seatCount)
	}
	b := &Binder{seatCount: seatCount, drafts: make([]Draft, len(drafts))}
	copy(b.drafts, drafts)
	return b
}

// SetSeatCount follows the selection size. Drafts are kept even when they now exceed it;
// ValidateAll reports the mismatch.
func (b *Binder) SetSeatCount(n int) {
	b.seatCount = n
}

func (b *Binder) Drafts() []Draft {
	out := make([]Draft, len(b.drafts))
	copy(out, b.drafts)
	return out
}

func (b *Binder) Len() int {
	return len(b.drafts)
}

func (b *Binder) Add() error {
	if len(b.drafts) >= b.seatCount {
		return apperror.NewValidation(apperror.CodePassengerLimit, "passengers",
			fmt.Sprintf("only %d passenger(s) allowed for the selected seats", b.seatCount))
	}
	b.drafts = append(b.drafts, Draft{})
	return nil
}

// Remove deletes draft i. The first draft cannot be removed.
func (b *Binder) Remove(i int) error {
	if i <= 0 || i >= len(b.drafts) {
		return apperror.NewValidation(apperror.CodePassengerRequired, "passengers",
			"the first passenger is required and cannot be removed")
	}
	b.drafts = append(b.drafts[:i], b.drafts[i+1:]...)
	return nil
}

func (b *Binder) Update(i int, d Draft) error {
	if i < 0 || i >= len(b.drafts) {
		return apperror.NewValidation(apperror.CodePassengerRequired, fmt.Sprintf("passengers[%d]", i), "no such passenger")
	}
	b.drafts[i] = d
	return nil
}

// ValidateAll checks count first, then completeness, then age and gender, reporting the first failure.
func (b *Binder) ValidateAll(seatCount int) error {
	if len(b.drafts) != seatCount {
		return apperror.NewValidation(apperror.CodeCountMismatch, "passengers",
			fmt.Sprintf("%d passenger(s) entered for %d seat(s)", len(b.drafts), seatCount))
	}
	for i, d := range b.drafts {
		if strings.TrimSpace(d.Name) == "" || d.Age == 0 || strings.TrimSpace(d.Gender) == "" {
			return apperror.NewValidation(apperror.CodeIncomplete, fmt.Sprintf("passengers[%d]", i),
				"name, age and gender are required")
		}
	}
	for i, d := range b.drafts {
		if d.Age < MinAge || d.Age > MaxAge {
			return apperror.NewValidation(apperror.CodeInvalidAge, fmt.Sprintf("passengers[%d].age", i),
				fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge))
		}
	}
	for i, d := range b.drafts {
		if _, ok := ParseGender(d.Gender); !ok {
			return apperror.NewValidation(apperror.CodeInvalidGender, fmt.Sprintf("passengers[%d].gender", i),
				"gender must be male, female or other")
		}
	}
	return nil
}

// Bind pairs drafts with seats positionally: passenger i takes selected[i].
func (b *Binder) Bind(selected []seats.Seat) ([]Passenger, error) {
	if err := b.ValidateAll(len(selected)); err != nil {
		return nil, err
	}
	out := make([]Passenger, 0, len(selected))
	for i, d := range b.drafts {
		gender, _ := ParseGender(d.Gender)
		out = append(out, Passenger{
			ScheduleID: selected[i].ScheduleID,
			SeatID:     selected[i].ID,
			SeatNumber: selected[i].SeatNumber,
			Name:       strings.TrimSpace(d.Name),
			Age:        d.Age,
			Gender:     gender,
		})
	}
	return out, nil
}

func (b *Binder) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.drafts)
}

func (b *Binder) UnmarshalJSON(data []byte) error {
	var drafts []Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return err
	}
	if len(drafts) == 0 {
		drafts = []Draft{{}}
	}
	b.drafts = drafts
	return nil
}
