package passengers

import (
	"encoding/json"
	"testing"

	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jane() Draft { return Draft{Name: "Jane", Age: 30, Gender: "female"} }

func TestNewBinder_StartsWithOneDraft(t *testing.T) {
	b := NewBinder(3)

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []Draft{{}}, b.Drafts())
}

func TestAdd_LimitedBySeatCount(t *testing.T) {
	b := NewBinder(2)

	require.NoError(t, b.Add())
	err := b.Add()

	assert.Equal(t, apperror.CodePassengerLimit, apperror.CodeOf(err))
	assert.Equal(t, 2, b.Len())
}

func TestRemove(t *testing.T) {
	b := NewBinder(3)
	require.NoError(t, b.Add())
	require.NoError(t, b.Update(1, Draft{Name: "Second"}))

	err := b.Remove(0)
	assert.Equal(t, apperror.CodePassengerRequired, apperror.CodeOf(err))

	err = b.Remove(5)
	assert.Equal(t, apperror.CodePassengerRequired, apperror.CodeOf(err))

	require.NoError(t, b.Remove(1))
	assert.Equal(t, 1, b.Len())
}

func TestUpdate_OutOfRange(t *testing.T) {
	b := NewBinder(1)

	assert.Error(t, b.Update(1, jane()))
	assert.Error(t, b.Update(-1, jane()))
}

func TestValidateAll(t *testing.T) {
	tests := []struct {
		name      string
		drafts    []Draft
		seatCount int
		wantCode  string
	}{
		{"valid", []Draft{jane()}, 1, ""},
		{"gender any case", []Draft{{Name: "Raj", Age: 40, Gender: "MALE"}}, 1, ""},
		{"count mismatch", []Draft{jane()}, 2, apperror.CodeCountMismatch},
		{"count checked before completeness", []Draft{{}}, 2, apperror.CodeCountMismatch},
		{"blank name", []Draft{{Name: "  ", Age: 30, Gender: "female"}}, 1, apperror.CodeIncomplete},
		{"zero age", []Draft{{Name: "Jane", Gender: "female"}}, 1, apperror.CodeIncomplete},
		{"blank gender", []Draft{{Name: "Jane", Age: 30}}, 1, apperror.CodeIncomplete},
		{"age too high", []Draft{{Name: "Jane", Age: 121, Gender: "female"}}, 1, apperror.CodeInvalidAge},
		{"negative age", []Draft{{Name: "Jane", Age: -4, Gender: "female"}}, 1, apperror.CodeInvalidAge},
		{"age boundary", []Draft{{Name: "Old", Age: 120, Gender: "other"}, {Name: "Baby", Age: 1, Gender: "male"}}, 2, ""},
		{"unknown gender", []Draft{{Name: "Jane", Age: 30, Gender: "x"}}, 1, apperror.CodeInvalidGender},
		{"age checked before gender", []Draft{{Name: "A", Age: 30, Gender: "x"}, {Name: "B", Age: 200, Gender: "male"}}, 2, apperror.CodeInvalidAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Restore(tt.seatCount, tt.drafts)
			err := b.ValidateAll(tt.seatCount)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsValidation(err))
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
		})
	}
}

func TestBind_PairsPositionally(t *testing.T) {
	scheduleID := uuid.New()
	selected := []seats.Seat{
		{ID: uuid.New(), ScheduleID: scheduleID, SeatNumber: "2-1B", Status: seats.StatusAvailable},
		{ID: uuid.New(), ScheduleID: scheduleID, SeatNumber: "1-1A", Status: seats.StatusAvailable},
	}
	b := Restore(2, []Draft{jane(), {Name: " Raj ", Age: 41, Gender: "Male"}})

	bound, err := b.Bind(selected)

	require.NoError(t, err)
	require.Len(t, bound, 2)
	assert.Equal(t, "2-1B", bound[0].SeatNumber)
	assert.Equal(t, selected[0].ID, bound[0].SeatID)
	assert.Equal(t, "Jane", bound[0].Name)
	assert.Equal(t, GenderFemale, bound[0].Gender)
	assert.Equal(t, "1-1A", bound[1].SeatNumber)
	assert.Equal(t, "Raj", bound[1].Name)
	assert.Equal(t, GenderMale, bound[1].Gender)
	assert.Equal(t, scheduleID, bound[1].ScheduleID)
}

func TestBind_RejectsInvalid(t *testing.T) {
	b := NewBinder(1)

	_, err := b.Bind([]seats.Seat{{ID: uuid.New(), SeatNumber: "1-1A"}})

	assert.Equal(t, apperror.CodeIncomplete, apperror.CodeOf(err))
}

func TestBinderJSON(t *testing.T) {
	b := Restore(2, []Draft{jane(), {Name: "Raj"}})

	data, err := json.Marshal(b)
	require.NoError(t, err)

	restored := NewBinder(2)
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, b.Drafts(), restored.Drafts())
}
