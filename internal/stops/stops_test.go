package stops

import (
	"testing"

	"busbooking/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestNewResolver_DefaultsToRouteEndpoints(t *testing.T) {
	r := NewResolver("Delhi", "Mumbai")

	assert.Equal(t, Choice{Source: "Delhi", Destination: "Mumbai"}, r.Choice())
}

func TestOverridesAreIndependent(t *testing.T) {
	r := NewResolver("Delhi", "Mumbai")
	r.SetSource("Jaipur")

	assert.Equal(t, Choice{Source: "Jaipur", Destination: "Mumbai"}, r.Choice())

	r.SetDestination("Pune")
	assert.Equal(t, Choice{Source: "Jaipur", Destination: "Pune"}, r.Choice())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		src, dst string
		selected int
		wantCode string
	}{
		{"valid", "Delhi", "Mumbai", 1, ""},
		{"no seats", "Delhi", "Mumbai", 0, apperror.CodeEmptySeats},
		{"missing source", "", "Mumbai", 1, apperror.CodeMissingStop},
		{"blank destination", "Delhi", "   ", 2, apperror.CodeMissingStop},
		{"identical", "Delhi", "Delhi", 1, apperror.CodeIdenticalStops},
		{"identical ignoring case and spaces", " delhi", "DELHI ", 1, apperror.CodeIdenticalStops},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.src, tt.dst)
			err := r.Validate(tt.selected)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsValidation(err))
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
		})
	}
}

func TestValidateAgainst(t *testing.T) {
	cities := []string{"Delhi", "Mumbai", "Pune"}

	r := NewResolver("Delhi", "Mumbai")
	assert.NoError(t, r.ValidateAgainst(1, cities))

	r.SetDestination("Atlantis")
	err := r.ValidateAgainst(1, cities)
	assert.Equal(t, apperror.CodeUnknownStop, apperror.CodeOf(err))

	assert.NoError(t, r.ValidateAgainst(1, nil))
}

func TestValidateAgainst_BaseRulesFirst(t *testing.T) {
	r := NewResolver("Atlantis", "Atlantis")

	err := r.ValidateAgainst(1, []string{"Delhi"})

	assert.Equal(t, apperror.CodeIdenticalStops, apperror.CodeOf(err))
}
