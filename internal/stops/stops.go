// Package stops holds the boarding and dropping point choice for a trip.
package stops

import (
	"strings"

	"busbooking/internal/shared/apperror"
)

type Choice struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Resolver starts at the route endpoints; each side can be overridden independently.
type Resolver struct {
	choice Choice
}

func NewResolver(routeSource, routeDestination string) *Resolver {
	return &Resolver{choice: Choice{Source: routeSource, Destination: routeDestination}}
}

// FromChoice restores a resolver from a persisted choice.
func FromChoice(c Choice) *Resolver {
	return &Resolver{choice: c}
}

func (r *Resolver) SetSource(city string) {
	r.choice.Source = city
}

func (r *Resolver) SetDestination(city string) {
	r.choice.Destination = city
}

func (r *Resolver) Choice() Choice {
	return r.choice
}

// Validate checks the choice for a selection of selectedCount seats.
func (r *Resolver) Validate(selectedCount int) error {
	if selectedCount <= 0 {
		return apperror.NewValidation(apperror.CodeEmptySeats, "seats", "select at least one seat")
	}

	src := strings.TrimSpace(r.choice.Source)
	dst := strings.TrimSpace(r.choice.Destination)
	if src == "" {
		return apperror.NewValidation(apperror.CodeMissingStop, "source", "boarding point is required")
	}
	if dst == "" {
		return apperror.NewValidation(apperror.CodeMissingStop, "destination", "dropping point is required")
	}
	if strings.EqualFold(src, dst) {
		return apperror.NewValidation(apperror.CodeIdenticalStops, "destination", "boarding and dropping points must differ")
	}
	return nil
}

// ValidateAgainst runs Validate and then requires both stops to be known cities.
// An empty city list skips the membership check.
func (r *Resolver) ValidateAgainst(selectedCount int, cities []string) error {
	if err := r.Validate(selectedCount); err != nil {
		return err
	}
	if len(cities) == 0 {
		return nil
	}
	if !contains(cities, r.choice.Source) {
		return apperror.NewValidation(apperror.CodeUnknownStop, "source", "unknown boarding point")
	}
	if !contains(cities, r.choice.Destination) {
		return apperror.NewValidation(apperror.CodeUnknownStop, "destination", "unknown dropping point")
	}
	return nil
}

func contains(cities []string, city string) bool {
	city = strings.TrimSpace(city)
	for _, c := range cities {
		if strings.EqualFold(strings.TrimSpace(c), city) {
			return true
		}
	}
	return false
}
