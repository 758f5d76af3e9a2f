// Package bookingflow drives one user's reservation from seat map to confirmation.
package bookingflow

import (
	"context"
	"errors"
	"time"

	"busbooking/internal/fare"
	"busbooking/internal/passengers"
	"busbooking/internal/seatmap"
	"busbooking/internal/seats"
	"busbooking/internal/selection"
	"busbooking/internal/shared/apperror"
	"busbooking/internal/stops"

	"github.com/google/uuid"
)

type State string

const (
	StateBrowsing      State = "BROWSING"
	StateSeatSelection State = "SEAT_SELECTION"
	StatePassengerInfo State = "PASSENGER_INFO"
	StatePayment       State = "PAYMENT"
	StateConfirmed     State = "CONFIRMED"
	StateErrored       State = "ERRORED"
)

const codeInconsistent = "INCONSISTENT_CONTEXT"

var (
	ErrFlowNotFound   = errors.New("booking flow not found")
	ErrOutOfOrder     = errors.New("operation not allowed at this stage")
	ErrAuthRequired   = errors.New("authentication required")
	ErrFlowLocked     = errors.New("a submission for this flow is already in progress")
	ErrSeatNotFound   = errors.New("seat not found on this schedule")
	ErrInconsistent   = errors.New("booking context is inconsistent for its stage")
	ErrInvalidFlowID  = errors.New("invalid flow ID")
	ErrInvalidSchedID = errors.New("invalid schedule ID")
)

// ScheduleInfo is what the flow needs to know about the trip being booked.
type ScheduleInfo struct {
	ID            uuid.UUID `json:"id"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	BusName       string    `json:"bus_name"`
	BusType       string    `json:"bus_type"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	FareBasis     int64     `json:"fare_basis"`
}

// TravelDate is the departure day as YYYY-MM-DD.
func (s ScheduleInfo) TravelDate() string {
	return s.DepartureTime.Format("2006-01-02")
}

// AuthToken is the caller's proof of login, checked only when leaving seat selection.
type AuthToken struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (t *AuthToken) valid(now time.Time) bool {
	return t != nil && t.UserID != uuid.Nil && (t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt))
}

// Flow is the booking context. It is persisted between requests and mutated only through its methods.
type Flow struct {
	ID        uuid.UUID  `json:"id"`
	State     State      `json:"state"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	UserEmail string     `json:"user_email,omitempty"`

	Schedule   *ScheduleInfo      `json:"schedule,omitempty"`
	Inventory  []seats.Seat       `json:"inventory,omitempty"`
	Cities     []string           `json:"cities,omitempty"`
	Selection  *selection.Set     `json:"selection"`
	Stops      stops.Choice       `json:"stops"`
	Passengers *passengers.Binder `json:"passengers"`

	PaymentRef    string      `json:"payment_ref,omitempty"`
	PaymentStatus string      `json:"payment_status,omitempty"`
	PaidAmount    int64       `json:"paid_amount,omitempty"`
	PaidSeatIDs   []uuid.UUID `json:"paid_seat_ids,omitempty"`
	BookingID     *uuid.UUID `json:"booking_id,omitempty"`
	BookingCode   string     `json:"booking_code,omitempty"`
	LastError     string     `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewFlow(now time.Time) *Flow {
	return &Flow{
		ID:         uuid.New(),
		State:      StateBrowsing,
		Selection:  selection.New(),
		Passengers: passengers.NewBinder(0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// normalize fills collections that may be missing after decoding.
func (f *Flow) normalize() {
	if f.Selection == nil {
		f.Selection = selection.New()
	}
	if f.Passengers == nil {
		f.Passengers = passengers.NewBinder(f.Selection.Len())
	}
	f.Passengers.SetSeatCount(f.Selection.Len())
}

// SeatMap rebuilds the map from the inventory snapshot.
func (f *Flow) SeatMap(ctx context.Context) seatmap.Map {
	return seatmap.Build(ctx, f.Inventory)
}

func (f *Flow) Fare(calc fare.Calculator) fare.Breakdown {
	return calc.Compute(f.Selection.Seats())
}

// ensureStage re-checks that the flow is in want and that the accumulated context
// supports it. An inconsistent context moves the flow to Errored.
func (f *Flow) ensureStage(want State) error {
	f.normalize()
	if f.State != want {
		return ErrOutOfOrder
	}

	consistent := true
	switch want {
	case StateSeatSelection:
		consistent = f.Schedule != nil && len(f.Inventory) > 0
	case StatePassengerInfo:
		consistent = f.Schedule != nil && len(f.Inventory) > 0 && f.Selection.Len() > 0 &&
			stops.FromChoice(f.Stops).Validate(f.Selection.Len()) == nil && f.UserID != nil
	case StatePayment:
		consistent = f.Schedule != nil && len(f.Inventory) > 0 && f.Selection.Len() > 0 &&
			stops.FromChoice(f.Stops).Validate(f.Selection.Len()) == nil && f.UserID != nil &&
			f.Passengers.ValidateAll(f.Selection.Len()) == nil
	}
	if !consistent {
		f.State = StateErrored
		f.LastError = codeInconsistent
		return ErrInconsistent
	}
	return nil
}

func (f *Flow) record(err error) error {
	if err != nil {
		if code := apperror.CodeOf(err); code != "" {
			f.LastError = code
		}
	} else {
		f.LastError = ""
	}
	return err
}

// Open loads a schedule's inventory and moves Browsing -> SeatSelection.
// Only seats that land on the map become selectable.
func (f *Flow) Open(ctx context.Context, info ScheduleInfo, inventory []seats.Seat, cities []string) error {
	if err := f.ensureStage(StateBrowsing); err != nil {
		return err
	}

	m := seatmap.Build(ctx, inventory)
	if m.IsEmpty() {
		return f.record(apperror.NewValidation(apperror.CodeEmptySeatMap, "schedule_id", "this schedule has no seats to show"))
	}

	placed := make([]seats.Seat, 0, m.SeatCount())
	for _, row := range m.Rows() {
		placed = append(placed, row.Seats...)
	}

	f.Schedule = &info
	f.Inventory = placed
	f.Cities = cities
	f.Selection = selection.New()
	f.Passengers = passengers.NewBinder(0)
	f.Stops = stops.NewResolver(info.Source, info.Destination).Choice()
	f.State = StateSeatSelection
	return f.record(nil)
}

// ToggleSeat flips the seat in or out of the selection and reports whether it is now selected.
func (f *Flow) ToggleSeat(seatID uuid.UUID) (bool, error) {
	if err := f.ensureStage(StateSeatSelection); err != nil {
		return false, err
	}

	var seat *seats.Seat
	for i := range f.Inventory {
		if f.Inventory[i].ID == seatID {
			seat = &f.Inventory[i]
			break
		}
	}
	if seat == nil {
		return false, ErrSeatNotFound
	}
	if !f.Selection.Contains(seatID) && !seat.IsAvailable() {
		return false, f.record(apperror.NewValidation(apperror.CodeSeatUnavailable, "seat_id",
			"seat "+seat.SeatNumber+" is not available"))
	}

	selected := f.Selection.Toggle(*seat)
	f.Passengers.SetSeatCount(f.Selection.Len())
	return selected, f.record(nil)
}

func (f *Flow) SetSource(city string) error {
	if err := f.ensureStage(StateSeatSelection); err != nil {
		return err
	}
	r := stops.FromChoice(f.Stops)
	r.SetSource(city)
	f.Stops = r.Choice()
	return nil
}

func (f *Flow) SetDestination(city string) error {
	if err := f.ensureStage(StateSeatSelection); err != nil {
		return err
	}
	r := stops.FromChoice(f.Stops)
	r.SetDestination(city)
	f.Stops = r.Choice()
	return nil
}

// ProceedToPassengers moves SeatSelection -> PassengerInfo. token may be nil, in which case
// ErrAuthRequired is returned and the flow stays where it is.
func (f *Flow) ProceedToPassengers(token *AuthToken, now time.Time) error {
	if err := f.ensureStage(StateSeatSelection); err != nil {
		return err
	}
	if err := stops.FromChoice(f.Stops).ValidateAgainst(f.Selection.Len(), f.Cities); err != nil {
		return f.record(err)
	}
	if !token.valid(now) {
		return ErrAuthRequired
	}
	if f.UserID != nil && *f.UserID != token.UserID {
		return ErrAuthRequired
	}

	userID := token.UserID
	f.UserID = &userID
	f.UserEmail = token.Email
	f.Passengers.SetSeatCount(f.Selection.Len())
	f.State = StatePassengerInfo
	return f.record(nil)
}

func (f *Flow) AddPassenger() error {
	if err := f.ensureStage(StatePassengerInfo); err != nil {
		return err
	}
	return f.record(f.Passengers.Add())
}

func (f *Flow) RemovePassenger(i int) error {
	if err := f.ensureStage(StatePassengerInfo); err != nil {
		return err
	}
	return f.record(f.Passengers.Remove(i))
}

func (f *Flow) UpdatePassenger(i int, d passengers.Draft) error {
	if err := f.ensureStage(StatePassengerInfo); err != nil {
		return err
	}
	return f.record(f.Passengers.Update(i, d))
}

// ProceedToPayment moves PassengerInfo -> Payment once every passenger validates.
func (f *Flow) ProceedToPayment() error {
	if err := f.ensureStage(StatePassengerInfo); err != nil {
		return err
	}
	if err := f.Passengers.ValidateAll(f.Selection.Len()); err != nil {
		return f.record(err)
	}
	f.State = StatePayment
	return f.record(nil)
}

// Back steps one stage back. Passenger drafts survive a return to seat selection.
func (f *Flow) Back() error {
	switch f.State {
	case StatePassengerInfo:
		f.State = StateSeatSelection
	case StatePayment:
		f.State = StatePassengerInfo
	default:
		return ErrOutOfOrder
	}
	f.LastError = ""
	return nil
}

// RefreshInventory replaces the seat snapshot and drops selected seats that are no longer available.
func (f *Flow) RefreshInventory(ctx context.Context, inventory []seats.Seat) {
	m := seatmap.Build(ctx, inventory)
	placed := make([]seats.Seat, 0, m.SeatCount())
	byID := make(map[uuid.UUID]seats.Seat, m.SeatCount())
	for _, row := range m.Rows() {
		for _, s := range row.Seats {
			placed = append(placed, s)
			byID[s.ID] = s
		}
	}
	if len(placed) == 0 {
		return
	}

	kept := selection.New()
	for _, s := range f.Selection.Seats() {
		if fresh, ok := byID[s.ID]; ok {
			kept.Select(fresh)
		}
	}
	f.Inventory = placed
	f.Selection = kept
	f.Passengers.SetSeatCount(kept.Len())
}

// MarkPaid records a captured payment and what it covered, so a retried
// submission of the same booking does not charge again.
func (f *Flow) MarkPaid(reference string, amount int64, seatIDs []uuid.UUID) {
	f.PaymentRef = reference
	f.PaymentStatus = "COMPLETED"
	f.PaidAmount = amount
	f.PaidSeatIDs = append([]uuid.UUID(nil), seatIDs...)
}

// PaymentCovers reports whether the captured payment was for exactly this
// total and the current selection, in order.
func (f *Flow) PaymentCovers(total int64) bool {
	if f.PaymentRef == "" || f.PaidAmount != total {
		return false
	}
	ids := f.Selection.IDs()
	if len(ids) != len(f.PaidSeatIDs) {
		return false
	}
	for i := range ids {
		if ids[i] != f.PaidSeatIDs[i] {
			return false
		}
	}
	return true
}

// clearPayment forgets a captured payment that no longer matches the booking.
func (f *Flow) clearPayment() {
	f.PaymentRef = ""
	f.PaymentStatus = ""
	f.PaidAmount = 0
	f.PaidSeatIDs = nil
}

// Confirm moves Payment -> Confirmed after the booking has been persisted.
func (f *Flow) Confirm(bookingID uuid.UUID, code string) error {
	if f.State != StatePayment {
		return ErrOutOfOrder
	}
	f.BookingID = &bookingID
	f.BookingCode = code
	f.State = StateConfirmed
	f.LastError = ""
	return nil
}

// Fail moves any non-terminal state to Errored.
func (f *Flow) Fail(err error) {
	if f.State == StateConfirmed {
		return
	}
	f.State = StateErrored
	if code := apperror.CodeOf(err); code != "" {
		f.LastError = code
	} else {
		f.LastError = "UPSTREAM"
	}
}

// Restart resets the context and returns to Browsing. It is the only way out of Errored.
func (f *Flow) Restart(now time.Time) {
	fresh := NewFlow(now)
	fresh.ID = f.ID
	fresh.UserID = f.UserID
	fresh.UserEmail = f.UserEmail
	fresh.CreatedAt = f.CreatedAt
	*f = *fresh
}
