package schedules

import (
	"context"
	"time"

	"busbooking/internal/bookingflow"
	"busbooking/internal/seats"

	"github.com/google/uuid"
)

// Inventory serves the booking flow from the schedule and seat services.
type Inventory struct {
	schedules Service
	seats     SeatReader
	now       func() time.Time
}

var _ bookingflow.Inventory = (*Inventory)(nil)

func NewInventory(schedules Service, seatReader SeatReader) *Inventory {
	return &Inventory{schedules: schedules, seats: seatReader, now: time.Now}
}

func (i *Inventory) FetchSchedule(ctx context.Context, scheduleID uuid.UUID) (*bookingflow.ScheduleInfo, error) {
	sch, err := i.schedules.Schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sch.IsBookable(i.now()) {
		return nil, ErrScheduleClosed
	}

	return &bookingflow.ScheduleInfo{
		ID:            sch.ID,
		Source:        sch.Route.SourceCity.Name,
		Destination:   sch.Route.DestinationCity.Name,
		BusName:       sch.Bus.Name,
		BusType:       sch.Bus.BusType,
		DepartureTime: sch.DepartureTime,
		ArrivalTime:   sch.ArrivalTime,
		FareBasis:     sch.BaseFare,
	}, nil
}

func (i *Inventory) FetchSeats(ctx context.Context, scheduleID uuid.UUID) ([]seats.Seat, error) {
	return i.seats.GetScheduleSeats(ctx, scheduleID.String())
}

func (i *Inventory) FetchCities(ctx context.Context) ([]string, error) {
	cities, err := i.schedules.GetCities(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		names = append(names, c.Name)
	}
	return names, nil
}
