package bookingflow

import (
	"context"

	"busbooking/internal/fare"
	"busbooking/internal/notifications"
	"busbooking/internal/passengers"
	"busbooking/internal/stops"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
)

// Confirmation is the finalized booking context handed over once a flow is confirmed.
type Confirmation struct {
	FlowID      uuid.UUID              `json:"flow_id"`
	BookingID   uuid.UUID              `json:"booking_id"`
	BookingCode string                 `json:"booking_code"`
	UserID      uuid.UUID              `json:"user_id"`
	UserEmail   string                 `json:"user_email"`
	Schedule    ScheduleInfo           `json:"schedule"`
	TravelDate  string                 `json:"travel_date"`
	Stops       stops.Choice           `json:"stops"`
	Passengers  []passengers.Passenger `json:"passengers"`
	Fare        fare.Breakdown         `json:"fare"`
	PaymentRef  string                 `json:"payment_reference"`
}

// ConfirmationConsumer receives confirmed bookings. It must not mutate the flow.
type ConfirmationConsumer interface {
	Confirm(ctx context.Context, c Confirmation) error
}

// LogConsumer only logs confirmations.
type LogConsumer struct{}

func (LogConsumer) Confirm(ctx context.Context, c Confirmation) error {
	logger.GetDefault().InfoWithContext(ctx, "booking confirmed", map[string]interface{}{
		"flow_id":      c.FlowID.String(),
		"booking_id":   c.BookingID.String(),
		"booking_code": c.BookingCode,
		"total":        c.Fare.TotalAmount,
	})
	return nil
}

// EventConsumer publishes a BOOKING_CONFIRMED event for each confirmation.
type EventConsumer struct {
	publisher notifications.Publisher
}

func NewEventConsumer(publisher notifications.Publisher) *EventConsumer {
	return &EventConsumer{publisher: publisher}
}

func (c *EventConsumer) Confirm(ctx context.Context, conf Confirmation) error {
	return c.publisher.Publish(ctx, ToEvent(conf))
}

// ToEvent converts a confirmation into the notification payload.
func ToEvent(c Confirmation) *notifications.BookingEvent {
	event := notifications.NewBookingEvent(notifications.EventTypeBookingConfirmed)
	event.BookingID = c.BookingID
	event.BookingCode = c.BookingCode
	event.UserID = c.UserID
	event.UserEmail = c.UserEmail
	event.ScheduleID = c.Schedule.ID
	event.Source = c.Stops.Source
	event.Destination = c.Stops.Destination
	event.Departure = c.Schedule.DepartureTime
	event.PaymentRef = c.PaymentRef
	event.Fare = notifications.FareInfo{
		BaseFare:    c.Fare.BaseFare,
		ServiceFee:  c.Fare.ServiceFee,
		GSTAmount:   c.Fare.GSTAmount,
		TotalAmount: c.Fare.TotalAmount,
	}
	for _, p := range c.Passengers {
		event.Seats = append(event.Seats, p.SeatNumber)
		event.Passengers = append(event.Passengers, notifications.PassengerInfo{
			Name:   p.Name,
			Age:    p.Age,
			Gender: string(p.Gender),
			Seat:   p.SeatNumber,
		})
	}
	return event
}
