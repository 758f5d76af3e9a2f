package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeBookingConfirmed EventType = "BOOKING_CONFIRMED"
	EventTypeBookingCancelled EventType = "BOOKING_CANCELLED"
)

type PassengerInfo struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Seat   string `json:"seat"`
}

type FareInfo struct {
	BaseFare    int64 `json:"base_fare"`
	ServiceFee  int64 `json:"service_fee"`
	GSTAmount   int64 `json:"gst_amount"`
	TotalAmount int64 `json:"total_amount"`
}

// BookingEvent is the message published for every booking state change.
type BookingEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	BookingID   uuid.UUID `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	UserID      uuid.UUID `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	ScheduleID  uuid.UUID `json:"schedule_id"`

	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Departure   time.Time       `json:"departure"`
	Seats       []string        `json:"seats"`
	Passengers  []PassengerInfo `json:"passengers"`
	Fare        FareInfo        `json:"fare"`
	PaymentRef  string          `json:"payment_reference,omitempty"`
}

func NewBookingEvent(eventType EventType) *BookingEvent {
	return &BookingEvent{
		ID:        uuid.New(),
		Type:      eventType,
		CreatedAt: time.Now(),
	}
}

// GetPartitionKey keeps all events of one booking on one partition.
func (e *BookingEvent) GetPartitionKey() string {
	return e.BookingID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Subject is the email subject line for the event.
func (e *BookingEvent) Subject() string {
	switch e.Type {
	case EventTypeBookingConfirmed:
		return "Booking confirmed: " + e.BookingCode
	case EventTypeBookingCancelled:
		return "Booking cancelled: " + e.BookingCode
	default:
		return "Booking update: " + e.BookingCode
	}
}
