package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a confirmed reservation of one or more seats on a schedule.
// Amounts are whole rupees.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingCode   string        `gorm:"unique;not null;size:32" json:"booking_code"`
	UserID        uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	ScheduleID    uuid.UUID     `gorm:"type:uuid;index;not null" json:"schedule_id"`
	DepartureTime time.Time     `gorm:"not null" json:"departure_time"`
	TravelDate    string        `gorm:"type:varchar(10);not null" json:"travel_date"`
	Source        string        `gorm:"not null;size:100" json:"source"`
	Destination   string        `gorm:"not null;size:100" json:"destination"`
	TotalSeats    int           `gorm:"not null" json:"total_seats"`
	BaseFare      int64         `gorm:"not null" json:"base_fare"`
	ServiceFee    int64         `gorm:"not null" json:"service_fee"`
	GSTAmount     int64         `gorm:"not null" json:"gst_amount"`
	TotalPrice    int64         `gorm:"not null" json:"total_price"`
	Status        Status        `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'COMPLETED'" json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`

	SeatBookings []SeatBooking `json:"seat_bookings,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Payments     []Payment     `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// SeatBooking links a booked seat to its booking at the price paid.
type SeatBooking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;index;not null" json:"seat_id"`
	SeatNumber string    `gorm:"not null;size:20" json:"seat_number"`
	SeatPrice  int64     `gorm:"not null" json:"seat_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// Payment records the gateway charge behind a booking.
type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status        PaymentStatus `gorm:"type:varchar(20);check:status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"status"`
	PaymentMethod string        `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string        `gorm:"unique" json:"transaction_id"`
	GatewayRef    string        `gorm:"size:255" json:"gateway_ref"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (SeatBooking) TableName() string {
	return "seat_bookings"
}

func (Payment) TableName() string {
	return "payments"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasDeparted reports whether the bus has already left at now.
func (b *Booking) HasDeparted(now time.Time) bool {
	return !now.Before(b.DepartureTime)
}

func (b *Booking) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.SeatBookings))
	for _, sb := range b.SeatBookings {
		ids = append(ids, sb.SeatID)
	}
	return ids
}

func (b *Booking) SeatNumbers() []string {
	out := make([]string, 0, len(b.SeatBookings))
	for _, sb := range b.SeatBookings {
		out = append(out, sb.SeatNumber)
	}
	return out
}

func (b *Booking) Cancel(now time.Time) {
	b.Status = StatusCancelled
	b.PaymentStatus = PaymentRefunded
	b.CancelledAt = &now
	b.UpdatedAt = now
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentCompleted
}

func (p *Payment) MarkCompleted(gatewayRef string, now time.Time) {
	p.Status = PaymentCompleted
	p.GatewayRef = gatewayRef
	p.ProcessedAt = &now
	p.UpdatedAt = now
}
