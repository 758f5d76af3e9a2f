package seats

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatus string

const (
	StatusAvailable SeatStatus = "AVAILABLE"
	StatusBooked    SeatStatus = "BOOKED"
	StatusBlocked   SeatStatus = "BLOCKED"
)

type SeatType string

const (
	TypeLower   SeatType = "LOWER"
	TypeUpper   SeatType = "UPPER"
	TypeSleeper SeatType = "SLEEPER"
	TypeSeater  SeatType = "SEATER"
)

// Seat is one bookable position on a schedule. SeatNumber is "<section>-<row><column>", e.g. "1-1A".
type Seat struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScheduleID uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_schedule_seat" json:"schedule_id"`
	SeatNumber string     `gorm:"not null;size:20;uniqueIndex:idx_schedule_seat" json:"seat_number"`
	SeatType   SeatType   `gorm:"type:varchar(20);not null;default:'SEATER'" json:"seat_type"`
	Status     SeatStatus `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'BOOKED', 'BLOCKED');default:'AVAILABLE'" json:"seat_status"`
	Price      int64      `gorm:"not null;check:price >= 0" json:"seat_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

func (s Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

func IsValidSeatType(t string) bool {
	switch SeatType(t) {
	case TypeLower, TypeUpper, TypeSleeper, TypeSeater:
		return true
	default:
		return false
	}
}
