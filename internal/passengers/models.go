package passengers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinAge = 1
	MaxAge = 120
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalises g to the canonical enum, ignoring case and surrounding space.
func ParseGender(g string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(g))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderOther:
		return GenderOther, true
	default:
		return "", false
	}
}

// Draft is the editable form of one passenger.
type Draft struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Passenger is a persisted traveller bound to one seat of a booking.
type Passenger struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	ScheduleID uuid.UUID  `gorm:"type:uuid;index;not null" json:"schedule_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	SeatID     uuid.UUID  `gorm:"type:uuid;not null" json:"seat_id"`
	SeatNumber string     `gorm:"not null;size:20" json:"seat_number"`
	Name       string     `gorm:"not null;size:255" json:"name"`
	Age        int        `gorm:"not null;check:age >= 1 AND age <= 120" json:"age"`
	Gender     Gender     `gorm:"type:varchar(10);not null" json:"gender"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Passenger) TableName() string {
	return "passengers"
}
