package schedules

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	StatusScheduled ScheduleStatus = "SCHEDULED"
	StatusCancelled ScheduleStatus = "CANCELLED"
	StatusDeparted  ScheduleStatus = "DEPARTED"
)

type City struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	State     string    `gorm:"size:100" json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

func (City) TableName() string {
	return "cities"
}

type Bus struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string    `gorm:"not null;size:255" json:"name"`
	Operator           string    `gorm:"size:255" json:"operator"`
	RegistrationNumber string    `gorm:"not null;size:20;uniqueIndex" json:"registration_number"`
	BusType            string    `gorm:"type:varchar(30);not null" json:"bus_type"` // AC_SLEEPER, NON_AC_SEATER, ...
	TotalSeats         int       `gorm:"not null;check:total_seats > 0" json:"total_seats"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Bus) TableName() string {
	return "buses"
}

type Route struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourceCityID      uuid.UUID `gorm:"type:uuid;not null;index" json:"source_city_id"`
	DestinationCityID uuid.UUID `gorm:"type:uuid;not null;index" json:"destination_city_id"`
	DistanceKM        int       `gorm:"check:distance_km >= 0" json:"distance_km"`
	DurationMinutes   int       `gorm:"check:duration_minutes >= 0" json:"duration_minutes"`
	CreatedAt         time.Time `json:"created_at"`

	SourceCity      City `gorm:"foreignKey:SourceCityID" json:"source_city"`
	DestinationCity City `gorm:"foreignKey:DestinationCityID" json:"destination_city"`
}

func (Route) TableName() string {
	return "routes"
}

// Schedule is one departure of a bus on a route. BaseFare is the advertised per-seat price;
// the fare actually charged comes from the seats selected.
type Schedule struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RouteID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"route_id"`
	BusID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"bus_id"`
	DepartureTime time.Time      `gorm:"not null;index" json:"departure_time"`
	ArrivalTime   time.Time      `gorm:"not null" json:"arrival_time"`
	BaseFare      int64          `gorm:"not null;check:base_fare >= 0" json:"base_fare"`
	Status        ScheduleStatus `gorm:"type:varchar(20);default:'SCHEDULED'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Route Route `gorm:"foreignKey:RouteID" json:"route"`
	Bus   Bus   `gorm:"foreignKey:BusID" json:"bus"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) IsBookable(now time.Time) bool {
	return s.Status == StatusScheduled && s.DepartureTime.After(now)
}
