package schedules

import "time"

type ScheduleResponse struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Destination     string         `json:"destination"`
	BusName         string         `json:"bus_name"`
	BusType         string         `json:"bus_type"`
	Operator        string         `json:"operator"`
	DepartureTime   time.Time      `json:"departure_time"`
	ArrivalTime     time.Time      `json:"arrival_time"`
	DurationMinutes int            `json:"duration_minutes"`
	BaseFare        int64          `json:"base_fare"`
	TotalSeats      int            `json:"total_seats"`
	AvailableSeats  int            `json:"available_seats"`
	Status          ScheduleStatus `json:"status"`
}

type SearchResponse struct {
	Schedules  []ScheduleResponse `json:"schedules"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type CityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

func (s *Schedule) ToResponse(available int) ScheduleResponse {
	return ScheduleResponse{
		ID:              s.ID.String(),
		Source:          s.Route.SourceCity.Name,
		Destination:     s.Route.DestinationCity.Name,
		BusName:         s.Bus.Name,
		BusType:         s.Bus.BusType,
		Operator:        s.Bus.Operator,
		DepartureTime:   s.DepartureTime,
		ArrivalTime:     s.ArrivalTime,
		DurationMinutes: int(s.ArrivalTime.Sub(s.DepartureTime).Minutes()),
		BaseFare:        s.BaseFare,
		TotalSeats:      s.Bus.TotalSeats,
		AvailableSeats:  available,
		Status:          s.Status,
	}
}

func (c City) ToResponse() CityResponse {
	return CityResponse{ID: c.ID.String(), Name: c.Name, State: c.State}
}
