package bookingflow

import "busbooking/internal/passengers"

type OpenScheduleRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
}

type SetStopsRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type PassengerRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (r PassengerRequest) ToDraft() passengers.Draft {
	return passengers.Draft{Name: r.Name, Age: r.Age, Gender: r.Gender}
}
