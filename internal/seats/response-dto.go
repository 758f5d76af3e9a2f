package seats

type AvailabilityResponse struct {
	Seats []AvailabilityInfo `json:"seats"`
}

type AvailabilityInfo struct {
	SeatID     string `json:"seat_id"`
	SeatNumber string `json:"seat_number,omitempty"`
	Available  bool   `json:"available"`
	Status     string `json:"status"` // AVAILABLE, BOOKED, BLOCKED, UNKNOWN
}

type SeatResponse struct {
	ID         string `json:"id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	Status     string `json:"seat_status"`
	Price      int64  `json:"seat_price"`
}

func (s Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:         s.ID.String(),
		SeatNumber: s.SeatNumber,
		SeatType:   string(s.SeatType),
		Status:     string(s.Status),
		Price:      s.Price,
	}
}

func ToResponses(seats []Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.ToResponse())
	}
	return out
}
