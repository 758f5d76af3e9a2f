package seats

type AvailabilityRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,max=20,dive,uuid"`
}
