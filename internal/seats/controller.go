package seats

import (
	"errors"
	"net/http"

	"busbooking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetScheduleSeats handles GET /schedules/:id/seats
func (c *Controller) GetScheduleSeats(ctx *gin.Context) {
	seats, err := c.service.GetScheduleSeats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrInvalidSchedID) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid schedule ID", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to load seat inventory", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", ToResponses(seats), nil)
}

// GetSeat handles GET /seats/:id
func (c *Controller) GetSeat(ctx *gin.Context) {
	seat, err := c.service.GetSeatByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSeatID):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, nil)
		case errors.Is(err, ErrSeatNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seat", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat retrieved successfully", seat.ToResponse(), nil)
}

// CheckAvailability handles POST /seats/availability
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	var req AvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := c.service.CheckAvailability(ctx.Request.Context(), req.SeatIDs)
	if err != nil {
		if errors.Is(err, ErrInvalidSeatID) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to check availability", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability checked", resp, nil)
}
