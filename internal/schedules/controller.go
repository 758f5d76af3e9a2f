package schedules

import (
	"errors"
	"net/http"

	"busbooking/internal/shared/utils/response"
	"busbooking/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidScheduleID):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid schedule ID", nil, nil)
	case errors.Is(err, ErrScheduleNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Schedule not found", nil, nil)
	default:
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

// SearchSchedules handles GET /schedules?from=&to=&date=
func (c *Controller) SearchSchedules(ctx *gin.Context) {
	var query ScheduleSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	resp, err := c.service.SearchSchedules(ctx.Request.Context(), query)
	if err != nil {
		c.respondError(ctx, err, "Failed to search schedules")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Schedules retrieved successfully", resp, nil)
}

// GetSchedule handles GET /schedules/:id
func (c *Controller) GetSchedule(ctx *gin.Context) {
	resp, err := c.service.GetSchedule(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get schedule")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Schedule retrieved successfully", resp, nil)
}

// GetSeatMap handles GET /schedules/:id/seat-map
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	rows, err := c.service.GetSeatMap(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to build seat map")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", gin.H{"rows": rows}, nil)
}

// GetCities handles GET /cities
func (c *Controller) GetCities(ctx *gin.Context) {
	cities, err := c.service.GetCities(ctx.Request.Context())
	if err != nil {
		c.respondError(ctx, err, "Failed to get cities")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cities retrieved successfully", cities, nil)
}
