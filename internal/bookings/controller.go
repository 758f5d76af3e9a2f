package bookings

import (
	"errors"
	"net/http"

	"busbooking/internal/shared/middleware"
	"busbooking/internal/shared/utils/response"
	"busbooking/internal/users"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func requesterFrom(ctx *gin.Context) (Requester, bool) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		return Requester{}, false
	}
	return Requester{
		UserID:  user.UserID,
		Email:   user.Email,
		IsAdmin: user.Role == string(users.RoleAdmin),
	}, true
}

func respondBookingError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidBookingID):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrAccessDenied):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrAlreadyDeparted):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), ctx.Param("id"), requester)
	if err != nil {
		respondBookingError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := c.service.GetUserBookings(ctx.Request.Context(), requester.UserID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get user bookings", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), ctx.Param("id"), requester)
	if err != nil {
		respondBookingError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// DownloadTicket handles GET /api/v1/bookings/:id/ticket
func (c *Controller) DownloadTicket(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	pdf, filename, err := c.service.RenderTicket(ctx.Request.Context(), ctx.Param("id"), requester)
	if err != nil {
		respondBookingError(ctx, err, "Failed to render ticket")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}
