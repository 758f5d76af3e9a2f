package bookingflow

import (
	"errors"
	"net/http"

	"busbooking/internal/payments"
	"busbooking/internal/shared/apperror"
	"busbooking/internal/shared/middleware"
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

// statusFor maps a flow error onto an HTTP status and a message.
func statusFor(err error) (int, string) {
	var v *apperror.ValidationError
	switch {
	case errors.As(err, &v) && !apperror.IsSubmission(err):
		return http.StatusUnprocessableEntity, v.Message
	case errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized, "Login required to continue"
	case errors.Is(err, ErrFlowNotFound):
		return http.StatusNotFound, "Booking flow not found or expired"
	case errors.Is(err, ErrInvalidFlowID), errors.Is(err, ErrInvalidSchedID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrSeatNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrOutOfOrder), errors.Is(err, ErrFlowLocked), errors.Is(err, ErrInconsistent):
		return http.StatusConflict, err.Error()
	case apperror.IsUpstream(err):
		return http.StatusBadGateway, "Inventory service unavailable, please restart the booking"
	case apperror.CodeOf(err) == apperror.CodePaymentDeclined:
		return http.StatusPaymentRequired, "Payment was declined"
	case apperror.CodeOf(err) == apperror.CodeBookingFailed:
		return http.StatusConflict, "Booking could not be completed, please retry"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (c *Controller) respondError(ctx *gin.Context, f *Flow, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(ctx, err, status)
	}

	var data interface{}
	if f != nil {
		data = ToResponse(ctx.Request.Context(), f, c.service.Calculator())
	}

	var details interface{}
	var v *apperror.ValidationError
	if code := apperror.CodeOf(err); code != "" {
		detail := response.ErrorDetail{Code: code}
		if errors.As(err, &v) {
			detail.Field = v.Field
		}
		details = detail
	}

	if status == http.StatusUnauthorized {
		ctx.Header("WWW-Authenticate", `Bearer realm="busbooking"`)
	}
	response.RespondJSON(ctx, "error", status, msg, data, details)
}

func (c *Controller) respond(ctx *gin.Context, f *Flow, err error, msg string) {
	if err != nil {
		c.respondError(ctx, f, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, msg, ToResponse(ctx.Request.Context(), f, c.service.Calculator()), nil)
}

// Start handles POST /flows
func (c *Controller) Start(ctx *gin.Context) {
	f, err := c.service.Start(ctx.Request.Context())
	if err != nil {
		c.respondError(ctx, nil, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking flow started", ToResponse(ctx.Request.Context(), f, c.service.Calculator()), nil)
}

// Get handles GET /flows/:id
func (c *Controller) Get(ctx *gin.Context) {
	f, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, f, err, "Booking flow retrieved")
}

// OpenSchedule handles POST /flows/:id/schedule
func (c *Controller) OpenSchedule(ctx *gin.Context) {
	var req OpenScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	f, err := c.service.OpenSchedule(ctx.Request.Context(), ctx.Param("id"), req.ScheduleID)
	c.respond(ctx, f, err, "Seat map loaded")
}

// ToggleSeat handles POST /flows/:id/seats/:seatId/toggle
func (c *Controller) ToggleSeat(ctx *gin.Context) {
	f, selected, err := c.service.ToggleSeat(ctx.Request.Context(), ctx.Param("id"), ctx.Param("seatId"))
	if err != nil {
		c.respondError(ctx, f, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Selection updated", ToggleResponse{
		Selected: selected,
		Flow:     ToResponse(ctx.Request.Context(), f, c.service.Calculator()),
	}, nil)
}

// SetStops handles PUT /flows/:id/stops
func (c *Controller) SetStops(ctx *gin.Context) {
	var req SetStopsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	f, err := c.service.SetStops(ctx.Request.Context(), ctx.Param("id"), req.Source, req.Destination)
	c.respond(ctx, f, err, "Stops updated")
}

// ProceedToPassengers handles POST /flows/:id/passenger-info
func (c *Controller) ProceedToPassengers(ctx *gin.Context) {
	f, err := c.service.ProceedToPassengers(ctx.Request.Context(), ctx.Param("id"), tokenFrom(ctx))
	c.respond(ctx, f, err, "Enter passenger details")
}

// AddPassenger handles POST /flows/:id/passengers
func (c *Controller) AddPassenger(ctx *gin.Context) {
	f, err := c.service.AddPassenger(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, f, err, "Passenger added")
}

// UpdatePassenger handles PUT /flows/:id/passengers/:index
func (c *Controller) UpdatePassenger(ctx *gin.Context) {
	index, err := ParseIndex(ctx.Param("index"))
	if err != nil {
		c.respondError(ctx, nil, err)
		return
	}

	var req PassengerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	f, err := c.service.UpdatePassenger(ctx.Request.Context(), ctx.Param("id"), index, req.ToDraft())
	c.respond(ctx, f, err, "Passenger updated")
}

// RemovePassenger handles DELETE /flows/:id/passengers/:index
func (c *Controller) RemovePassenger(ctx *gin.Context) {
	index, err := ParseIndex(ctx.Param("index"))
	if err != nil {
		c.respondError(ctx, nil, err)
		return
	}

	f, err := c.service.RemovePassenger(ctx.Request.Context(), ctx.Param("id"), index)
	c.respond(ctx, f, err, "Passenger removed")
}

// ProceedToPayment handles POST /flows/:id/payment
func (c *Controller) ProceedToPayment(ctx *gin.Context) {
	f, err := c.service.ProceedToPayment(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, f, err, "Ready for payment")
}

// Pay handles POST /flows/:id/pay
func (c *Controller) Pay(ctx *gin.Context) {
	var card payments.Card
	if err := ctx.ShouldBindJSON(&card); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	f, err := c.service.Pay(ctx.Request.Context(), ctx.Param("id"), card)
	c.respond(ctx, f, err, "Booking confirmed")
}

// Back handles POST /flows/:id/back
func (c *Controller) Back(ctx *gin.Context) {
	f, err := c.service.Back(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, f, err, "Moved back")
}

// Restart handles POST /flows/:id/restart
func (c *Controller) Restart(ctx *gin.Context) {
	f, err := c.service.Restart(ctx.Request.Context(), ctx.Param("id"))
	c.respond(ctx, f, err, "Booking flow restarted")
}

// Discard handles DELETE /flows/:id
func (c *Controller) Discard(ctx *gin.Context) {
	if err := c.service.Discard(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.respondError(ctx, nil, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking flow discarded", nil, nil)
}

// tokenFrom turns the optional auth context into the capability the flow checks.
func tokenFrom(ctx *gin.Context) *AuthToken {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		return nil
	}
	return &AuthToken{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: user.ExpiresAt,
	}
}
