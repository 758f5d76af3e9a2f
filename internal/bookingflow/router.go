package bookingflow

import (
	"busbooking/internal/shared/config"
	"busbooking/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupFlowRoutes registers the booking flow. Browsing is anonymous; the token is
// only consulted when leaving seat selection.
func SetupFlowRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	flows := rg.Group("/flows")
	flows.Use(middleware.OptionalAuthWithConfig(cfg))
	{
		flows.POST("", controller.Start)
		flows.GET("/:id", controller.Get)
		flows.DELETE("/:id", controller.Discard)

		flows.POST("/:id/schedule", controller.OpenSchedule)
		flows.POST("/:id/seats/:seatId/toggle", controller.ToggleSeat)
		flows.PUT("/:id/stops", controller.SetStops)

		flows.POST("/:id/passenger-info", controller.ProceedToPassengers)
		flows.POST("/:id/passengers", controller.AddPassenger)
		flows.PUT("/:id/passengers/:index", controller.UpdatePassenger)
		flows.DELETE("/:id/passengers/:index", controller.RemovePassenger)

		flows.POST("/:id/payment", controller.ProceedToPayment)
		flows.POST("/:id/pay", controller.Pay)

		flows.POST("/:id/back", controller.Back)
		flows.POST("/:id/restart", controller.Restart)
	}
}
