package bookings

import (
	"busbooking/internal/shared/config"
	"busbooking/internal/shared/middleware"
	"busbooking/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking management routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
	{
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		bookings.GET("/:id/ticket", controller.DownloadTicket) // GET /api/v1/bookings/:id/ticket
		bookings.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
	}

	userRoutes := rg.Group("/users")
	userRoutes.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
	{
		userRoutes.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings?page=1&limit=10
	}
}

// Bookings are created by the booking flow (POST /flows/:id/pay), never directly.
