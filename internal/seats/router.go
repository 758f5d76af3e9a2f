package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/seats")
	{
		seats.GET("/:id", controller.GetSeat)                      // GET /api/v1/seats/:id
		seats.POST("/availability", controller.CheckAvailability) // POST /api/v1/seats/availability
	}

	rg.GET("/schedules/:id/seats", controller.GetScheduleSeats) // GET /api/v1/schedules/:id/seats
}
