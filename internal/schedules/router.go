package schedules

import (
	"github.com/gin-gonic/gin"
)

// SetupScheduleRoutes registers the public browsing endpoints.
func SetupScheduleRoutes(rg *gin.RouterGroup, controller *Controller) {
	schedules := rg.Group("/schedules")
	{
		schedules.GET("", controller.SearchSchedules)         // GET /api/v1/schedules?from=&to=&date=
		schedules.GET("/:id", controller.GetSchedule)         // GET /api/v1/schedules/:id
		schedules.GET("/:id/seat-map", controller.GetSeatMap) // GET /api/v1/schedules/:id/seat-map
	}

	rg.GET("/cities", controller.GetCities) // GET /api/v1/cities
}
