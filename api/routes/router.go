package routes

import (
	"net/http"
	"time"

	"busbooking/docs"
	"busbooking/internal/auth"
	"busbooking/internal/bookingflow"
	"busbooking/internal/bookings"
	"busbooking/internal/notifications"
	"busbooking/internal/passengers"
	"busbooking/internal/payments"
	"busbooking/internal/schedules"
	"busbooking/internal/seats"
	"busbooking/internal/shared/config"
	"busbooking/internal/shared/database"
	"busbooking/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	cacheService cache.Service
	seatService  seats.Service
	scheduleSvc  schedules.Service
	submitter    *bookings.Submitter
}

// NewRouter creates a new router instance. publisher receives booking
// confirmations and cancellations.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
	if db.Redis != nil {
		r.cacheService = cache.NewService(db.Redis)
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// order matters: each step reuses services built by the previous one
		r.setupSeatRoutes(api)
		r.setupScheduleRoutes(api)
		r.setupBookingRoutes(api)
		r.setupFlowRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busbooking-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busbooking-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"payment":     r.config.Payment.Provider,
			"kafka":       r.config.Kafka.Enabled,
			"redis":       r.db.Redis != nil,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.NewRouter(authController, r.config).SetupRoutes(rg)
}

func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	r.seatService = seats.NewService(seatRepo, r.cacheService)

	seats.SetupSeatRoutes(rg, seats.NewController(r.seatService))
}

func (r *Router) setupScheduleRoutes(rg *gin.RouterGroup) {
	scheduleRepo := schedules.NewRepository(r.db.GetPostgreSQL())
	r.scheduleSvc = schedules.NewService(scheduleRepo, r.seatService, r.cacheService)

	schedules.SetupScheduleRoutes(rg, schedules.NewController(r.scheduleSvc))
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	passengerRepo := passengers.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	r.submitter = bookings.NewSubmitter(passengerRepo, bookingRepo, r.seatService, r.cacheService)
	bookingService := bookings.NewService(bookingRepo, passengerRepo, r.seatService, r.cacheService, r.publisher)

	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService), r.config)
}

func (r *Router) setupFlowRoutes(rg *gin.RouterGroup) {
	var (
		store  bookingflow.Store
		locker bookingflow.Locker
	)
	if r.cacheService != nil {
		store = bookingflow.NewCacheStore(r.cacheService, r.config.Flow.SessionTTL)
		locker = bookingflow.NewRedisLocker(r.db.Redis)
	} else {
		store = bookingflow.NewMemoryStore()
		locker = bookingflow.NewLocalLocker()
	}

	flowService := bookingflow.NewService(
		r.config,
		schedules.NewInventory(r.scheduleSvc, r.seatService),
		store,
		locker,
		payments.NewGateway(r.config.Payment),
		r.submitter,
		bookingflow.NewEventConsumer(r.publisher),
	)

	bookingflow.SetupFlowRoutes(rg, bookingflow.NewController(flowService), r.config)
}
