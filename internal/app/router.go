package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"wheels/internal/handler"
	"wheels/internal/middleware"
	"wheels/internal/ws"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler   *handler.TripHandler
	DriverHandler *handler.DriverHandler
	RiderHandler  *handler.RiderHandler
	ChatHandler   *handler.ChatHandler
	Hub           *ws.Hub
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.PUT("/:id/vehicle", deps.DriverHandler.RegisterVehicle)
			drivers.GET("/:id/routes", deps.DriverHandler.Routes)
			drivers.GET("/:id/trips/active", deps.DriverHandler.ActiveTrip)
			drivers.GET("/:id/trips/history", deps.DriverHandler.TripHistory)
		}

		// Rider routes.
		riders := v1.Group("/riders")
		{
			riders.POST("/register", deps.RiderHandler.Register)
			riders.GET("/:id/trips/active", deps.RiderHandler.ActiveTrip)
			riders.GET("/:id/trips/history", deps.RiderHandler.TripHistory)
		}

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/riders", deps.TripHandler.AdmitRider)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
			trips.POST("/:id/finish", deps.TripHandler.FinalizeTrip)
			trips.GET("/:id/chat", deps.ChatHandler.GetChat)
			trips.POST("/:id/chat/messages", deps.ChatHandler.PostMessage)
		}

		// Notification websocket.
		if deps.Hub != nil {
			v1.GET("/ws/:id", func(c *gin.Context) {
				_ = deps.Hub.Serve(c.Writer, c.Request, c.Param("id"))
			})
		}
	}

	return router
}
