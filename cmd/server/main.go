package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"wheels/internal/app"
	"wheels/internal/config"
	"wheels/internal/handler"
	"wheels/internal/mq"
	"wheels/internal/notify"
	internalRedis "wheels/internal/redis"
	"wheels/internal/repository/postgres"
	"wheels/internal/service"
	"wheels/internal/ws"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Notification fan-out: RabbitMQ publisher plus a websocket hub fed by a
	// consumer worker. Without RabbitMQ the service runs with notifications
	// logged only.
	hub := ws.NewHub()
	var sender service.Sender
	if cfg.RabbitMQ.Enabled {
		mqConn, err := mq.Connect(cfg.RabbitMQ.URL())
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer mqConn.Close()
		log.Println("Connected to RabbitMQ")

		sender = notify.NewAMQPSender(mqConn)
		worker := notify.NewWorker(mqConn, hub)
		if err := worker.Start(); err != nil {
			log.Fatalf("failed to start notification worker: %v", err)
		}
	} else {
		sender = service.NopSender{}
		log.Println("RabbitMQ disabled, notifications are log-only")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, hub, sender, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, hub *ws.Hub, sender service.Sender, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	txManager := postgres.NewTxManager(db)
	tripRepo := postgres.NewTripRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	riderRepo := postgres.NewRiderRepository(db)
	chatRepo := postgres.NewChatRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(sender)
	tripService := service.NewTripService(txManager, tripRepo, driverRepo, riderRepo, lockStore, cacheStore, notificationService, service.NewTripFactory())
	chatService := service.NewChatService(chatRepo, tripRepo)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	driverHandler := handler.NewDriverHandler(driverRepo, tripService)
	riderHandler := handler.NewRiderHandler(riderRepo, tripService)
	chatHandler := handler.NewChatHandler(chatService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:   tripHandler,
		DriverHandler: driverHandler,
		RiderHandler:  riderHandler,
		ChatHandler:   chatHandler,
		Hub:           hub,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
