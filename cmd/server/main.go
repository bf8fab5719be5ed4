package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/opsdash/liquidity-engine/internal/config"
	"github.com/opsdash/liquidity-engine/internal/events"
	"github.com/opsdash/liquidity-engine/internal/handler"
	"github.com/opsdash/liquidity-engine/internal/repository"
	"github.com/opsdash/liquidity-engine/internal/service"
	"github.com/opsdash/liquidity-engine/pkg/response"
)

func main() {
	// .env is optional, real deployments configure via environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logging)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	weekRepo := repository.NewWeekRepository(db)
	itemRepo := repository.NewLineItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Initialize service and handlers
	notifier := events.NewPublisher(redisClient, logger)
	liquidityService := service.NewLiquidityService(weekRepo, itemRepo, invoiceRepo, notifier, cfg, logger)
	liquidityHandler := handler.NewLiquidityHandler(liquidityService, logger)
	streamHandler := handler.NewStreamHandler(events.NewSubscriber(redisClient, logger), logger)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(liquidityHandler, streamHandler, healthHandler, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // the event stream endpoint holds connections open
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	liquidityHandler *handler.LiquidityHandler,
	streamHandler *handler.StreamHandler,
	healthHandler *handler.HealthHandler,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/weeks", liquidityHandler.CreateWeek).Methods("POST")
	api.HandleFunc("/weeks", liquidityHandler.ListWeeks).Methods("GET")
	api.HandleFunc("/weeks/current", liquidityHandler.EnsureCurrentWeek).Methods("POST")
	api.HandleFunc("/weeks/{weekId}", liquidityHandler.GetWeek).Methods("GET")
	api.HandleFunc("/weeks/{weekId}", liquidityHandler.UpdateWeek).Methods("PATCH")
	api.HandleFunc("/weeks/{weekId}/items", liquidityHandler.AddLineItem).Methods("POST")
	api.HandleFunc("/weeks/{weekId}/export", liquidityHandler.ExportWeek).Methods("GET")
	api.HandleFunc("/weeks/{weekId}/events", streamHandler.WeekEvents).Methods("GET")
	api.HandleFunc("/items/{itemId}", liquidityHandler.UpdateLineItem).Methods("PATCH")
	api.HandleFunc("/items/{itemId}", liquidityHandler.DeleteLineItem).Methods("DELETE")
	api.HandleFunc("/items/{itemId}/done", liquidityHandler.MarkDone).Methods("POST")
	api.HandleFunc("/items/{itemId}/actual", liquidityHandler.RecordActual).Methods("POST")
	api.HandleFunc("/calendar/{year}/{month}", liquidityHandler.MonthlyCalendar).Methods("GET")

	return router
}
