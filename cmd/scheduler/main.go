package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/opsdash/liquidity-engine/internal/config"
	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/internal/events"
	"github.com/opsdash/liquidity-engine/internal/repository"
	"github.com/opsdash/liquidity-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info("Starting liquidity scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	liquidityService := service.NewLiquidityService(
		repository.NewWeekRepository(db),
		repository.NewLineItemRepository(db),
		repository.NewInvoiceRepository(db),
		events.NewPublisher(redisClient, logger),
		cfg,
		logger,
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	// Schedule tasks
	setupCronJobs(c, liquidityService, logger)

	// Start the scheduler
	c.Start()
	logger.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	c.Stop()
	logger.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, liquidityService *service.LiquidityService, logger *logrus.Logger) {
	// Weekly job to create and seed the new week (Mondays at 00:05)
	_, err := c.AddFunc("0 5 0 * * MON", func() {
		logger.Info("Running weekly ensure-current-week job...")
		ensureCurrentWeek(liquidityService, logger)
	})
	if err != nil {
		logger.Errorf("Error scheduling ensure-current-week job: %v", err)
	}

	// Daily job to log the current week's alert digest (runs at 7 AM)
	_, err = c.AddFunc("0 0 7 * * *", func() {
		logger.Info("Running daily alert sweep...")
		sweepAlerts(liquidityService, logger)
	})
	if err != nil {
		logger.Errorf("Error scheduling alert sweep job: %v", err)
	}

	logger.Info("Cron jobs scheduled successfully")
}

func ensureCurrentWeek(liquidityService *service.LiquidityService, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	week, err := liquidityService.EnsureCurrentWeek(ctx)
	if err != nil {
		if week == nil {
			logger.WithError(err).Error("ensure-current-week failed")
			return
		}
		// Week exists, only seeding failed
		logger.WithError(err).Warn("ensure-current-week: seeding incomplete")
	}

	logger.WithFields(logrus.Fields{
		"week_id":    week.ID,
		"week_start": week.WeekStart.Format("2006-01-02"),
	}).Info("current week ensured")
}

func sweepAlerts(liquidityService *service.LiquidityService, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	week, err := liquidityService.EnsureCurrentWeek(ctx)
	if err != nil && week == nil {
		logger.WithError(err).Error("alert sweep: ensure-current-week failed")
		return
	}

	detail, err := liquidityService.GetWeek(ctx, week.ID)
	if err != nil {
		logger.WithError(err).Error("alert sweep: load week failed")
		return
	}

	critical, warning := 0, 0
	for _, alert := range detail.Alerts {
		if alert.Severity == domain.AlertSeverityCritical {
			critical++
		} else {
			warning++
		}

		logger.WithFields(logrus.Fields{
			"week_id":  week.ID,
			"severity": alert.Severity,
			"code":     alert.Code,
		}).Warn(alert.Message)
	}

	logger.WithFields(logrus.Fields{
		"week_id":  week.ID,
		"critical": critical,
		"warning":  warning,
	}).Info("alert sweep finished")
}
