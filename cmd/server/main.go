package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "fleetrental-backend/internal/api/http"
	"fleetrental-backend/internal/cache"
	"fleetrental-backend/internal/config"
	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/jobs"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository/postgres"
	"fleetrental-backend/internal/scheduler"
	"fleetrental-backend/internal/security"
	"fleetrental-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fleet Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "host", cfg.Database.Host, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		logger.Info("Email notifications enabled", "from", cfg.Email.FromEmail)
	} else {
		logger.Warn("No SendGrid API key configured, email notifications disabled")
	}

	// Initialize Vehicle Hold Cache
	var holdCache service.VehicleHoldCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisCache.Close()
		holdCache = redisCache
		logger.Info("Vehicle hold cache enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("No Redis address configured, vehicle holds disabled")
	}

	// Initialize Event Producer
	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		logger.Info("Event publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		logger.Warn("No Kafka brokers configured, event publishing disabled")
	}

	// Initialize Services
	boundary := domain.BoundaryInclusive
	if cfg.Booking.AllowSameDayTurnover {
		boundary = domain.BoundaryExclusive
	}
	syncSvc := service.NewResourceSynchronizer()
	reservationSvc := service.NewReservationService(
		store,
		syncSvc,
		emailSvc,
		holdCache,
		publisher,
		service.ReservationConfig{
			BoundaryPolicy:              boundary,
			DefaultDriverDailyRateCents: cfg.Booking.DefaultDriverDailyRateCents,
			HoldTTL:                     time.Duration(cfg.Booking.HoldTTLSeconds) * time.Second,
		},
	)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store, reservationSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP Server
	router := httpapi.NewRouter(reservationSvc, tokenManager)
	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server terminated", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
