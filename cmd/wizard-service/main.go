package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-event-setup/internal/config"
	"ms-event-setup/internal/kafka"
	"ms-event-setup/internal/launch"
	launchdb "ms-event-setup/internal/launch/db"
	"ms-event-setup/internal/launch/launch_api"
	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/wizard/session"
	"ms-event-setup/internal/wizard/wizard_api"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = sqldb.Ping()
			if err == nil {
				break
			}
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func buildPublisher(cfg config.KafkaConfig, log *logger.Logger) (launch.KafkaPublisher, func()) {
	if !cfg.Enabled || cfg.MockMode {
		log.Info("KAFKA", "Kafka disabled or in mock mode, using mock publisher")
		return &kafka.MockProducer{Logger: log}, func() {}
	}

	if err := kafka.EnsureTopic(cfg.Brokers, cfg.Topic); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	producer := kafka.NewProducer(cfg.Brokers, cfg.Topic, log)
	log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for topic %s", cfg.Topic))
	return producer, func() {
		if err := producer.Close(); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Event Setup Wizard Service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	// --- PostgreSQL (launch store) ---
	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	if cfg.Launch.AutoMigrate {
		runner := launchdb.NewRunner(bunDB, launchdb.MigrateOptions{
			MigrationsDir: cfg.Launch.MigrationsDir,
			AutoMigrate:   true,
		})
		if err := runner.MigrateUp(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations applied")
	}

	// --- Redis (wizard sessions) ---
	redisClient, err := session.InitializeRedis(cfg.Redis.Addr, log)
	if err != nil {
		log.Fatal("SESSION", fmt.Sprintf("Redis connection error: %v", err))
	}
	defer redisClient.Close()
	sessions := session.NewRedisStore(redisClient, cfg.Redis.SessionTTL, log)

	// --- Kafka ---
	publisher, closePublisher := buildPublisher(cfg.Kafka, log)
	defer closePublisher()

	// --- Services ---
	launchDB := &launchdb.DB{Bun: bunDB}
	launchService := launch.NewService(launchDB, publisher, log, cfg.Launch.PublicBaseURL)
	handler := wizard_api.NewHandler(sessions, launchService, log, cfg.Wizard.MaxScheduleDays)
	publicEvents := launch_api.NewHandler(launchDB, log)

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	publicEvents.RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Wizard Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Wizard Service shutdown complete")
	}
}
