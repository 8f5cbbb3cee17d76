package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	portsevents "github.com/evalladares-t/transaction-service/internal/core/ports/events"
	"github.com/evalladares-t/transaction-service/internal/core/services"
	"github.com/evalladares-t/transaction-service/internal/events"
	"github.com/evalladares-t/transaction-service/internal/gateways/httpclient"
	"github.com/evalladares-t/transaction-service/internal/handlers"
	"github.com/evalladares-t/transaction-service/internal/middleware"
	"github.com/evalladares-t/transaction-service/internal/repositories/database/pgsql"
	"github.com/evalladares-t/transaction-service/pkg/config"
	"github.com/evalladares-t/transaction-service/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Transaction Service API
// @version 1.0
// @description Transaction-processing engine for externally-owned account and credit balances.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	// External balance services
	accountGw := httpclient.NewAccountGateway(cfg.AccountServiceURL, cfg.GatewayTimeout)
	creditGw := httpclient.NewCreditGateway(cfg.CreditServiceURL, cfg.GatewayTimeout)

	// Optional transaction event stream
	var publisher *events.RabbitMQPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err = events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Error("Failed to connect event publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer publisher.Close()
		logger.Info("Transaction event publisher connected.", slog.String("exchange", cfg.RabbitMQExchange))
	} else {
		logger.Info("RABBITMQ_URL not set, transaction events disabled.")
	}

	txnRepo := pgsql.NewPgxTransactionRepository(dbPool)

	// Avoid handing the container a non-nil interface wrapping a nil pointer.
	var txnPublisher portsevents.TransactionPublisher
	if publisher != nil {
		txnPublisher = publisher
	}

	container := services.NewServiceContainer(cfg, txnRepo, accountGw, creditGw, txnPublisher)

	// Periodic maintenance-fee trigger; the job itself lives in the service.
	go runMaintenanceLoop(ctx, cfg.MaintenanceInterval, container.Maintenance, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted("300-M")
	if err != nil {
		logger.Error("Failed to parse rate limit", slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	handlers.RegisterRoutes(r, cfg, container, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a standard sql.DB connection for migrations, using the pgx stdlib
	// driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// runMaintenanceLoop fires the maintenance-fee batch on a fixed interval
// until the context is cancelled.
func runMaintenanceLoop(ctx context.Context, interval time.Duration, job maintenanceRunner, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Maintenance loop stopped.")
			return
		case <-ticker.C:
			if err := job.ApplyMaintenanceFees(ctx); err != nil {
				logger.Error("Maintenance fee run failed", slog.String("error", err.Error()))
			}
		}
	}
}

type maintenanceRunner interface {
	ApplyMaintenanceFees(ctx context.Context) error
}
