package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/fieldbook-dev/fieldbook-backend/api/routes"
	"github.com/fieldbook-dev/fieldbook-backend/internal/columns"
	"github.com/fieldbook-dev/fieldbook-backend/internal/identity"
	"github.com/fieldbook-dev/fieldbook-backend/internal/records"
	"github.com/fieldbook-dev/fieldbook-backend/internal/stats"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth/session"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/metrics"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/migrate"
	pkgredis "github.com/fieldbook-dev/fieldbook-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	identitySvc, err := identity.NewService(identity.ServiceParams{
		Repo:     identity.NewRepository(dbClient.DB()),
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	columnsSvc, err := columns.NewService(columns.ServiceParams{
		Repo: columns.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create columns service", err)
		os.Exit(1)
	}

	recordsSvc, err := records.NewService(records.ServiceParams{
		Repo:    records.NewRepository(dbClient.DB()),
		Columns: columnsSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create records service", err)
		os.Exit(1)
	}

	statsSvc, err := stats.NewService(stats.ServiceParams{
		Records: recordsSvc,
		Users:   identitySvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	seedAccounts(logg, identitySvc, cfg.Seed)

	collector := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			collector,
			sessionManager,
			identitySvc,
			recordsSvc,
			columnsSvc,
			statsSvc,
		),
	}

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
}

// seedAccounts provisions the bootstrap admin and demo agent. Generated
// passwords are logged exactly once so operators can capture them on first
// boot.
func seedAccounts(logg *logger.Logger, svc *identity.Service, cfg config.SeedConfig) {
	result, err := svc.Seed(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to seed accounts", err)
		os.Exit(1)
	}
	if result.AdminCreated {
		ctx := logg.WithField(context.Background(), "username", cfg.AdminUsername)
		if result.AdminTempPassword != "" {
			ctx = logg.WithField(ctx, "temp_password", result.AdminTempPassword)
		}
		logg.Info(ctx, "seeded admin account")
	}
	if result.AgentCreated {
		ctx := logg.WithField(context.Background(), "username", cfg.AgentUsername)
		if result.AgentTempPassword != "" {
			ctx = logg.WithField(ctx, "temp_password", result.AgentTempPassword)
		}
		logg.Info(ctx, "seeded agent account")
	}
}
