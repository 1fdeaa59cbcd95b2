package migrate

import (
	"context"
	"fmt"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when the auto-migrate flag
// is set. Refused outside dev so production schema changes stay an explicit
// cmd/migrate step.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if !cfg.App.IsDev() {
		return fmt.Errorf("auto-migrate is only allowed in dev (env=%s)", cfg.App.Env)
	}
	if client == nil {
		return fmt.Errorf("db client is required")
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "running dev auto-migrations")
	}
	return Run(ctx, sqlDB, DefaultDir, "up")
}
