package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	apperrors "github.com/scholarmap/scholarmap/pkg/errors"
)

// Migrator applies schema migrations from a file source.
type Migrator struct {
	m      *migrate.Migrate
	logger logging.Logger
}

// NewMigrator creates a migrator reading SQL files from cfg.MigrationPath.
func NewMigrator(cfg config.DatabaseConfig, log logging.Logger) (*Migrator, error) {
	sourceURL := "file://" + cfg.MigrationPath
	// golang-migrate selects the pgx/v5 driver from the URL scheme.
	databaseURL := "pgx5://" + strings.TrimPrefix(BuildDSN(cfg), "postgres://")

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "create migrator")
	}
	return &Migrator{m: m, logger: log}, nil
}

// Up applies all pending migrations.  An already-current schema is not an
// error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "apply migrations")
	}
	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "read migration version")
	}
	if dirty {
		return apperrors.New(apperrors.CodeDatabaseError, fmt.Sprintf("schema dirty at version %d", version))
	}
	mg.logger.Info("migrations applied", logging.Int64("version", int64(version)))
	return nil
}

// Down rolls back a single migration step.
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "roll back migration")
	}
	return nil
}

// Close releases the migrator's source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
