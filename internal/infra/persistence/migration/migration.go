// Package migration applies the embedded SQL schema through golang-migrate.
package migration

import (
	"context"
	"log/slog"

	"gatekeeper/migrations"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Direction selects which way the schema moves.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Run applies (or reverts) all migrations against the connection behind db.
// Reaching the target version with nothing to do is not an error.
// The migrator works on one dedicated pool connection, which is returned to the pool on exit.
func Run(ctx context.Context, db *gorm.DB, direction Direction, logger *slog.Logger) error {
	if direction != Up && direction != Down {
		return errors.Errorf("unknown migration direction %q", direction)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire migration connection")
	}
	defer conn.Close()

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}
	defer source.Close()

	// WithInstance would pin a pool connection for good; the driver's Close would also close sqlDB.
	driver, err := pgmigrate.WithConnection(ctx, conn, &pgmigrate.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create migrate driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migrator")
	}

	logger.Info("running migrations", slog.String("direction", string(direction)))

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")

		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "migrate %s", direction)
	}

	return nil
}
