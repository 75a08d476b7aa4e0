package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// openMigrator is replaced in tests.
var openMigrator = func(driver, connectionString string) (migrator, error) {
	return migrate.New(migrationSource(driver), connectionString)
}

// migrationSource returns the file source holding driver's migrations.
func migrationSource(driver string) string {
	dir := "postgresql"
	if driver == "mysql" {
		dir = "mysql"
	}
	return "file://migrations/" + dir
}

// RunMigrations applies every pending migration when steps is zero. A
// positive steps applies that many, a negative one rolls that many back.
// Nothing to do is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string, steps int) error {
	logger.Info("running database migrations", slog.String("driver", driver), slog.Int("steps", steps))

	m, err := openMigrator(driver, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrator(m, logger)

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

// RunMigrationVersion prints the applied schema version. A database with no
// migrations reports version 0.
func RunMigrationVersion(logger *slog.Logger, w io.Writer, driver, connectionString, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	m, err := openMigrator(driver, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrator(m, logger)

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if format == formatJSON {
		return writeJSON(w, map[string]any{"driver": driver, "version": version, "dirty": dirty})
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	_, _ = fmt.Fprintf(w, "Schema version %d (%s)\n", version, state)
	return nil
}

func closeMigrator(m migrator, logger *slog.Logger) {
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		logger.Error("failed to close migrations",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}
