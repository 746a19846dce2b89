package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// LatestMigrationVersion is the newest schema version shipped in migrations/.
// It must be bumped with every new migration.
const LatestMigrationVersion uint = 1

// ErrMigrationDowngrade is returned when the database was written by a newer
// binary.
var ErrMigrationDowngrade = errors.New("database downgrade detected")

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLogger adapts log.Logger to migrate.Logger.
type migrationLogger struct {
	log *log.Logger
}

func (m *migrationLogger) Printf(format string, v ...any) {
	m.log.Debug(strings.TrimRight(fmt.Sprintf(format, v...), "\n"))
}

func (m *migrationLogger) Verbose() bool {
	return m.log.GetLevel() <= log.DebugLevel
}

func applyMigrations(db *sql.DB, latest uint, logger *log.Logger) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("unable to determine current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d, manual intervention required", version)
	}
	if version > latest {
		return fmt.Errorf("%w: db_version=%d, latest_migration_version=%d",
			ErrMigrationDowngrade, version, latest)
	}

	m.Log = &migrationLogger{logger}
	if err := m.Migrate(latest); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	after, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("unable to determine migrated version: %w", err)
	}
	if after != version {
		logger.Info("Migrated database", "from", version, "to", after)
	}
	return nil
}
