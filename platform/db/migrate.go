package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobguinee_backend/platform/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date from the SQL files in
// migrationsDir. An empty directory path skips migrations entirely, which is
// what tests and ad-hoc tooling rely on. A failed migration reports the
// version that left the schema dirty so it can be forced back by hand.
func RunMigrations(_ context.Context, cfg config.DatabaseConfig, migrationsDir string) error {
	dir := strings.TrimSpace(migrationsDir)
	if dir == "" {
		return nil
	}

	m, err := migrate.New("file://"+dir, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open migrations in %s: %w", dir, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if version, dirty, verr := m.Version(); verr == nil && dirty {
			return fmt.Errorf("migration %d left the schema dirty: %w", version, err)
		}
		return err
	}

	return nil
}
