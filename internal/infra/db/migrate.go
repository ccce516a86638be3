package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/NastyaGoryachaya/block-aggregator/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Direction - направление применения миграций
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate применяет встроенные миграции к базе databaseURL (схема pgx5://).
func Migrate(databaseURL string, dir Direction, logger *slog.Logger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("migration source close error", slog.Any("err", srcErr))
		}
		if dbErr != nil {
			logger.Warn("migration database close error", slog.Any("err", dbErr))
		}
	}()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply", slog.String("direction", string(dir)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}

	logger.Info("migrations applied", slog.String("direction", string(dir)))
	return nil
}
