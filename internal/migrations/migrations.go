// Package migrations применяет схему PostgreSQL через golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"autoFill/internal/config"
	"autoFill/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedded embed.FS

// Run применяет миграции. Для SQLite ничего не делает: таблицы создаёт AutoMigrate.
// MIGRATIONS_PATH (например "file://migrations") подменяет встроенные файлы.
func Run(cfg *config.Cfg, log *logger.Zap) error {
	if !cfg.Database.UsePostgres() {
		log.Debug("Миграции пропущены: используется SQLite")
		return nil
	}

	m, err := newMigrate(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("Ошибка закрытия миграций", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("Схема БД актуальна")
			return nil
		}
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("Миграции применены", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func newMigrate(cfg *config.Cfg) (*migrate.Migrate, error) {
	if cfg.Migrations.Path != "" {
		return migrate.New(cfg.Migrations.Path, cfg.Database.URL())
	}
	src, err := iofs.New(embedded, "sql")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, cfg.Database.URL())
}
