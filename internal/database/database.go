package database

import (
	"fmt"

	"autoFill/internal/config"
	"autoFill/internal/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type DB struct {
	*gorm.DB
}

// New подключается к PostgreSQL, если задан DB_HOST, иначе открывает локальный SQLite.
// Схему PostgreSQL создают миграции, схему SQLite - AutoMigrate.
func New(cfg *config.Cfg, log *logger.Zap) (*DB, error) {
	if cfg.Database.UsePostgres() {
		db, err := open(postgres.Open(cfg.Database.DSN()), log)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
		}
		log.Info("Подключено к PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))
		return db, nil
	}
	return OpenSQLite(cfg.Database.SQLitePath, log)
}

// OpenSQLite открывает файл SQLite (":memory:" для тестов) и создаёт таблицы.
func OpenSQLite(path string, log *logger.Zap) (*DB, error) {
	db, err := open(sqlite.Open(path), log)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite %q: %w", path, err)
	}
	// Одно соединение: каждое новое соединение с ":memory:" получает пустую базу.
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&CipherUsage{}, &URLIndex{}); err != nil {
		return nil, fmt.Errorf("ошибка создания таблиц: %w", err)
	}
	log.Debug("Открыт SQLite", zap.String("path", path))
	return db, nil
}

func open(dialector gorm.Dialector, log *logger.Zap) (*DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      NewGormLogger(log.Logger),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}
	return &DB{DB: db}, nil
}

func (d *DB) Close(log *logger.Zap) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Warn("Не удалось получить соединение БД", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Ошибка закрытия БД", zap.Error(err))
	}
}
