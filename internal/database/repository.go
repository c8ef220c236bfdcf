package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository ведёт учёт использования записей и позиции перебора.
type UsageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db, now: time.Now}
}

// UpdateLastUsed отмечает запись как использованную сейчас.
func (r *UsageRepository) UpdateLastUsed(ctx context.Context, cipherID string) error {
	now := r.now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cipher_id"}},
			DoUpdates: clause.Assignments(map[string]any{"last_used": now, "updated_at": now}),
		}).
		Create(&CipherUsage{CipherID: cipherID, LastUsed: now}).Error
	if err != nil {
		return fmt.Errorf("ошибка обновления last_used для %s: %w", cipherID, err)
	}
	return nil
}

// UpdateLastLaunched отмечает, что пользователь открыл сайт записи.
func (r *UsageRepository) UpdateLastLaunched(ctx context.Context, cipherID string) error {
	now := r.now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cipher_id"}},
			DoUpdates: clause.Assignments(map[string]any{"last_launched": now, "updated_at": now}),
		}).
		Create(&CipherUsage{CipherID: cipherID, LastLaunched: now}).Error
	if err != nil {
		return fmt.Errorf("ошибка обновления last_launched для %s: %w", cipherID, err)
	}
	return nil
}

// Usage возвращает учёт для списка записей. Записей без учёта в ответе нет.
func (r *UsageRepository) Usage(ctx context.Context, cipherIDs []string) (map[string]CipherUsage, error) {
	out := make(map[string]CipherUsage, len(cipherIDs))
	if len(cipherIDs) == 0 {
		return out, nil
	}
	var rows []CipherUsage
	if err := r.db.WithContext(ctx).Where("cipher_id IN ?", cipherIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("ошибка чтения учёта использования: %w", err)
	}
	for _, row := range rows {
		out[row.CipherID] = row
	}
	return out, nil
}

// Position возвращает число сдвигов перебора для ключа (0, если перебора не было).
func (r *UsageRepository) Position(ctx context.Context, key string) (int, error) {
	var idx URLIndex
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения позиции перебора: %w", err)
	}
	return idx.Position, nil
}

// AdvanceIndex сдвигает перебор для ключа на одну запись вперёд.
func (r *UsageRepository) AdvanceIndex(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"position":   gorm.Expr("url_index.position + 1"),
				"updated_at": r.now(),
			}),
		}).
		Create(&URLIndex{Key: key, Position: 1}).Error
	if err != nil {
		return fmt.Errorf("ошибка сдвига перебора для %q: %w", key, err)
	}
	return nil
}
