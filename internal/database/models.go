// Package database хранит учёт использования записей: даты последнего
// использования и открытия и позиции перебора записей по адресу.
package database

import "time"

// CipherUsage - даты использования одной записи.
type CipherUsage struct {
	CipherID     string    `gorm:"primaryKey;type:varchar(64)"`
	LastUsed     time.Time `gorm:"index"`
	LastLaunched time.Time
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (CipherUsage) TableName() string {
	return "cipher_usage"
}

// URLIndex - сколько раз перебор записей для ключа сдвигался вперёд.
// Ключ - адрес вкладки либо "card" / "identity" для перебора без адреса.
type URLIndex struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Position  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (URLIndex) TableName() string {
	return "url_index"
}
