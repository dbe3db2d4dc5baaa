package model

import "time"

// User — минимальная модель владельца: покупатель или мерчендайзер.
// Аутентификация живёт снаружи, здесь только ссылочные данные.
type User struct {
	ID    int64  `gorm:"primaryKey"`
	Email string `gorm:"uniqueIndex;not null"`
	Phone string

	IsMerchandiser bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
