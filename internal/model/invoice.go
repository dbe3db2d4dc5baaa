package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Issuer — реквизиты, от имени которых выставляется счёт.
// В системе ровно один Issuer с IsDefault=true; инвариант держит репозиторий.
type Issuer struct {
	ID int64 `gorm:"primaryKey"`

	Name        string `gorm:"size:255;not null"`
	Address     string `gorm:"not null;default:''"`
	RegNumber   string `gorm:"size:50"`
	VATNumber   string `gorm:"size:50"`
	BankAccount string `gorm:"size:50"` // национальная нотация, напр. 670100-2210457032/6210

	IsDefault bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Invoice — счёт по заказу. На заказ всегда ровно один счёт:
// уникальный индекс по OrderID + создание через OnConflict DoNothing.
type Invoice struct {
	ID int64 `gorm:"primaryKey"`

	OrderID int64  `gorm:"not null;uniqueIndex"`
	Order   *Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	IssuerID int64   `gorm:"not null;index"`
	Issuer   *Issuer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Number      string          `gorm:"size:50;uniqueIndex;not null"` // INV-<год>-<id заказа>
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	DueDate     time.Time       `gorm:"not null"`

	// Путь PDF в хранилище; пустой, если генерация ещё не удалась.
	PDFPath string `gorm:"size:500"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
