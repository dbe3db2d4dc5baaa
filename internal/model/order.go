package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус заказа. Переходы только вперёд:
// cart -> ordered -> paid -> shipped -> fulfilled, либо в cancelled.
type OrderStatus int

const (
	StatusInCart OrderStatus = iota + 1
	StatusOrdered
	StatusPaid
	StatusShipped
	StatusFulfilled
	StatusCancelled
)

// String возвращает человекочитаемое имя статуса.
func (s OrderStatus) String() string {
	switch s {
	case StatusInCart:
		return "in_cart"
	case StatusOrdered:
		return "ordered"
	case StatusPaid:
		return "paid"
	case StatusShipped:
		return "shipped"
	case StatusFulfilled:
		return "fulfilled"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Order — агрегат заказа. Суммы пересчитываются из строк заказа,
// total = subtotal + shipping_cost + receipt_fee.
type Order struct {
	ID int64 `gorm:"primaryKey"`

	UserID int64 `gorm:"not null;index"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Status OrderStatus `gorm:"not null;default:1"`

	NeedsReceipt bool `gorm:"not null;default:false"`

	Subtotal     decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	ReceiptFee   decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Total        decimal.Decimal `gorm:"type:numeric;not null;default:0"`

	Items []OrderItem

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// OrderItem — строка заказа: товар, количество, цена на момент добавления
// и необязательная точка самовывоза.
type OrderItem struct {
	ID int64 `gorm:"primaryKey"`

	OrderID int64  `gorm:"not null;index"`
	Order   *Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	ItemID int64 `gorm:"not null;index"`
	Item   *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Amount    int             `gorm:"not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null;default:0"`

	LocationID *int64    `gorm:"index"`
	Location   *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
