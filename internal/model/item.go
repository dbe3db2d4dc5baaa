package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location — точка самовывоза мерчендайзера.
type Location struct {
	ID      int64  `gorm:"primaryKey"`
	Name    string `gorm:"size:50;not null"`
	Address string `gorm:"not null;default:''"`

	MerchandiserID int64 `gorm:"not null;index"`
	Merchandiser   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Category — категория товара.
type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

// Item — товар витрины. Вариант (цвет) ссылается на родительский товар
// через ParentItemID; у варианта всегда есть цвет, у родителя IsVariant=false.
// Циклы по ParentItemID запрещены и проверяются при записи.
type Item struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`

	MerchandiserID int64 `gorm:"not null;index"`
	Merchandiser   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Price  decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Amount *int

	LocationID *int64    `gorm:"index"`
	Location   *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	ShortDescription string `gorm:"size:255;not null;default:''"`
	Description      string

	Categories []Category `gorm:"many2many:item_categories"`

	// Самоссылка родитель/вариант
	ParentItemID *int64 `gorm:"index"`
	ParentItem   *Item  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IsVariant    bool   `gorm:"not null;default:false"`
	Color        string `gorm:"size:50"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
