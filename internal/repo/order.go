package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"UfoShop/internal/model"
)

// ErrStatusConflict — попытка неразрешённого перехода статуса заказа.
var ErrStatusConflict = errors.New("order status transition conflict")

// OrderRepository — контракт доступа к Order/OrderItem.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	// GetByID подгружает строки заказа и покупателя.
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	AddItem(ctx context.Context, line *model.OrderItem) error

	// SaveTotals персистит пересчитанные суммы. Идемпотентно.
	SaveTotals(ctx context.Context, id int64, subtotal, shipping, fee, total decimal.Decimal) error

	// TransitionStatus атомарно переводит заказ from -> to.
	// Если текущий статус уже не from, возвращает ErrStatusConflict.
	TransitionStatus(ctx context.Context, id int64, from, to model.OrderStatus) error
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository создаёт реализацию репозитория для Order.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Item").
		Preload("User").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) AddItem(ctx context.Context, line *model.OrderItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *orderRepo) SaveTotals(ctx context.Context, id int64, subtotal, shipping, fee, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]any{
		"subtotal":      subtotal,
		"shipping_cost": shipping,
		"receipt_fee":   fee,
		"total":         total,
	}).Error
}

func (r *orderRepo) TransitionStatus(ctx context.Context, id int64, from, to model.OrderStatus) error {
	tx := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}
