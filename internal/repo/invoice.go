package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"UfoShop/internal/model"
)

// InvoiceRepository — контракт доступа к Invoice.
type InvoiceRepository interface {
	// CreateIfAbsent пытается создать счёт. Если по заказу счёт уже есть —
	// ничего не делает. Возвращает created=true, если запись создана
	// именно этой операцией. Вместе с уникальным индексом по order_id
	// это даёт ровно один счёт на заказ даже при гонке.
	CreateIfAbsent(ctx context.Context, inv *model.Invoice) (created bool, err error)

	GetByOrderID(ctx context.Context, orderID int64) (*model.Invoice, error)
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)

	// SetPDFPath записывает (или перезаписывает) путь PDF-артефакта.
	SetPDFPath(ctx context.Context, id int64, path string) error
}

type invoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepository создаёт реализацию репозитория для Invoice.
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) CreateIfAbsent(ctx context.Context, inv *model.Invoice) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(inv)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *invoiceRepo) GetByOrderID(ctx context.Context, orderID int64) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Issuer").
		Where("order_id = ?", orderID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Preload("Issuer").First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) SetPDFPath(ctx context.Context, id int64, path string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).
		Update("pdf_path", path).Error
}
