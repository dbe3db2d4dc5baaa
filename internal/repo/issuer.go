package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"UfoShop/internal/model"
)

// IssuerRepository — контракт доступа к Issuer.
type IssuerRepository interface {
	Create(ctx context.Context, issuer *model.Issuer) error
	GetByID(ctx context.Context, id int64) (*model.Issuer, error)
	List(ctx context.Context) ([]model.Issuer, error)

	// PickDefault возвращает issuer по правилу: помеченный is_default,
	// иначе любой существующий, иначе gorm.ErrRecordNotFound.
	PickDefault(ctx context.Context) (*model.Issuer, error)

	// SetDefault одной транзакцией снимает флаг со всех и ставит одному.
	// Читатели не видят окна с нулём или двумя дефолтами.
	SetDefault(ctx context.Context, id int64) error
}

type issuerRepo struct {
	db *gorm.DB
}

// NewIssuerRepository создаёт реализацию репозитория для Issuer.
func NewIssuerRepository(db *gorm.DB) IssuerRepository {
	return &issuerRepo{db: db}
}

func (r *issuerRepo) Create(ctx context.Context, issuer *model.Issuer) error {
	return r.db.WithContext(ctx).Create(issuer).Error
}

func (r *issuerRepo) GetByID(ctx context.Context, id int64) (*model.Issuer, error) {
	var is model.Issuer
	if err := r.db.WithContext(ctx).First(&is, id).Error; err != nil {
		return nil, err
	}
	return &is, nil
}

func (r *issuerRepo) List(ctx context.Context) ([]model.Issuer, error) {
	var list []model.Issuer
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *issuerRepo) PickDefault(ctx context.Context) (*model.Issuer, error) {
	var is model.Issuer
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&is).Error
	if err == nil {
		return &is, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// дефолт не помечен — берём любой
	if err := r.db.WithContext(ctx).Order("id").First(&is).Error; err != nil {
		return nil, err
	}
	return &is, nil
}

func (r *issuerRepo) SetDefault(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var is model.Issuer
		if err := tx.First(&is, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Issuer{}).Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Issuer{}).Where("id = ?", id).
			Update("is_default", true).Error
	})
}
