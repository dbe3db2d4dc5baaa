package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"UfoShop/internal/model"
)

// PictureRepository — контракт доступа к Picture для сервисного слоя.
type PictureRepository interface {
	Create(ctx context.Context, p *model.Picture) error
	GetByID(ctx context.Context, id int64) (*model.Picture, error)
	ListAll(ctx context.Context) ([]model.Picture, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Picture, error)

	// UpdateLocked выполняет fn над строкой под row-level блокировкой
	// (SELECT ... FOR UPDATE) и сохраняет вернувшиеся изменения одной
	// транзакцией. Конкурентные апдейты одной картинки сериализуются.
	UpdateLocked(ctx context.Context, id int64, fn func(p *model.Picture) (map[string]any, error)) error

	Delete(ctx context.Context, id int64) error
}

type pictureRepo struct {
	db *gorm.DB
}

// NewPictureRepository создаёт реализацию репозитория для Picture.
func NewPictureRepository(db *gorm.DB) PictureRepository {
	return &pictureRepo{db: db}
}

func (r *pictureRepo) Create(ctx context.Context, p *model.Picture) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pictureRepo) GetByID(ctx context.Context, id int64) (*model.Picture, error) {
	var p model.Picture
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pictureRepo) ListAll(ctx context.Context) ([]model.Picture, error) {
	var pics []model.Picture
	if err := r.db.WithContext(ctx).Order("id").Find(&pics).Error; err != nil {
		return nil, err
	}
	return pics, nil
}

func (r *pictureRepo) ListByItem(ctx context.Context, itemID int64) ([]model.Picture, error) {
	var pics []model.Picture
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("id").Find(&pics).Error; err != nil {
		return nil, err
	}
	return pics, nil
}

func (r *pictureRepo) UpdateLocked(ctx context.Context, id int64, fn func(p *model.Picture) (map[string]any, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Picture
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}
		updates, err := fn(&p)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.Picture{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r *pictureRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Picture{}, id).Error
}
