package service

import (
	"context"
	"errors"
	"fmt"

	"UfoShop/internal/model"
	"UfoShop/internal/repo"
)

var (
	// ErrVariantNeedsColor — вариант без цвета не имеет смысла.
	ErrVariantNeedsColor = errors.New("variant requires a color")
	// ErrParentCycle — попытка сделать товар собственным предком.
	ErrParentCycle = errors.New("item cannot be its own ancestor")
)

// maxParentDepth ограничивает обход цепочки родителей при проверке циклов.
const maxParentDepth = 100

// ItemService — операции над товарами и их вариантами.
type ItemService struct {
	items repo.ItemRepository
}

func NewItemService(items repo.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

func (s *ItemService) Create(ctx context.Context, item *model.Item) error {
	item.IsVariant = false
	item.ParentItemID = nil
	return s.items.Create(ctx, item)
}

func (s *ItemService) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *ItemService) ListActive(ctx context.Context) ([]model.Item, error) {
	return s.items.ListActive(ctx)
}

// CreateVariant создаёт цветовой вариант: описание и категории копируются
// из родителя на момент создания, ParentItemID и IsVariant выставляются.
func (s *ItemService) CreateVariant(ctx context.Context, parentID int64, variant *model.Item) error {
	if variant.Color == "" {
		return ErrVariantNeedsColor
	}
	parent, err := s.items.GetWithCategories(ctx, parentID)
	if err != nil {
		return fmt.Errorf("variant: load parent %d: %w", parentID, err)
	}
	if err := s.checkAncestry(ctx, variant.ID, parentID); err != nil {
		return err
	}

	variant.ParentItemID = &parent.ID
	variant.IsVariant = true
	variant.Description = parent.Description
	variant.Categories = parent.Categories
	if variant.ShortDescription == "" {
		variant.ShortDescription = parent.ShortDescription
	}
	if variant.MerchandiserID == 0 {
		variant.MerchandiserID = parent.MerchandiserID
	}
	return s.items.Create(ctx, variant)
}

// SetParent перевешивает товар на другого родителя с проверкой циклов.
func (s *ItemService) SetParent(ctx context.Context, itemID, parentID int64) error {
	if err := s.checkAncestry(ctx, itemID, parentID); err != nil {
		return err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	item.ParentItemID = &parentID
	item.IsVariant = true
	return s.items.Update(ctx, item)
}

// checkAncestry идёт вверх по цепочке родителей от parentID и следит,
// чтобы itemID там не встретился (и чтобы цепочка не была бесконечной).
func (s *ItemService) checkAncestry(ctx context.Context, itemID, parentID int64) error {
	if itemID != 0 && itemID == parentID {
		return ErrParentCycle
	}
	cur := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		node, err := s.items.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if node.ParentItemID == nil {
			return nil
		}
		cur = *node.ParentItemID
		if itemID != 0 && cur == itemID {
			return ErrParentCycle
		}
	}
	return ErrParentCycle
}
