package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/model"
	"UfoShop/internal/service"
)

// ItemHandler обрабатывает CRUD товаров и создание вариантов.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
}

func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger}
}

// ItemRequest — тело создания товара или варианта. Цена — строка,
// чтобы не терять точность на float.
type ItemRequest struct {
	Name             string `json:"name"`
	Price            string `json:"price"`
	ShortDescription string `json:"short_description,omitempty"`
	Description      string `json:"description,omitempty"`
	Color            string `json:"color,omitempty"`
	MerchandiserID   int64  `json:"merchandiser_id,omitempty"`
	Amount           *int   `json:"amount,omitempty"`
}

type ItemDTO struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Price            string `json:"price"`
	ShortDescription string `json:"short_description,omitempty"`
	Description      string `json:"description,omitempty"`
	Color            string `json:"color,omitempty"`
	IsVariant        bool   `json:"is_variant"`
	ParentItemID     *int64 `json:"parent_item_id,omitempty"`
	IsActive         bool   `json:"is_active"`
}

func itemToDTO(it *model.Item) ItemDTO {
	return ItemDTO{
		ID:               it.ID,
		Name:             it.Name,
		Price:            it.Price.StringFixed(2),
		ShortDescription: it.ShortDescription,
		Description:      it.Description,
		Color:            it.Color,
		IsVariant:        it.IsVariant,
		ParentItemID:     it.ParentItemID,
		IsActive:         it.IsActive,
	}
}

func (h *ItemHandler) decodeItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("item: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	if req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return nil, false
	}
	price := decimal.Zero
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return nil, false
		}
		price = p
	}
	return &model.Item{
		Name:             req.Name,
		Price:            price,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Color:            req.Color,
		MerchandiserID:   req.MerchandiserID,
		Amount:           req.Amount,
	}, true
}

// Create создаёт базовый (не вариантный) товар.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	if err := h.ItemService.Create(r.Context(), item); err != nil {
		h.Logger.Errorw("item: create failed", "name", item.Name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, itemToDTO(item))
}

// CreateVariant создаёт цветовой вариант товара {id}.
func (h *ItemHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	parentID, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}
	variant, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	err = h.ItemService.CreateVariant(r.Context(), parentID, variant)
	switch {
	case errors.Is(err, service.ErrVariantNeedsColor):
		http.Error(w, "variant requires a color", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrParentCycle):
		http.Error(w, "variant parent cycle", http.StatusConflict)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "parent item not found", http.StatusNotFound)
		return
	case err != nil:
		h.Logger.Errorw("item: create variant failed", "parent_id", parentID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, itemToDTO(variant))
}

// Get отдаёт товар по id.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}
	item, err := h.ItemService.GetByID(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Errorw("item: get failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, itemToDTO(item))
}

// List отдаёт активные товары витрины.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.ItemService.ListActive(r.Context())
	if err != nil {
		h.Logger.Errorw("item: list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, itemToDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
