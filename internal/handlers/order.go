package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/model"
	"UfoShop/internal/repo"
	"UfoShop/internal/service"
)

// OrderHandler обрабатывает checkout и платёжный QR заказа.
type OrderHandler struct {
	OrderService   *service.OrderService
	InvoiceService *service.InvoiceService
	Logger         *zap.SugaredLogger
}

func NewOrderHandler(orderService *service.OrderService, invoiceService *service.InvoiceService, logger *zap.SugaredLogger) *OrderHandler {
	return &OrderHandler{OrderService: orderService, InvoiceService: invoiceService, Logger: logger}
}

type OrderLineDTO struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name,omitempty"`
	Amount    int    `json:"amount"`
	UnitPrice string `json:"unit_price"`
}

type OrderDTO struct {
	ID           int64          `json:"id"`
	Status       string         `json:"status"`
	NeedsReceipt bool           `json:"needs_receipt"`
	Subtotal     string         `json:"subtotal"`
	ShippingCost string         `json:"shipping_cost"`
	ReceiptFee   string         `json:"receipt_fee"`
	Total        string         `json:"total"`
	Lines        []OrderLineDTO `json:"lines"`
}

func orderToDTO(o *model.Order) OrderDTO {
	lines := make([]OrderLineDTO, 0, len(o.Items))
	for _, li := range o.Items {
		name := ""
		if li.Item != nil {
			name = li.Item.Name
		}
		lines = append(lines, OrderLineDTO{
			ItemID:    li.ItemID,
			Name:      name,
			Amount:    li.Amount,
			UnitPrice: li.UnitPrice.StringFixed(2),
		})
	}
	return OrderDTO{
		ID:           o.ID,
		Status:       o.Status.String(),
		NeedsReceipt: o.NeedsReceipt,
		Subtotal:     o.Subtotal.StringFixed(2),
		ShippingCost: o.ShippingCost.StringFixed(2),
		ReceiptFee:   o.ReceiptFee.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		Lines:        lines,
	}
}

// Get отдаёт заказ со строками.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.OrderService.Get(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Errorw("order: get failed", "order_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orderToDTO(order))
}

// Checkout переводит корзину в заказ. Повторный вызов — 409.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.OrderService.Checkout(r.Context(), id)
	switch {
	case errors.Is(err, repo.ErrStatusConflict):
		http.Error(w, "order is not in cart", http.StatusConflict)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case err != nil:
		h.Logger.Errorw("checkout failed", "order_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orderToDTO(order))
}

// PaymentQRResponse — SPAYD-строка и готовый <img> фрагмент.
type PaymentQRResponse struct {
	Payload  string `json:"payload"`
	ImageTag string `json:"image_tag"`
}

// PaymentQR отдаёт платёжный QR по заказу.
func (h *OrderHandler) PaymentQR(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	payload, tag, err := h.InvoiceService.PaymentQR(r.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrNoIssuer):
		http.Error(w, "no issuer configured", http.StatusConflict)
		return
	case err != nil:
		h.Logger.Errorw("payment qr failed", "order_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, PaymentQRResponse{Payload: payload, ImageTag: tag})
}

// PaymentQRPNG отдаёт компактный QR как PNG (вариант для вложения в письмо).
func (h *OrderHandler) PaymentQRPNG(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	att, err := h.InvoiceService.PaymentAttachment(r.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrNoIssuer):
		http.Error(w, "no issuer configured", http.StatusConflict)
		return
	case err != nil:
		h.Logger.Errorw("payment qr png failed", "order_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+att.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(att.Data)
}
