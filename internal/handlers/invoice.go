package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/model"
	"UfoShop/internal/service"
	"UfoShop/internal/storage"
)

// InvoiceHandler обрабатывает выставление счетов и реквизиты.
type InvoiceHandler struct {
	InvoiceService *service.InvoiceService
	IssuerService  *service.IssuerService
	Logger         *zap.SugaredLogger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, issuerService *service.IssuerService, logger *zap.SugaredLogger) *InvoiceHandler {
	return &InvoiceHandler{InvoiceService: invoiceService, IssuerService: issuerService, Logger: logger}
}

type InvoiceDTO struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	Number      string `json:"number"`
	TotalAmount string `json:"total_amount"`
	DueDate     string `json:"due_date"`
	PDFPath     string `json:"pdf_path,omitempty"`
}

func invoiceToDTO(inv *model.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:          inv.ID,
		OrderID:     inv.OrderID,
		Number:      inv.Number,
		TotalAmount: inv.TotalAmount.StringFixed(2),
		DueDate:     inv.DueDate.UTC().Format(time.RFC3339),
		PDFPath:     inv.PDFPath,
	}
}

// CreateForOrder выставляет счёт по заказу {id}. Идемпотентно: повторный
// вызов отдаёт существующий счёт с кодом 200 вместо 201. PDF генерируется
// best-effort, его ошибка не отменяет счёт.
func (h *InvoiceHandler) CreateForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req struct {
		IssuerID *int64 `json:"issuer_id,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
	}

	inv, created, err := h.InvoiceService.CreateFromOrder(r.Context(), orderID, req.IssuerID)
	switch {
	case errors.Is(err, service.ErrNoIssuer):
		http.Error(w, "no issuer configured", http.StatusConflict)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case err != nil:
		h.Logger.Errorw("invoice: create failed", "order_id", orderID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if inv.PDFPath == "" {
		if err := h.InvoiceService.GeneratePDF(r.Context(), inv.ID); err != nil {
			h.Logger.Warnw("invoice: PDF generation failed, retry later",
				"invoice_id", inv.ID, "error", err)
		} else if fresh, err := h.InvoiceService.Get(r.Context(), inv.ID); err == nil {
			inv = fresh
		}
	}
	writeJSON(w, status, invoiceToDTO(inv))
}

// DownloadPDF отдаёт сохранённый PDF счёта.
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}
	data, inv, err := h.InvoiceService.ReadPDF(r.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, storage.ErrNotFound):
		http.Error(w, "invoice pdf not found", http.StatusNotFound)
		return
	case err != nil:
		h.Logger.Errorw("invoice: read pdf failed", "invoice_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// IssuerRequest — тело создания реквизитов.
type IssuerRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	RegNumber   string `json:"reg_number,omitempty"`
	VATNumber   string `json:"vat_number,omitempty"`
	BankAccount string `json:"bank_account"`
}

type IssuerDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BankAccount string `json:"bank_account"`
	IsDefault   bool   `json:"is_default"`
}

// CreateIssuer сохраняет реквизиты. Первый issuer становится дефолтным.
func (h *InvoiceHandler) CreateIssuer(w http.ResponseWriter, r *http.Request) {
	var req IssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.BankAccount == "" {
		http.Error(w, "missing name or bank_account", http.StatusBadRequest)
		return
	}
	issuer := &model.Issuer{
		Name:        req.Name,
		Address:     req.Address,
		RegNumber:   req.RegNumber,
		VATNumber:   req.VATNumber,
		BankAccount: req.BankAccount,
	}
	if err := h.IssuerService.Create(r.Context(), issuer); err != nil {
		h.Logger.Errorw("issuer: create failed", "name", req.Name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, IssuerDTO{
		ID:          issuer.ID,
		Name:        issuer.Name,
		BankAccount: issuer.BankAccount,
		IsDefault:   issuer.IsDefault,
	})
}

// SetDefaultIssuer делает issuer {id} дефолтным.
func (h *InvoiceHandler) SetDefaultIssuer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid issuer id", http.StatusBadRequest)
		return
	}
	err = h.IssuerService.SetDefault(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "issuer not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Errorw("issuer: set default failed", "issuer_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
