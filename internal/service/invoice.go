package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/bank"
	"UfoShop/internal/model"
	"UfoShop/internal/pdf"
	"UfoShop/internal/qrpay"
	"UfoShop/internal/repo"
	"UfoShop/internal/storage"
)

// ErrNoIssuer — в системе нет ни одного issuer. Это ошибка конфигурации:
// ретраить бессмысленно, нужен оператор.
var ErrNoIssuer = errors.New("no issuer configured")

const invoiceDueDays = 14

// InvoiceService создаёт счета по заказам и генерирует их PDF.
type InvoiceService struct {
	invoices  repo.InvoiceRepository
	orders    repo.OrderRepository
	issuers   repo.IssuerRepository
	store     storage.Storage
	renderer  pdf.Renderer
	converter pdf.Converter
	logger    *zap.SugaredLogger

	currency  string
	recipient string
}

func NewInvoiceService(
	invoices repo.InvoiceRepository,
	orders repo.OrderRepository,
	issuers repo.IssuerRepository,
	store storage.Storage,
	renderer pdf.Renderer,
	converter pdf.Converter,
	logger *zap.SugaredLogger,
	currency, recipient string,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		orders:    orders,
		issuers:   issuers,
		store:     store,
		renderer:  renderer,
		converter: converter,
		logger:    logger,
		currency:  currency,
		recipient: recipient,
	}
}

// CreateFromOrder — идемпотентное создание счёта: на заказ всегда ровно
// один счёт, повторный вызов возвращает существующий без изменений
// (created=false). Номер: INV-<год создания>-<id заказа>. Срок оплаты:
// +14 дней. TotalAmount — снимок суммы заказа на момент создания.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, orderID int64, issuerID *int64) (*model.Invoice, bool, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("invoice: load order %d: %w", orderID, err)
	}

	issuer, err := s.pickIssuer(ctx, issuerID)
	if err != nil {
		return nil, false, err
	}

	totals := CalculateTotals(order)
	now := time.Now()
	inv := &model.Invoice{
		OrderID:     order.ID,
		IssuerID:    issuer.ID,
		Number:      fmt.Sprintf("INV-%d-%d", now.Year(), order.ID),
		TotalAmount: totals.Total,
		DueDate:     now.AddDate(0, 0, invoiceDueDays),
	}

	created, err := s.invoices.CreateIfAbsent(ctx, inv)
	if err != nil {
		return nil, false, fmt.Errorf("invoice: create for order %d: %w", orderID, err)
	}
	if !created {
		// счёт уже есть — возвращаем его как есть
		existing, err := s.invoices.GetByOrderID(ctx, orderID)
		return existing, false, err
	}
	return inv, true, nil
}

// Get отдаёт счёт по id вместе с issuer'ом.
func (s *InvoiceService) Get(ctx context.Context, invoiceID int64) (*model.Invoice, error) {
	return s.invoices.GetByID(ctx, invoiceID)
}

func (s *InvoiceService) pickIssuer(ctx context.Context, issuerID *int64) (*model.Issuer, error) {
	if issuerID != nil {
		return s.issuers.GetByID(ctx, *issuerID)
	}
	issuer, err := s.issuers.PickDefault(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoIssuer
	}
	if err != nil {
		return nil, err
	}
	return issuer, nil
}

// PayloadForOrder строит SPAYD-строку платежа по заказу. Пустая строка,
// если заказ ещё не сохранён (нет id для variable symbol). Деградированный
// номер счёта issuer'а логируется, но встраивается как есть.
func (s *InvoiceService) PayloadForOrder(order *model.Order, issuer *model.Issuer) string {
	if order == nil || order.ID == 0 {
		return ""
	}
	iban, err := bank.Convert(issuer.BankAccount)
	if err != nil {
		s.logger.Warnw("payment payload: degraded bank account, embedding as-is",
			"issuer_id", issuer.ID, "account", issuer.BankAccount, "error", err)
	}
	email := ""
	if order.User != nil {
		email = order.User.Email
	}
	totals := CalculateTotals(order)
	return qrpay.BuildPayload(qrpay.PaymentParams{
		IBAN:           iban,
		Amount:         totals.Total,
		Currency:       s.currency,
		Message:        fmt.Sprintf("Order #%d - %s", order.ID, email),
		VariableSymbol: order.ID,
		RecipientName:  s.recipient,
	})
}

// PaymentQR возвращает SPAYD-строку и data-URI <img> фрагмент для заказа.
func (s *InvoiceService) PaymentQR(ctx context.Context, orderID int64) (payload, imageTag string, err error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", "", err
	}
	issuer, err := s.pickIssuer(ctx, nil)
	if err != nil {
		return "", "", err
	}
	payload = s.PayloadForOrder(order, issuer)
	if payload == "" {
		return "", "", nil
	}
	imageTag, err = qrpay.ImageTag(payload)
	if err != nil {
		return "", "", err
	}
	return payload, imageTag, nil
}

// PaymentAttachment отдаёт компактный QR-PNG с content-ID для вложения
// в письмо о заказе. Сама отправка почты живёт вне этого сервиса.
func (s *InvoiceService) PaymentAttachment(ctx context.Context, orderID int64) (*qrpay.Attachment, error) {
	payload, _, err := s.PaymentQR(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, fmt.Errorf("order %d: no payment payload", orderID)
	}
	return qrpay.MailAttachment(payload, orderID)
}

// GeneratePDF рендерит PDF счёта и сохраняет артефакт, перезаписывая
// предыдущий. Ошибка рендера/конвертации возвращается вызывающему;
// запись счёта при этом остаётся без PDF и генерацию можно повторить.
func (s *InvoiceService) GeneratePDF(ctx context.Context, invoiceID int64) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("invoice %d: %w", invoiceID, err)
	}
	order, err := s.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return fmt.Errorf("invoice %d: load order: %w", invoiceID, err)
	}

	payload := s.PayloadForOrder(order, inv.Issuer)
	qrTag, err := qrpay.ImageTag(payload)
	if err != nil {
		return fmt.Errorf("invoice %d: payment qr: %w", invoiceID, err)
	}

	data := buildInvoiceData(inv, order, s.currency, qrTag)
	html, err := s.renderer.Render("invoice.html", data)
	if err != nil {
		return fmt.Errorf("invoice %d: %w", invoiceID, err)
	}
	bytes, err := s.converter.Convert(ctx, html)
	if err != nil {
		return fmt.Errorf("invoice %d: %w", invoiceID, err)
	}

	path := "invoices/" + inv.Number + ".pdf"
	if err := s.store.Store(ctx, path, bytes); err != nil {
		return fmt.Errorf("invoice %d: store pdf: %w", invoiceID, err)
	}
	if err := s.invoices.SetPDFPath(ctx, inv.ID, path); err != nil {
		return fmt.Errorf("invoice %d: persist pdf path: %w", invoiceID, err)
	}
	return nil
}

// ReadPDF отдаёт байты сохранённого PDF счёта.
func (s *InvoiceService) ReadPDF(ctx context.Context, invoiceID int64) ([]byte, *model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv.PDFPath == "" {
		return nil, inv, fmt.Errorf("invoice %s: %w", inv.Number, storage.ErrNotFound)
	}
	data, err := s.store.Read(ctx, inv.PDFPath)
	if err != nil {
		return nil, inv, err
	}
	return data, inv, nil
}

func buildInvoiceData(inv *model.Invoice, order *model.Order, currency, qrTag string) pdf.InvoiceData {
	totals := CalculateTotals(order)
	lines := make([]pdf.InvoiceLine, 0, len(order.Items))
	for _, li := range order.Items {
		name := fmt.Sprintf("#%d", li.ItemID)
		if li.Item != nil {
			name = li.Item.Name
		}
		lines = append(lines, pdf.InvoiceLine{
			Name:      name,
			Amount:    li.Amount,
			UnitPrice: li.UnitPrice.StringFixed(2),
			LineTotal: li.UnitPrice.Mul(decimalFromInt(li.Amount)).StringFixed(2),
		})
	}

	fee := ""
	if totals.ReceiptFee.IsPositive() {
		fee = totals.ReceiptFee.StringFixed(2)
	}

	issuer := pdf.InvoiceParty{}
	if inv.Issuer != nil {
		issuer = pdf.InvoiceParty{
			Name:        inv.Issuer.Name,
			Address:     inv.Issuer.Address,
			RegNumber:   inv.Issuer.RegNumber,
			VATNumber:   inv.Issuer.VATNumber,
			BankAccount: inv.Issuer.BankAccount,
		}
	}

	return pdf.InvoiceData{
		Invoice: pdf.InvoiceHead{
			Number:    inv.Number,
			CreatedAt: inv.CreatedAt,
			DueDate:   inv.DueDate,
		},
		Issuer:       issuer,
		Order:        pdf.OrderRef{ID: order.ID},
		Lines:        lines,
		Subtotal:     totals.Subtotal.StringFixed(2),
		ShippingCost: totals.ShippingCost.StringFixed(2),
		ReceiptFee:   fee,
		Total:        totals.Total.StringFixed(2),
		Currency:     currency,
		QRImage:      template.HTML(qrTag),
	}
}
