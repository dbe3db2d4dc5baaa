package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"UfoShop/internal/model"
	"UfoShop/internal/repo"
)

// receiptFeeRate — процентная надбавка за выдачу чека (7%).
var receiptFeeRate = decimal.RequireFromString("0.07")

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// Totals — результат пересчёта сумм заказа.
type Totals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	ReceiptFee   decimal.Decimal
	Total        decimal.Decimal
}

// CalculateTotals пересчитывает суммы из текущих строк заказа. Чистая
// функция: два вызова подряд без изменения строк дают одинаковый результат.
// Доставка сейчас всегда 0 — это политика, а не недоделка.
func CalculateTotals(o *model.Order) Totals {
	subtotal := decimal.Zero
	for _, line := range o.Items {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimalFromInt(line.Amount)))
	}
	shipping := decimal.Zero
	fee := decimal.Zero
	if o.NeedsReceipt {
		fee = subtotal.Mul(receiptFeeRate)
	}
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		ReceiptFee:   fee,
		Total:        subtotal.Add(shipping).Add(fee),
	}
}

// InvoiceCreator — то, что OrderService зовёт best-effort при checkout.
type InvoiceCreator interface {
	CreateFromOrder(ctx context.Context, orderID int64, issuerID *int64) (*model.Invoice, bool, error)
	GeneratePDF(ctx context.Context, invoiceID int64) error
}

// OrderService инкапсулирует работу с заказом: пересчёт сумм и checkout.
type OrderService struct {
	orders   repo.OrderRepository
	invoices InvoiceCreator // может быть nil: заказ без фактуры тоже валиден
	logger   *zap.SugaredLogger
}

func NewOrderService(orders repo.OrderRepository, invoices InvoiceCreator, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{orders: orders, invoices: invoices, logger: logger}
}

// Get отдаёт заказ со строками и пользователем.
func (s *OrderService) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// Recalculate пересчитывает и сохраняет суммы заказа. Повторные вызовы
// без изменения строк безопасны.
func (s *OrderService) Recalculate(ctx context.Context, orderID int64) (Totals, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return Totals{}, fmt.Errorf("recalculate order %d: %w", orderID, err)
	}
	t := CalculateTotals(order)
	if err := s.orders.SaveTotals(ctx, orderID, t.Subtotal, t.ShippingCost, t.ReceiptFee, t.Total); err != nil {
		return Totals{}, fmt.Errorf("save totals for order %d: %w", orderID, err)
	}
	return t, nil
}

// Checkout переводит корзину в заказ. Суммы пересчитываются перед
// переходом. Выставление счёта и PDF — best-effort: их ошибки логируются,
// но заказ всё равно становится ordered (можно перевыставить позже).
func (s *OrderService) Checkout(ctx context.Context, orderID int64) (*model.Order, error) {
	if _, err := s.Recalculate(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.orders.TransitionStatus(ctx, orderID, model.StatusInCart, model.StatusOrdered); err != nil {
		return nil, fmt.Errorf("checkout order %d: %w", orderID, err)
	}

	if s.invoices != nil {
		inv, _, err := s.invoices.CreateFromOrder(ctx, orderID, nil)
		if err != nil {
			s.logger.Errorw("checkout: invoice creation failed, order stays ordered",
				"order_id", orderID, "error", err)
		} else if err := s.invoices.GeneratePDF(ctx, inv.ID); err != nil {
			s.logger.Warnw("checkout: invoice PDF generation failed, retry later",
				"order_id", orderID, "invoice_id", inv.ID, "error", err)
		}
	}

	return s.orders.GetByID(ctx, orderID)
}

// MarkPaid / MarkShipped / MarkFulfilled — монотонные переходы статуса.
func (s *OrderService) MarkPaid(ctx context.Context, orderID int64) error {
	return s.orders.TransitionStatus(ctx, orderID, model.StatusOrdered, model.StatusPaid)
}

func (s *OrderService) MarkShipped(ctx context.Context, orderID int64) error {
	return s.orders.TransitionStatus(ctx, orderID, model.StatusPaid, model.StatusShipped)
}

func (s *OrderService) MarkFulfilled(ctx context.Context, orderID int64) error {
	return s.orders.TransitionStatus(ctx, orderID, model.StatusShipped, model.StatusFulfilled)
}

// Cancel разрешён из любого незавершённого статуса.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	switch order.Status {
	case model.StatusFulfilled, model.StatusCancelled:
		return repo.ErrStatusConflict
	}
	return s.orders.TransitionStatus(ctx, orderID, order.Status, model.StatusCancelled)
}
