package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"UfoShop/internal/model"
	"UfoShop/internal/pdf"
	"UfoShop/internal/repo"
	"UfoShop/internal/storage"
)

// stubConverter подменяет wkhtmltopdf в тестах.
type stubConverter struct {
	fail  bool
	calls int
}

func (c *stubConverter) Convert(_ context.Context, html string) ([]byte, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("converter crashed")
	}
	return []byte("%PDF-1.4 " + html[:20]), nil
}

type invoiceFixture struct {
	svc     *InvoiceService
	db      *gorm.DB
	store   *storage.FS
	conv    *stubConverter
	orderID int64
}

func newInvoiceFixture(t *testing.T, seedIssuer bool) *invoiceFixture {
	t.Helper()
	db := newTestDB(t)

	renderer, err := pdf.NewTemplateRenderer()
	require.NoError(t, err)
	store, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	conv := &stubConverter{}

	svc := NewInvoiceService(
		repo.NewInvoiceRepository(db),
		repo.NewOrderRepository(db),
		repo.NewIssuerRepository(db),
		store,
		renderer,
		conv,
		zap.NewNop().Sugar(),
		"CZK",
		"Mates-UfoShop",
	)

	user := model.User{Email: "a@b.com"}
	require.NoError(t, db.Create(&user).Error)
	itemA := model.Item{Name: "UFO Model X", MerchandiserID: user.ID, Price: decimal.RequireFromString("99.99")}
	itemB := model.Item{Name: "Alien Plush Toy", MerchandiserID: user.ID, Price: decimal.RequireFromString("24.99")}
	require.NoError(t, db.Create(&itemA).Error)
	require.NoError(t, db.Create(&itemB).Error)

	// фиксированный id, чтобы X-VS и MSG были предсказуемыми
	order := model.Order{ID: 42, UserID: user.ID, Status: model.StatusOrdered}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&model.OrderItem{OrderID: order.ID, ItemID: itemA.ID, Amount: 1, UnitPrice: itemA.Price}).Error)
	require.NoError(t, db.Create(&model.OrderItem{OrderID: order.ID, ItemID: itemB.ID, Amount: 2, UnitPrice: itemB.Price}).Error)

	if seedIssuer {
		issuer := model.Issuer{
			Name:        "Mates-UfoShop",
			Address:     "Vesmírná 1, Praha",
			BankAccount: "670100-2210457032/6210",
			IsDefault:   true,
		}
		require.NoError(t, db.Create(&issuer).Error)
	}

	return &invoiceFixture{svc: svc, db: db, store: store, conv: conv, orderID: order.ID}
}

func TestInvoiceService_CreateFromOrder_Idempotent(t *testing.T) {
	f := newInvoiceFixture(t, true)
	ctx := context.Background()

	first, created, err := f.svc.CreateFromOrder(ctx, f.orderID, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, fmt.Sprintf("INV-%d-42", time.Now().Year()), first.Number)
	assert.Equal(t, "149.97", first.TotalAmount.StringFixed(2))
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), first.DueDate, 2*time.Second)

	second, createdAgain, err := f.svc.CreateFromOrder(ctx, f.orderID, nil)
	require.NoError(t, err)
	assert.False(t, createdAgain, "repeat call must report the existing invoice")
	assert.Equal(t, first.ID, second.ID, "same invoice identity on repeat")

	var count int64
	require.NoError(t, f.db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceService_CreateFromOrder_NoIssuer(t *testing.T) {
	f := newInvoiceFixture(t, false)
	_, _, err := f.svc.CreateFromOrder(context.Background(), f.orderID, nil)
	assert.ErrorIs(t, err, ErrNoIssuer)
}

func TestInvoiceService_PayloadGolden(t *testing.T) {
	f := newInvoiceFixture(t, true)
	ctx := context.Background()

	payload, tag, err := f.svc.PaymentQR(ctx, f.orderID)
	require.NoError(t, err)
	want := "SPD*1.0*ACC:CZ6762106701002210457032*AM:149.97*CC:CZK*MSG:Order #42 - a@b.com*X-VS:42*RN:Mates-UfoShop"
	assert.Equal(t, want, payload)
	assert.Contains(t, tag, "data:image/png;base64,")
}

func TestInvoiceService_PayloadForUnsavedOrder(t *testing.T) {
	f := newInvoiceFixture(t, true)
	issuer := &model.Issuer{BankAccount: "670100-2210457032/6210"}
	assert.Equal(t, "", f.svc.PayloadForOrder(&model.Order{}, issuer))
	assert.Equal(t, "", f.svc.PayloadForOrder(nil, issuer))
}

func TestInvoiceService_GeneratePDF_StoresAndOverwrites(t *testing.T) {
	f := newInvoiceFixture(t, true)
	ctx := context.Background()

	inv, _, err := f.svc.CreateFromOrder(ctx, f.orderID, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.GeneratePDF(ctx, inv.ID))

	data, got, err := f.svc.ReadPDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoices/"+inv.Number+".pdf", got.PDFPath)
	assert.Contains(t, string(data), "%PDF-1.4")

	// регенерация перезаписывает артефакт
	require.NoError(t, f.svc.GeneratePDF(ctx, inv.ID))
	assert.Equal(t, 2, f.conv.calls)
}

func TestInvoiceService_GeneratePDF_FailureLeavesRowRetryable(t *testing.T) {
	f := newInvoiceFixture(t, true)
	ctx := context.Background()

	inv, _, err := f.svc.CreateFromOrder(ctx, f.orderID, nil)
	require.NoError(t, err)

	f.conv.fail = true
	assert.Error(t, f.svc.GeneratePDF(ctx, inv.ID))

	// запись счёта на месте, PDF нет — можно повторить
	again, created, err := f.svc.CreateFromOrder(ctx, f.orderID, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, inv.ID, again.ID)
	assert.Empty(t, again.PDFPath)

	f.conv.fail = false
	require.NoError(t, f.svc.GeneratePDF(ctx, inv.ID))
	_, got, err := f.svc.ReadPDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.PDFPath)
}
