package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"UfoShop/internal/config"
	"UfoShop/internal/handlers"
	"UfoShop/internal/model"
	"UfoShop/internal/pdf"
	"UfoShop/internal/repo"
	"UfoShop/internal/service"
	"UfoShop/internal/storage"
)

// noopConverter заменяет wkhtmltopdf в HTTP-тестах.
type noopConverter struct{}

func (noopConverter) Convert(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

type testEnv struct {
	router http.Handler
	db     *gorm.DB
	store  storage.Storage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	fs, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	renderer, err := pdf.NewTemplateRenderer()
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	cfg := &config.Config{UploadMaxMB: 1, Currency: "CZK", QRRecipient: "Mates-UfoShop"}

	invoices := repo.NewInvoiceRepository(db)
	orders := repo.NewOrderRepository(db)
	issuers := repo.NewIssuerRepository(db)

	invoiceSvc := service.NewInvoiceService(invoices, orders, issuers, fs, renderer, noopConverter{}, logger, cfg.Currency, cfg.QRRecipient)
	orderSvc := service.NewOrderService(orders, invoiceSvc, logger)
	pictureSvc := service.NewPictureService(repo.NewPictureRepository(db), fs, logger)
	itemSvc := service.NewItemService(repo.NewItemRepository(db))
	issuerSvc := service.NewIssuerService(issuers)

	h := handlers.NewHandler(itemSvc, pictureSvc, orderSvc, invoiceSvc, issuerSvc, logger, cfg)
	return &testEnv{router: h.Router, db: db, store: fs}
}

func (e *testEnv) seedUser(t *testing.T) *model.User {
	t.Helper()
	u := model.User{Email: "a@b.com"}
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *testEnv) seedItem(t *testing.T, merchID int64, name, price string) *model.Item {
	t.Helper()
	it := model.Item{Name: name, MerchandiserID: merchID, Price: decimal.RequireFromString(price)}
	require.NoError(t, e.db.Create(&it).Error)
	return &it
}

func (e *testEnv) seedIssuer(t *testing.T) *model.Issuer {
	t.Helper()
	iss := model.Issuer{
		Name:        "Mates-UfoShop",
		BankAccount: "670100-2210457032/6210",
		IsDefault:   true,
	}
	require.NoError(t, e.db.Create(&iss).Error)
	return &iss
}

func (e *testEnv) seedCart(t *testing.T, userID, itemID int64, amount int, price string) *model.Order {
	t.Helper()
	o := model.Order{UserID: userID, Status: model.StatusInCart}
	require.NoError(t, e.db.Create(&o).Error)
	require.NoError(t, e.db.Create(&model.OrderItem{
		OrderID: o.ID, ItemID: itemID, Amount: amount,
		UnitPrice: decimal.RequireFromString(price),
	}).Error)
	return &o
}

func do(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartPicture собирает multipart-форму с файлом `picture`.
func multipartPicture(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("picture", fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}
