package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"UfoShop/internal/config"
	"UfoShop/internal/middleware"
	"UfoShop/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	itemService *service.ItemService,
	pictureService *service.PictureService,
	orderService *service.OrderService,
	invoiceService *service.InvoiceService,
	issuerService *service.IssuerService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	itemHandler := NewItemHandler(itemService, logger)
	pictureHandler := NewPictureHandler(pictureService, logger, config)
	orderHandler := NewOrderHandler(orderService, invoiceService, logger)
	invoiceHandler := NewInvoiceHandler(invoiceService, issuerService, logger)

	// Item routes
	r.Post("/api/items", itemHandler.Create)
	r.Get("/api/items", itemHandler.List)
	r.Get("/api/items/{id}", itemHandler.Get)
	r.Post("/api/items/{id}/variants", itemHandler.CreateVariant)

	// Picture routes
	r.Post("/api/items/{id}/pictures", pictureHandler.Upload)
	r.Delete("/api/pictures/{id}", pictureHandler.Delete)
	r.Post("/api/pictures/{id}/regenerate", pictureHandler.Regenerate)

	// Order routes
	r.Post("/api/orders/{id}/checkout", orderHandler.Checkout)
	r.Get("/api/orders/{id}", orderHandler.Get)
	r.Get("/api/orders/{id}/payment-qr", orderHandler.PaymentQR)
	r.Get("/api/orders/{id}/payment-qr.png", orderHandler.PaymentQRPNG)

	// Invoice / issuer routes
	r.Post("/api/orders/{id}/invoice", invoiceHandler.CreateForOrder)
	r.Get("/api/invoices/{id}/pdf", invoiceHandler.DownloadPDF)
	r.Post("/api/issuers", invoiceHandler.CreateIssuer)
	r.Post("/api/issuers/{id}/default", invoiceHandler.SetDefaultIssuer)

	return &Handler{Router: r}
}

// urlID достаёт числовой {id} из пути.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
