package main

import (
	"net/http"

	"go.uber.org/zap"

	"UfoShop/internal/config"
	"UfoShop/internal/handlers"
	"UfoShop/internal/middleware"
	"UfoShop/internal/pdf"
	"UfoShop/internal/repo"
	"UfoShop/internal/service"
	"UfoShop/internal/storage"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	var store storage.Storage
	switch cfg.StorageBackend {
	case "cloudinary":
		store, err = storage.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			sugar.Fatalw("failed to initialize cloudinary storage", "error", err)
		}
	default:
		store, err = storage.NewFS(cfg.MediaRoot)
		if err != nil {
			sugar.Fatalw("failed to initialize fs storage", "root", cfg.MediaRoot, "error", err)
		}
	}

	renderer, err := pdf.NewTemplateRenderer()
	if err != nil {
		sugar.Fatalw("failed to load invoice templates", "error", err)
	}
	converter := pdf.NewWKConverter(cfg.WKHTMLToPDFBin)

	// Repositories
	itemRepo := repo.NewItemRepository(gormDB)
	pictureRepo := repo.NewPictureRepository(gormDB)
	orderRepo := repo.NewOrderRepository(gormDB)
	invoiceRepo := repo.NewInvoiceRepository(gormDB)
	issuerRepo := repo.NewIssuerRepository(gormDB)

	// Services
	itemService := service.NewItemService(itemRepo)
	pictureService := service.NewPictureService(pictureRepo, store, sugar)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, issuerRepo,
		store, renderer, converter, sugar, cfg.Currency, cfg.QRRecipient)
	orderService := service.NewOrderService(orderRepo, invoiceService, sugar)
	issuerService := service.NewIssuerService(issuerRepo)

	h := handlers.NewHandler(itemService, pictureService, orderService, invoiceService, issuerService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"StorageBackend", cfg.StorageBackend,
		"Currency", cfg.Currency,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
