package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"UfoShop/internal/admin/commands"
	"UfoShop/internal/config"
	"UfoShop/internal/repo"
	"UfoShop/internal/service"
	"UfoShop/internal/storage"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	env := &commands.Env{
		DB:       gormDB,
		Items:    service.NewItemService(repo.NewItemRepository(gormDB)),
		Pictures: service.NewPictureService(repo.NewPictureRepository(gormDB), store, sugar),
		Issuers:  service.NewIssuerService(repo.NewIssuerRepository(gormDB)),
		Logger:   sugar,
	}

	exitCode := commands.Dispatch(ctx, env, flag.Args())
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}
