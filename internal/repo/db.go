package repo

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"UfoShop/internal/model"
)

// InitDB открывает Postgres и накатывает миграции доменных моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate выполняет AutoMigrate для всех моделей магазина.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Location{},
		&model.Category{},
		&model.Item{},
		&model.Picture{},
		&model.Order{},
		&model.OrderItem{},
		&model.Issuer{},
		&model.Invoice{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
