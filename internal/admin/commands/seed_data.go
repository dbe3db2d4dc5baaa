package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"UfoShop/internal/model"
)

type seedDataCmd struct{}

func init() { RegisterCmd(seedDataCmd{}) }

func (seedDataCmd) Name() string        { return "seed-data" }
func (seedDataCmd) Description() string { return "populate demo merchandiser, categories and items" }
func (seedDataCmd) Usage() string       { return "seed-data" }

// Run наполняет витрину демо-данными. Повторный запуск безопасен:
// записи ищутся по уникальным полям через FirstOrCreate.
func (seedDataCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	db := env.DB.WithContext(ctx)

	merch := model.User{Email: "merch@ufoshop.local", IsMerchandiser: true}
	if err := db.Where(model.User{Email: merch.Email}).FirstOrCreate(&merch).Error; err != nil {
		return fmt.Errorf("seed merchandiser: %w", err)
	}

	var cats []model.Category
	for _, name := range []string{"Models", "Toys"} {
		c := model.Category{Name: name}
		if err := db.Where(model.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		cats = append(cats, c)
	}

	issuer := model.Issuer{
		Name:        "Mates-UfoShop",
		BankAccount: "670100-2210457032/6210",
	}
	var existing model.Issuer
	err := db.Where(model.Issuer{Name: issuer.Name}).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := env.Issuers.Create(ctx, &issuer); err != nil {
			return fmt.Errorf("seed issuer: %w", err)
		}
	case err != nil:
		return fmt.Errorf("seed issuer lookup: %w", err)
	}

	seedItems := []struct {
		name  string
		price string
		short string
		cat   model.Category
	}{
		{"UFO Model X", "99.99", "classic saucer", cats[0]},
		{"Alien Plush Toy", "24.99", "soft and green", cats[1]},
	}
	created := 0
	for _, si := range seedItems {
		var found model.Item
		err := db.Where(model.Item{Name: si.name, MerchandiserID: merch.ID}).First(&found).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed item %s lookup: %w", si.name, err)
		}
		item := &model.Item{
			Name:             si.name,
			MerchandiserID:   merch.ID,
			Price:            decimal.RequireFromString(si.price),
			ShortDescription: si.short,
			Categories:       []model.Category{si.cat},
		}
		if err := env.Items.Create(ctx, item); err != nil {
			return fmt.Errorf("seed item %s: %w", si.name, err)
		}
		created++
	}

	fmt.Fprintf(Out, "seeded: merchandiser %d, %d categories, %d new items\n", merch.ID, len(cats), created)
	return nil
}
