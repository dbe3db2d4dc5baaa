package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"UfoShop/internal/model"
	"UfoShop/internal/repo"
)

// IssuerService управляет реквизитами и дефолтным issuer'ом.
type IssuerService struct {
	issuers repo.IssuerRepository
}

func NewIssuerService(issuers repo.IssuerRepository) *IssuerService {
	return &IssuerService{issuers: issuers}
}

// Create сохраняет issuer. Первый в системе автоматически становится
// дефолтным, чтобы создание счетов заработало без лишнего шага.
func (s *IssuerService) Create(ctx context.Context, issuer *model.Issuer) error {
	_, err := s.issuers.PickDefault(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		issuer.IsDefault = true
	} else if err != nil {
		return err
	}
	return s.issuers.Create(ctx, issuer)
}

// SetDefault — явная операция переключения дефолта (одна транзакция).
func (s *IssuerService) SetDefault(ctx context.Context, id int64) error {
	return s.issuers.SetDefault(ctx, id)
}

// Default возвращает текущий issuer по правилу default -> любой -> ErrNoIssuer.
func (s *IssuerService) Default(ctx context.Context) (*model.Issuer, error) {
	issuer, err := s.issuers.PickDefault(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoIssuer
	}
	return issuer, err
}

func (s *IssuerService) List(ctx context.Context) ([]model.Issuer, error) {
	return s.issuers.List(ctx)
}
