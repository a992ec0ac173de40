package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/guard"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
	"github.com/Skotchmaster/commerce/services/commerce/internal/pricing"
	"github.com/Skotchmaster/commerce/services/commerce/internal/repo"
	"github.com/Skotchmaster/commerce/services/commerce/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
	// Cache is nil when prices are read straight from the database.
	Cache pricing.Invalidator
}

// normalizePrice truncates to cents: 12.129 becomes 12.12.
func normalizePrice(p decimal.Decimal) (decimal.Decimal, error) {
	if p.IsNegative() {
		return decimal.Zero, domain.Validation("price cannot be negative")
	}
	return p.Truncate(2), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("product")
	}
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, actor domain.Actor, req transport.CreateProductRequest) (*models.Product, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Validation("name is required")
	}
	price, err := normalizePrice(req.Price)
	if err != nil {
		return nil, err
	}

	return s.Repo.CreateProduct(ctx, &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Count:       req.Count,
	})
}

func (s *CatalogService) PatchProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, domain.Validation("name cannot be empty")
	}
	if req.Price != nil {
		price, err := normalizePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		req.Price = &price
	}

	p, err := s.Repo.PatchProduct(ctx, id, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("product")
	}
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		s.invalidate(ctx, id)
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := guard.RequireAdmin(actor); err != nil {
		return err
	}

	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("product")
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("price_cache_invalidate_error", "product_id", id, "error", err)
	}
}
