package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/guard"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
	"github.com/Skotchmaster/commerce/services/commerce/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddItem adds quantity units of product to the actor's cart. Repeated adds
// of one product accumulate on a single line. Storage failures other than
// domain errors surface as domain.ErrTransaction.
func (s *CartService) AddItem(ctx context.Context, actor domain.Actor, productID uuid.UUID, quantity uint) (*models.Cart, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, domain.Validation("product_id is required")
	}
	if quantity == 0 {
		return nil, domain.Validation("quantity must be more than zero")
	}

	cart, err := s.Repo.AddCartItem(ctx, actor.ID, productID, quantity)
	if err != nil {
		if domain.IsDomain(err) {
			return nil, err
		}
		logging.FromContext(ctx).Error("add_cart_item_error", "user_id", actor.ID, "error", err)
		return nil, domain.ErrTransaction
	}
	return cart, nil
}

func (s *CartService) ListCarts(ctx context.Context, actor domain.Actor) ([]models.Cart, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListCarts(ctx, actor.ID)
}

// GetItems returns the lines of the actor's cart; no cart reads as no lines.
func (s *CartService) GetItems(ctx context.Context, actor domain.Actor) ([]models.CartItem, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}

	cart, err := s.Repo.FindCart(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.CartItems(ctx, cart.ID)
}

func (s *CartService) RemoveOne(ctx context.Context, actor domain.Actor, productID uuid.UUID) (bool, *models.CartItem, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return false, nil, err
	}
	if productID == uuid.Nil {
		return false, nil, domain.Validation("product_id is required")
	}

	deleted, item, err := s.Repo.RemoveOneCartItem(ctx, actor.ID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, domain.NotFound("cart item")
	}
	return deleted, item, err
}

func (s *CartService) Clear(ctx context.Context, actor domain.Actor) (int64, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return 0, err
	}
	return s.Repo.ClearCart(ctx, actor.ID)
}
