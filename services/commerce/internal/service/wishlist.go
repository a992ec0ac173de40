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

type WishlistService struct {
	Repo *repo.GormRepo
}

// Add puts product on the actor's wishlist, creating the list on first use.
// Storage failures other than domain errors surface as domain.ErrTransaction.
func (s *WishlistService) Add(ctx context.Context, actor domain.Actor, productID uuid.UUID) (*models.Wishlist, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, domain.Validation("product_id is required")
	}

	w, err := s.Repo.AddWishlistItem(ctx, actor.ID, productID)
	if err != nil {
		if domain.IsDomain(err) {
			return nil, err
		}
		logging.FromContext(ctx).Error("add_wishlist_item_error", "user_id", actor.ID, "error", err)
		return nil, domain.ErrTransaction
	}
	return w, nil
}

func (s *WishlistService) Items(ctx context.Context, actor domain.Actor) ([]models.WishlistItem, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	return s.Repo.WishlistItems(ctx, actor.ID)
}

func (s *WishlistService) Remove(ctx context.Context, actor domain.Actor, productID uuid.UUID) error {
	if err := guard.RequireOwner(actor); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return domain.Validation("product_id is required")
	}

	err := s.Repo.RemoveWishlistItem(ctx, actor.ID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("wishlist item")
	}
	return err
}
