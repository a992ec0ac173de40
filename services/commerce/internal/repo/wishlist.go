package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/commerce/pkg/db"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
)

func wishlistByUser(userID uuid.UUID) func(*gorm.DB) (*models.Wishlist, error) {
	return func(tx *gorm.DB) (*models.Wishlist, error) {
		var w models.Wishlist
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
}

func (r *GormRepo) FindWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	return wishlistByUser(userID)(r.DB.WithContext(ctx))
}

// AddWishlistItem puts product on the owner's wishlist. A product already on
// the list is a domain.ErrDuplicateEntry, including when a concurrent add
// wins the unique index.
func (r *GormRepo) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*models.Wishlist, error) {
	var wishlist *models.Wishlist
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productExists(tx, productID); err != nil {
			return err
		}

		w, _, err := findOrCreate(tx, wishlistByUser(userID), func() *models.Wishlist {
			return &models.Wishlist{UserID: userID}
		})
		if err != nil {
			return err
		}

		var existing models.WishlistItem
		err = tx.Where("wishlist_id = ? AND product_id = ?", w.ID, productID).First(&existing).Error
		switch {
		case err == nil:
			return domain.Duplicate("wishlist item already exists")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&models.WishlistItem{WishlistID: w.ID, ProductID: productID}).Error
		})
		if db.IsUniqueViolation(err) {
			return domain.Duplicate("wishlist item already exists")
		}
		if err != nil {
			return err
		}

		wishlist = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wishlist, nil
}

func (r *GormRepo) WishlistItems(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	items := make([]models.WishlistItem, 0)
	err := r.DB.WithContext(ctx).
		Where("wishlist_id IN (?)", r.DB.Model(&models.Wishlist{}).Select("id").Where("user_id = ?", userID)).
		Order("product_id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveWishlistItem returns gorm.ErrRecordNotFound when the product is not
// on the owner's list.
func (r *GormRepo) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("product_id = ? AND wishlist_id IN (?)", productID,
			r.DB.Model(&models.Wishlist{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
