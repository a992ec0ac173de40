package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/commerce/pkg/db"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
)

func cartByUser(userID uuid.UUID) func(*gorm.DB) (*models.Cart, error) {
	return func(tx *gorm.DB) (*models.Cart, error) {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
}

func productExists(tx *gorm.DB, productID uuid.UUID) error {
	var n int64
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("product")
	}
	return nil
}

func (r *GormRepo) FindCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return cartByUser(userID)(r.DB.WithContext(ctx))
}

// ListCarts returns the owner's carts with their lines; at most one exists.
func (r *GormRepo) ListCarts(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_id") }).
		Where("user_id = ?", userID).
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *GormRepo) CartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return cartItems(r.DB.WithContext(ctx), cartID)
}

func cartItems(tx *gorm.DB, cartID uuid.UUID) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := tx.Where("cart_id = ?", cartID).Order("product_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem adds quantity of product to the owner's cart, creating the cart
// and the line as needed. Returns the cart with its current lines.
func (r *GormRepo) AddCartItem(ctx context.Context, userID, productID uuid.UUID, quantity uint) (*models.Cart, error) {
	var cart *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productExists(tx, productID); err != nil {
			return err
		}

		c, _, err := findOrCreate(tx, cartByUser(userID), func() *models.Cart {
			return &models.Cart{UserID: userID}
		})
		if err != nil {
			return err
		}
		// serializes with PlaceOrder, which empties the cart under the same lock
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", c.ID).First(c).Error; err != nil {
			return err
		}

		if err := incrementLine(tx, c.ID, productID, quantity); err != nil {
			return err
		}

		if c.Items, err = cartItems(tx, c.ID); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// incrementLine bumps an existing (cart, product) line or inserts it. An
// insert that collides with a concurrent one turns into another increment.
func incrementLine(tx *gorm.DB, cartID, productID uuid.UUID, quantity uint) error {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}).Error
		})
		if err == nil || !db.IsUniqueViolation(err) {
			return err
		}
	}
	return ErrContention
}

// RemoveOneCartItem decrements the line by one and deletes it when the last
// unit goes. gorm.ErrRecordNotFound when the owner has no such line.
func (r *GormRepo) RemoveOneCartItem(ctx context.Context, userID, productID uuid.UUID) (bool, *models.CartItem, error) {
	var item models.CartItem
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cartByUser(userID)(tx)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error; err != nil {
			return err
		}

		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			item.Quantity--
			return nil
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		item.Quantity = 0
		deleted = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

// ClearCart removes every line of the owner's cart; the cart row stays.
func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("cart_id IN (?)", r.DB.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
