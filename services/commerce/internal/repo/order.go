package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
)

// ErrCartChanged means the cart lines no longer match the snapshot the order
// was priced from.
var ErrCartChanged = errors.New("repo: cart changed since snapshot")

// PlaceOrder persists order and its lines and empties the cart in one
// transaction. The cart row and its lines are locked first so conversions and
// adds for one owner serialize; the losing conversion finds no lines. Only the
// lines matched against snapshot are deleted.
func (r *GormRepo) PlaceOrder(ctx context.Context, cartID uuid.UUID, snapshot []models.CartItem, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("cart")
			}
			return err
		}

		current, err := cartItems(tx.Clauses(clause.Locking{Strength: "UPDATE"}), cartID)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return domain.NotFound("cart items")
		}
		if !sameLines(current, snapshot) {
			return ErrCartChanged
		}

		lines := order.Items
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		order.Items = lines

		ids := make([]uuid.UUID, len(current))
		for i, it := range current {
			ids[i] = it.ID
		}
		return tx.Where("id IN ?", ids).Delete(&models.CartItem{}).Error
	})
}

func sameLines(a, b []models.CartItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

func (r *GormRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_id") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the owner's orders whose status contains status
// literally, newest first. An empty status matches everything.
func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, status string) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where(`status LIKE ? ESCAPE '\'`, containsPattern(status))
	}

	orders := make([]models.Order, 0)
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		order.Status = status
		return tx.Where("order_id = ?", id).Order("product_id").Find(&order.Items).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
