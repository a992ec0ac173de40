package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

func ValidStatus(s string) bool {
	for _, st := range orderStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Count       uint            `gorm:"not null;default:0"          json:"count"`
}

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"                json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"      json:"user_id"`
	CreatedAt time.Time  `gorm:"not null"                            json:"created_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                 json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null"      json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null"      json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity > 0"                json:"quantity"`
}

type Wishlist struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time      `gorm:"not null"                       json:"created_at"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                                json:"id"`
	WishlistID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_product;not null" json:"wishlist_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_product;not null" json:"product_id"`
}

// Order is immutable after creation apart from Status.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"    json:"user_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        OrderStatus     `gorm:"type:varchar(16);not null"   json:"status"`
	PaymentMethod string          `gorm:"not null"                    json:"payment_method"`
	CreatedAt     time.Time       `gorm:"index;not null"              json:"created_at"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem.Price is unit price times quantity, frozen when the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"          json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Product) BeforeCreate(tx *gorm.DB) error      { newID(&p.ID); return nil }
func (c *Cart) BeforeCreate(tx *gorm.DB) error         { newID(&c.ID); return nil }
func (c *CartItem) BeforeCreate(tx *gorm.DB) error     { newID(&c.ID); return nil }
func (w *Wishlist) BeforeCreate(tx *gorm.DB) error     { newID(&w.ID); return nil }
func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error { newID(&w.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error        { newID(&o.ID); return nil }
func (o *OrderItem) BeforeCreate(tx *gorm.DB) error    { newID(&o.ID); return nil }

func (Product) TableName() string      { return "products" }
func (Cart) TableName() string         { return "carts" }
func (CartItem) TableName() string     { return "cart_items" }
func (Wishlist) TableName() string     { return "wishlists" }
func (WishlistItem) TableName() string { return "wishlist_items" }
func (Order) TableName() string        { return "orders" }
func (OrderItem) TableName() string    { return "order_items" }

// All lists the tables in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Product{},
		&Cart{}, &CartItem{},
		&Wishlist{}, &WishlistItem{},
		&Order{}, &OrderItem{},
	}
}
