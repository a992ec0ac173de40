package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/commerce/pkg/events"
	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/pkg/metrics"
	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
	"github.com/Skotchmaster/commerce/services/commerce/internal/guard"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
	"github.com/Skotchmaster/commerce/services/commerce/internal/pricing"
	"github.com/Skotchmaster/commerce/services/commerce/internal/repo"
)

type MissingPricePolicy string

const (
	// MissingPriceZero prices a product absent from the catalog at 0.
	MissingPriceZero MissingPricePolicy = "zero"
	// MissingPriceReject fails the conversion with NotFound("product price").
	MissingPriceReject MissingPricePolicy = "reject"
)

type OrderReadPolicy string

const (
	// OrderReadAny lets any authenticated actor read an order by id.
	OrderReadAny OrderReadPolicy = "any"
	// OrderReadOwner limits reads by id to the order's owner and admins.
	OrderReadOwner OrderReadPolicy = "owner"
)

const (
	maxConversionAttempts = 3
	publishTimeout        = 5 * time.Second
)

const (
	conversionCreated  = "created"
	conversionRejected = "rejected"
	conversionFailed   = "failed"
)

type OrderService struct {
	Repo         *repo.GormRepo
	Prices       pricing.Resolver
	Events       events.Publisher
	Metrics      *metrics.ServerMetrics
	MissingPrice MissingPricePolicy
	// ReadPolicy applies to GetOrder; empty means OrderReadAny.
	ReadPolicy OrderReadPolicy
}

// CreateOrder converts the actor's cart into a Pending order priced at the
// current catalog prices and empties the cart. It is not idempotent: a second
// call finds no cart items.
func (s *OrderService) CreateOrder(ctx context.Context, actor domain.Actor, paymentMethod string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("service", "order.create_order")

	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		return nil, domain.Validation("payment_method is required")
	}

	order, err := s.convert(ctx, actor.ID, paymentMethod)
	if err != nil {
		if domain.IsDomain(err) {
			s.Metrics.ObserveConversion(conversionRejected)
			return nil, err
		}
		l.Error("create_order_error", "user_id", actor.ID, "error", err)
		s.Metrics.ObserveConversion(conversionFailed)
		return nil, domain.ErrTransaction
	}

	s.Metrics.ObserveConversion(conversionCreated)
	s.publish(ctx, order.ID, map[string]any{
		"type":          "order_created",
		"orderID":       order.ID,
		"userID":        order.UserID,
		"totalAmount":   order.TotalAmount,
		"paymentMethod": order.PaymentMethod,
		"items":         len(order.Items),
	})
	l.Info("create_order_success", "order_id", order.ID)
	return order, nil
}

// convert prices a snapshot of the cart outside the transaction and places
// the order only if the cart still matches that snapshot.
func (s *OrderService) convert(ctx context.Context, userID uuid.UUID, paymentMethod string) (*models.Order, error) {
	for attempt := 0; attempt < maxConversionAttempts; attempt++ {
		cart, err := s.Repo.FindCart(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("cart")
		}
		if err != nil {
			return nil, err
		}

		items, err := s.Repo.CartItems(ctx, cart.ID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, domain.NotFound("cart items")
		}

		order, err := s.priceOrder(ctx, userID, paymentMethod, items)
		if err != nil {
			return nil, err
		}

		err = s.Repo.PlaceOrder(ctx, cart.ID, items, order)
		if errors.Is(err, repo.ErrCartChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}
	return nil, fmt.Errorf("cart changed during %d conversion attempts", maxConversionAttempts)
}

func (s *OrderService) priceOrder(ctx context.Context, userID uuid.UUID, paymentMethod string, items []models.CartItem) (*models.Order, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}

	prices, err := s.Prices.PricesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve prices: %w", err)
	}

	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		unit, ok := prices[it.ProductID]
		if !ok {
			if s.MissingPrice == MissingPriceReject {
				return nil, domain.NotFound("product price")
			}
			unit = decimal.Zero
		}

		linePrice := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(linePrice)
		lines = append(lines, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     linePrice,
		})
	}

	return &models.Order{
		UserID:        userID,
		TotalAmount:   total,
		Status:        models.StatusPending,
		PaymentMethod: paymentMethod,
		Items:         lines,
	}, nil
}

// GetOrder loads an order by id. Ownership is checked only under
// OrderReadOwner.
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.FindOrder(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	res := guard.Resource{Kind: "order", Exists: order != nil}
	if order != nil && s.ReadPolicy == OrderReadOwner {
		res.OwnerID = order.UserID
	}
	if err := guard.Authorize(actor, res); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the actor's orders whose status contains status, newest
// first.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, status string) ([]models.Order, error) {
	if err := guard.RequireOwner(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListOrders(ctx, actor.ID, status)
}

// UpdateStatus moves an order to any status of the closed set. Transition
// rules are not enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status string) (*models.Order, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if !models.ValidStatus(status) {
		return nil, domain.Validation("unknown order status %q", status)
	}

	order, err := s.Repo.UpdateOrderStatus(ctx, id, models.OrderStatus(status))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("order")
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
	})
	return order, nil
}

// publish runs after commit; a failed publish is logged, never returned.
func (s *OrderService) publish(ctx context.Context, orderID uuid.UUID, event map[string]any) {
	if s.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.Publish(pctx, orderID.String(), event); err != nil {
		logging.FromContext(ctx).Error("publish_order_event_error", "type", event["type"], "order_id", orderID, "error", err)
	}
}
