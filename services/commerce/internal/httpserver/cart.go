package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
	"github.com/Skotchmaster/commerce/services/commerce/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "add_cart_item_error", err)
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_item_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItem(ctx, actor, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, l, "add_cart_item_error", err)
	}

	l.Info("add_cart_item_success", "cart_id", cart.ID)
	return ok(c, http.StatusOK, transport.CartResponse{ID: cart.ID, UserID: cart.UserID})
}

func (h *CartHTTP) ListCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.list")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "list_carts_error", err)
	}

	carts, err := h.Svc.ListCarts(ctx, actor)
	if err != nil {
		return writeError(c, l, "list_carts_error", err)
	}

	out := make([]transport.CartResponse, 0, len(carts))
	for _, cart := range carts {
		out = append(out, transport.CartResponse{ID: cart.ID, UserID: cart.UserID})
	}
	return ok(c, http.StatusOK, out)
}

func (h *CartHTTP) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_items")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "get_cart_items_error", err)
	}

	items, err := h.Svc.GetItems(ctx, actor)
	if err != nil {
		return writeError(c, l, "get_cart_items_error", err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *CartHTTP) RemoveOne(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_one")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "remove_cart_item_error", err)
	}
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		return writeError(c, l, "remove_cart_item_error", err)
	}

	deleted, item, err := h.Svc.RemoveOne(ctx, actor, productID)
	if err != nil {
		return writeError(c, l, "remove_cart_item_error", err)
	}

	return ok(c, http.StatusOK, transport.DeleteOneFromCartResponse{
		ProductID: productID,
		Deleted:   deleted,
		Quantity:  item.Quantity,
	})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "clear_cart_error", err)
	}

	removed, err := h.Svc.Clear(ctx, actor)
	if err != nil {
		return writeError(c, l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success", "removed", removed)
	return ok(c, http.StatusOK, transport.ClearCartResponse{Removed: removed})
}
