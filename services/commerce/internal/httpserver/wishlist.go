package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
	"github.com/Skotchmaster/commerce/services/commerce/internal/transport"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "add_wishlist_error", err)
	}

	var req transport.AddWishlistRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_wishlist_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	w, err := h.Svc.Add(ctx, actor, req.ProductID)
	if err != nil {
		return writeError(c, l, "add_wishlist_error", err)
	}

	l.Info("add_wishlist_success", "wishlist_id", w.ID)
	return ok(c, http.StatusOK, transport.WishlistResponse{ID: w.ID, UserID: w.UserID})
}

func (h *WishlistHTTP) Items(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.items")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "get_wishlist_items_error", err)
	}

	items, err := h.Svc.Items(ctx, actor)
	if err != nil {
		return writeError(c, l, "get_wishlist_items_error", err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "remove_wishlist_item_error", err)
	}
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		return writeError(c, l, "remove_wishlist_item_error", err)
	}

	if err := h.Svc.Remove(ctx, actor, productID); err != nil {
		return writeError(c, l, "remove_wishlist_item_error", err)
	}
	return ok(c, http.StatusOK, true)
}
