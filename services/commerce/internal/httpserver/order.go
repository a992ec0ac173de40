package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
	"github.com/Skotchmaster/commerce/services/commerce/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "create_order_error", err)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, actor, req.PaymentMethod)
	if err != nil {
		return writeError(c, l, "create_order_error", err)
	}

	return ok(c, http.StatusOK, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "get_order_error", err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, l, "get_order_error", err)
	}

	order, err := h.Svc.GetOrder(ctx, actor, id)
	if err != nil {
		return writeError(c, l, "get_order_error", err)
	}
	return ok(c, http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "list_orders_error", err)
	}

	orders, err := h.Svc.ListOrders(ctx, actor, c.QueryParam("status"))
	if err != nil {
		return writeError(c, l, "list_orders_error", err)
	}
	return ok(c, http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "update_order_error", err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, l, "update_order_error", err)
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		return writeError(c, l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", order.ID, "order_status", order.Status)
	return ok(c, http.StatusOK, order)
}
