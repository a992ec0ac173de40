package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
	"github.com/Skotchmaster/commerce/services/commerce/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, l, "get_product_error", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return writeError(c, l, "get_product_error", err)
	}
	return ok(c, http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "create_product_error", err)
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, actor, req)
	if err != nil {
		return writeError(c, l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return ok(c, http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "patch_product_error", err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, l, "patch_product_error", err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, actor, id, req)
	if err != nil {
		return writeError(c, l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", product.ID)
	return ok(c, http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, l, "delete_product_error", err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, l, "delete_product_error", err)
	}

	if err := h.Svc.DeleteProduct(ctx, actor, id); err != nil {
		return writeError(c, l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
