package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/commerce/pkg/metrics"
	middleware "github.com/Skotchmaster/commerce/pkg/middleware/auth"
)

type Deps struct {
	CartHandler     *CartHTTP
	WishlistHandler *WishlistHTTP
	OrderHandler    *OrderHTTP
	CatalogHandler  *CatalogHTTP
	JWTSecret       []byte
	Metrics         *metrics.ServerMetrics
	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return fail(c, http.StatusServiceUnavailable, "not ready")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	authMW := middleware.NewTokenAuth(d.JWTSecret)
	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("/:id", d.CatalogHandler.GetProduct)
	productsAdmin := products.Group("", authMW.RequireAdmin)
	productsAdmin.POST("", d.CatalogHandler.CreateProduct)
	productsAdmin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	productsAdmin.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	carts := api.Group("/carts", authMW.RequireAuth)
	carts.GET("", d.CartHandler.ListCarts)
	carts.POST("/items", d.CartHandler.AddItem)
	carts.GET("/items", d.CartHandler.GetItems)
	carts.DELETE("/items", d.CartHandler.Clear)
	carts.DELETE("/items/:product_id", d.CartHandler.RemoveOne)

	wishlists := api.Group("/wishlists", authMW.RequireAuth)
	wishlists.POST("", d.WishlistHandler.Add)
	wishlists.GET("/items", d.WishlistHandler.Items)
	wishlists.DELETE("/items/:product_id", d.WishlistHandler.Remove)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	ordersAdmin := orders.Group("", authMW.RequireAdmin)
	ordersAdmin.PATCH("/:id", d.OrderHandler.UpdateStatus)
}
