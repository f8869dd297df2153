package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techshop/internal/handlers"
	"techshop/internal/handlers/cart"
)

type Deps struct {
	DB               *gorm.DB
	ProductHandler   *handlers.ProductHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	AuthHandler      *handlers.AuthHandler
	CartHandler      *cart.CartHandler
	ViewerHandler    *handlers.ViewerHandler
	SearchHandler    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/admin_update_product", d.ProductHandler.Handle)
	e.GET("/api/analytics", d.AnalyticsHandler.Handle)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/add_to_cart", d.CartHandler.AddToCart)
	e.GET("/get_cart_details", d.CartHandler.GetCartDetails)
	e.GET("/db_viewer", d.ViewerHandler.Handle)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Handler)
	}
}
