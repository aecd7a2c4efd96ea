package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/auth"
	"github.com/craftline/orderdesk/internal/handlers"
)

type Deps struct {
	Auth      *auth.Service
	AuthH     *handlers.AuthHandler
	Customers *handlers.CustomerHandler
	Products  *handlers.ProductHandler
	Orders    *handlers.OrderHandler
	Users     *handlers.UserHandler
	Dashboard *handlers.DashboardHandler
	Search    *handlers.SearchHandler
	SMS       *handlers.SMSHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthH.Login)

	read := v1.Group("", handlers.RequireSession(d.Auth, auth.PermRead))
	read.POST("/logout", d.AuthH.Logout)
	read.GET("/customers", d.Customers.List)
	read.GET("/products", d.Products.List)
	read.GET("/orders", d.Orders.List)
	read.GET("/orders/:id", d.Orders.Get)
	read.GET("/dashboard", d.Dashboard.Summary)
	read.GET("/search", d.Search.Products)

	create := v1.Group("", handlers.RequireSession(d.Auth, auth.PermCreate))
	create.POST("/customers", d.Customers.Create)
	create.POST("/products", d.Products.Create)
	create.POST("/orders", d.Orders.Create)
	create.POST("/sms", d.SMS.Send)

	update := v1.Group("", handlers.RequireSession(d.Auth, auth.PermUpdate))
	update.PUT("/customers/:id", d.Customers.Update)
	update.PUT("/products/:id", d.Products.Update)
	update.PUT("/orders/:id", d.Orders.Update)

	// Deleting anything and managing users stays admin-only.
	admin := v1.Group("", handlers.RequireSession(d.Auth, auth.PermDelete))
	admin.DELETE("/customers/:id", d.Customers.Delete)
	admin.DELETE("/products/:id", d.Products.Delete)
	admin.DELETE("/orders/:id", d.Orders.Delete)
	admin.GET("/users", d.Users.List)
	admin.POST("/users", d.Users.Create)
	admin.PUT("/users/:id", d.Users.Update)
	admin.DELETE("/users/:id", d.Users.Delete)
}
