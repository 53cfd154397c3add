package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/emgimbal/shop/internal/handlers"
	"github.com/emgimbal/shop/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	Guard           *auth.Guard
	ProductHandler  *handlers.ProductHandler
	PurchaseHandler *handlers.PurchaseHandler
	UserHandler     *handlers.UserHandler
	PaymentHandler  *handlers.PaymentHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "shop server is running")
	})

	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/search", d.SearchHandler.Search)
	e.GET("/products/:id", d.ProductHandler.GetProduct)
	e.POST("/products", d.ProductHandler.CreateProduct, d.Guard.RequireToken, d.Guard.RequireAdmin)
	e.DELETE("/products/:id", d.ProductHandler.DeleteProduct, d.Guard.RequireToken, d.Guard.RequireAdmin)

	e.POST("/purchase", d.PurchaseHandler.CreatePurchase)
	e.GET("/purchase", d.PurchaseHandler.GetPurchases, d.Guard.RequireToken)
	e.GET("/purchase/:id", d.PurchaseHandler.GetPurchase)
	e.PATCH("/purchase/:id", d.PurchaseHandler.MarkPaid)

	e.PUT("/users/:email", d.UserHandler.UpsertUser)
	e.PUT("/users/admin/:email", d.UserHandler.GrantAdmin, d.Guard.RequireToken, d.Guard.RequireAdmin)
	e.GET("/admin/:email", d.UserHandler.CheckAdmin)
	e.GET("/users", d.UserHandler.GetUsers, d.Guard.RequireToken)

	e.POST("/create-payment-intent", d.PaymentHandler.CreatePaymentIntent)
}
