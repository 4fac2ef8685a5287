package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/wildfire-market/checkout/internal/server/http/handlers"
	"github.com/wildfire-market/checkout/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CheckoutFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.Session())

	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	api := engine.Group("/api")

	cart := api.Group("/cart")
	cart.GET("", cartHandler.List)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.Add)
	cart.PATCH("/items/:productID", cartHandler.UpdateQuantity)
	cart.DELETE("/items/:productID", cartHandler.Remove)

	checkout := api.Group("/checkout")
	checkout.GET("", checkoutHandler.Session)
	checkout.POST("/currency", checkoutHandler.SelectCurrency)
	checkout.POST("/begin", checkoutHandler.Begin)
	checkout.POST("/customer", checkoutHandler.SubmitCustomer)
	checkout.POST("/back", checkoutHandler.Back)
	checkout.GET("/allowance", paymentHandler.Allowance)
	checkout.POST("/approve", paymentHandler.Approve)
	checkout.POST("/pay", paymentHandler.Pay)

	onramp := api.Group("/onramp")
	onramp.POST("", checkoutHandler.StartOnramp)
	onramp.POST("/callback", checkoutHandler.CompleteOnramp)

	api.GET("/orders/:number", orderHandler.Get)

	return engine
}
