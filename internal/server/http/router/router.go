package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/server/http/handlers"
	"github.com/merchkit/orderflow/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	cancelHandler := handlers.NewCancelHandler(facade)
	fulfillmentHandler := handlers.NewFulfillmentHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v2 := api.Group("/v2")
	v2.Use(middleware.AuthRequired(facade))
	v2.POST("/orders", orderHandler.List)
	v2.POST("/order", orderHandler.Get)
	v2.GET("/order/:id", orderHandler.GetByID)
	v2.POST("/order/pay/:id", paymentHandler.Pay)
	v2.PUT("/order/requestCancel/:id", cancelHandler.RequestCancel)
	v2.POST("/order/duplicateToCart", cartHandler.DuplicateToCart)

	admin := v2.Group("")
	admin.Use(middleware.AdminRequired())
	admin.PUT("/order", orderHandler.Set)
	admin.PUT("/order/status", orderHandler.UpdateStatus)
	admin.PUT("/order/payment", paymentHandler.Update)
	admin.POST("/order/payment/info", paymentHandler.Info)
	admin.PUT("/order/cancel/:id", cancelHandler.Cancel)
	admin.PUT("/order/cancel/:id/arbitrate", cancelHandler.Arbitrate)
	admin.POST("/order/pkg", fulfillmentHandler.AddPackage)
	admin.DELETE("/order/pkg", fulfillmentHandler.DelPackage)
	admin.PUT("/order/pkg/status", fulfillmentHandler.UpdatePackageStatus)
	admin.POST("/order/rma", fulfillmentHandler.RequestReturn)
	admin.PUT("/order/rma/status", fulfillmentHandler.AdvanceReturn)

	return engine
}
