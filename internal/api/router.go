package api

import (
	"net/http"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/metrics"
	"cosysta-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/shops/:id", h.GetShop)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/me", h.Me)
		authed.POST("/me/push-tokens", h.RegisterPushToken)

		authed.POST("/products", h.CreateProduct)

		authed.POST("/shops", h.CreateShop)
		authed.GET("/me/shops", h.ListMyShops)

		authed.GET("/addresses", h.ListAddresses)
		authed.POST("/addresses", h.AddAddress)
		authed.DELETE("/addresses/:id", h.RemoveAddress)
		authed.PUT("/addresses/:id/default", h.MakeDefaultAddress)

		authed.GET("/cart", h.GetCart)
		authed.POST("/cart", h.AddCartItem)
		authed.PUT("/cart", h.UpdateCartQuantity)
		authed.DELETE("/cart/:productId", h.RemoveCartItem)
		authed.DELETE("/cart", h.ClearCart)

		authed.POST("/checkout", h.Checkout)
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.GET("/notifications", h.ListUnreadNotifications)
		authed.PUT("/notifications/:id/read", h.MarkNotificationRead)
		authed.DELETE("/notifications/:id", h.RemoveNotification)

		authed.POST("/subscriptions", h.StartSubscription)
		authed.GET("/subscriptions/current", h.GetSubscription)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.PUT("/orders/:id/payment-status", h.UpdatePaymentStatus)
		admin.POST("/notifications/broadcast", h.Broadcast)
		admin.DELETE("/notifications/:id", h.DeleteNotification)
	}

	return r
}
