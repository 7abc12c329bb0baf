package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voicecart/cart-service/config"
	"github.com/voicecart/cart-service/controllers"
	"github.com/voicecart/cart-service/middleware"
	"github.com/voicecart/cart-service/services"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.Engine,
	carts services.CartService,
	orders services.OrderService,
	cfg config.Config,
	logger *zap.Logger,
) {
	cartController := controllers.NewCartController(carts, logger)
	orderController := controllers.NewOrderController(orders, logger)

	// All cart and order routes require authentication.
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/cart", cartController.GetCart)
		api.POST("/cart/items", cartController.AddItem)
		api.PATCH("/cart/items/:item_id", cartController.UpdateItemQuantity)
		api.DELETE("/cart/items/:item_id", cartController.RemoveItem)
		api.DELETE("/cart", cartController.ClearCart)

		api.POST("/orders", orderController.Checkout)
		api.GET("/orders", orderController.GetOrders)
	}
}
