package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voicecart/cart-service/middleware"
	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/services"
	"go.uber.org/zap"
)

type OrderController struct {
	orders services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

type checkoutRequest struct {
	ShippingAddress models.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *models.Address `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
}

// Checkout materializes the user's cart into an order.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), userID, services.CheckoutRequest{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		oc.logger.Error("checkout failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists the user's orders, newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}

	orders, err := oc.orders.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		oc.logger.Error("get orders failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
