package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/voicecart/cart-service/common/errors"
	"github.com/voicecart/cart-service/middleware"
	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/services"
	"go.uber.org/zap"
)

type CartController struct {
	carts  services.CartService
	logger *zap.Logger
}

func NewCartController(carts services.CartService, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, logger: logger}
}

type addItemRequest struct {
	Product         models.Product `json:"product" binding:"required"`
	Quantity        int            `json:"quantity" binding:"required,min=1"`
	SelectedVariant string         `json:"selected_variant"`
}

type updateQuantityRequest struct {
	// quantity 0 removes the item, so no min constraint here
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the current cart for a user. A user without a cart gets an
// empty one rather than a 404.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}

	cart, err := cc.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("get cart failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem adds a product to the cart, merging with an existing line for the
// same product and variant.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := cc.carts.AddItem(c.Request.Context(), userID, req.Product, req.Quantity, req.SelectedVariant); err != nil {
		cc.logger.Error("add item failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	cc.respondWithCart(c, userID)
}

// UpdateItemQuantity sets an item's quantity; zero removes it.
func (cc *CartController) UpdateItemQuantity(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}
	itemID := c.Param("item_id")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := cc.carts.UpdateItemQuantity(c.Request.Context(), userID, itemID, *req.Quantity); err != nil {
		cc.logger.Error("update item quantity failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	cc.respondWithCart(c, userID)
}

// RemoveItem removes a specific item from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}
	itemID := c.Param("item_id")

	if err := cc.carts.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		cc.logger.Error("remove item failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	cc.respondWithCart(c, userID)
}

// ClearCart removes all items from the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.ErrAuthenticationRequired)
		return
	}

	if err := cc.carts.ClearCart(c.Request.Context(), userID); err != nil {
		cc.logger.Error("clear cart failed", zap.String("user_id", userID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (cc *CartController) respondWithCart(c *gin.Context, userID string) {
	cart, err := cc.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	c.JSON(http.StatusOK, cart)
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		appErr = apperrors.New(http.StatusUnauthorized, "authentication required", err)
	case errors.Is(err, services.ErrEmptyCart):
		appErr = apperrors.New(http.StatusBadRequest, "cart is empty", err)
	case errors.Is(err, services.ErrStoreUnavailable):
		appErr = apperrors.New(http.StatusServiceUnavailable, "store unavailable", err)
	default:
		appErr = apperrors.New(http.StatusInternalServerError, "internal server error", err)
	}
	c.JSON(appErr.Code, appErr)
}
