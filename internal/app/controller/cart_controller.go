package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	apperrors "github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type RemoveFromCartRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
}

// GetCart returns the user's cart with a computed total
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}

	var total float64
	for _, item := range cartItems {
		total += item.Price * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"count":      len(cartItems),
		"total":      total,
	})
}

// AddToCart adds a variant to the cart, merging with an existing line
// POST /api/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	cartItem, err := ctrl.cartService.AddToCart(userID, req.VariantID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product variant not found")
			return
		}
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": req.VariantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to cart",
		"cart_item": cartItem,
	})
}

// RemoveFromCart removes one variant line from the cart
// DELETE /api/cart/item
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req RemoveFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid remove from cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, req.VariantID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove from cart", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": req.VariantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
	})
}

// ClearCart removes every item from the user's cart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
