package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	apperrors "github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
}

// PlaceOrder converts the user's cart into an order
// POST /api/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, req.AddressID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAddress):
			log.Warn("Order rejected: invalid address", map[string]interface{}{
				"user_id":    userID,
				"address_id": req.AddressID,
			})
			apperrors.BadRequest(c, apperrors.OrderInvalidAddress, "Invalid address")
		case errors.Is(err, service.ErrEmptyCart):
			log.Warn("Order rejected: empty cart", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrVariantNotFound):
			log.Warn("Order rejected: variant no longer exists", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			apperrors.BadRequest(c, apperrors.OrderVariantNotFound, err.Error())
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "place order")
		}
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"order":    order,
	})
}

// ListOrders returns the user's orders, newest first
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus advances an order's lifecycle status (admin)
// PUT /api/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order status update request", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(orderID, model.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Order not found")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
	})
}
