package service

import (
	"errors"
	"fmt"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("invalid address")
)

type OrderService interface {
	PlaceOrder(userID, addressID uint, paymentMethod string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		db:          db,
	}
}

// PlaceOrder turns the user's cart into an order in a single transaction.
// The order total is computed from each variant's current final price, while
// order items keep the unit price captured when the item entered the cart.
func (s *orderService) PlaceOrder(userID, addressID uint, paymentMethod string) (*model.Order, error) {
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	logger.Info("Placing order from cart", map[string]interface{}{
		"user_id":        userID,
		"address_id":     addressID,
		"payment_method": paymentMethod,
	})

	if _, err := s.addressRepo.FindByUserAndID(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order rejected: address missing or not owned", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return nil, ErrInvalidAddress
		}
		logger.Error("Failed to verify address for order", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, err
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
			// A swallowed panic would surface as a nil order upstream
			panic(r)
		}
	}()

	var (
		totalPrice float64
		orderItems []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var variant model.ProductVariant
		if err := tx.
			Preload("Product").
			First(&variant, cartItem.VariantID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Variant vanished during order placement", map[string]interface{}{
					"user_id":    userID,
					"variant_id": cartItem.VariantID,
				})
				return nil, fmt.Errorf("%w: %d", ErrVariantNotFound, cartItem.VariantID)
			}
			logger.Error("Failed to fetch variant during order placement", err, map[string]interface{}{
				"user_id":    userID,
				"variant_id": cartItem.VariantID,
			})
			return nil, err
		}
		variant.ResolveFinalPrice(variant.Product.BasePrice)

		orderItems = append(orderItems, model.OrderItem{
			VariantID: cartItem.VariantID,
			Quantity:  cartItem.Quantity,
			Price:     cartItem.Price,
		})
		totalPrice += variant.FinalPrice * float64(cartItem.Quantity)
	}

	order := &model.Order{
		UserID:        userID,
		AddressID:     addressID,
		TotalPrice:    totalPrice,
		PaymentMethod: paymentMethod,
		Status:        model.OrderStatusPending,
		OrderItems:    orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":     userID,
			"total_price": totalPrice,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": totalPrice,
		"item_count":  len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// GetOrderByID hides ownership mismatches behind ErrOrderNotFound.
func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// UpdateOrderStatus advances an order through its lifecycle. Customers
// never reach this; it sits behind the admin gate.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for status update", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return err
	}
	return nil
}
