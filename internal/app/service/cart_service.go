package service

import (
	"errors"
	"time"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound  = errors.New("product variant not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, variantID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, variantID uint) error
	ClearCart(userID uint) error
	PurgeStale(olderThan time.Duration) (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	variantRepo repository.VariantRepository
}

func NewCartService(cartRepo repository.CartRepository, variantRepo repository.VariantRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart upserts on (user, variant): an existing line gets its quantity
// increased, a new line captures the variant's current final price.
func (s *cartService) AddToCart(userID, variantID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: variant not found", map[string]interface{}{
				"user_id":    userID,
				"variant_id": variantID,
			})
			return nil, ErrVariantNotFound
		}
		logger.Error("Failed to fetch variant for cart", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": variantID,
		})
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserAndVariant(userID, variantID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			logger.Error("Failed to update cart item quantity", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": existing.ID,
			})
			return nil, err
		}

		logger.Info("Cart item quantity increased", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		VariantID: variantID,
		Quantity:  quantity,
		Price:     variant.FinalPrice,
	}
	if err := s.cartRepo.Create(cartItem); err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": variantID,
		})
		return nil, err
	}

	logger.Info("Item added to cart successfully", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItem.ID,
		"variant_id":   variantID,
		"price":        cartItem.Price,
	})
	return cartItem, nil
}

func (s *cartService) RemoveFromCart(userID, variantID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":    userID,
		"variant_id": variantID,
	})

	if _, err := s.cartRepo.FindByUserAndVariant(userID, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"user_id":    userID,
				"variant_id": variantID,
			})
			return ErrCartItemNotFound
		}
		return err
	}

	if err := s.cartRepo.DeleteByUserAndVariant(userID, variantID); err != nil {
		logger.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": variantID,
		})
		return err
	}

	logger.Info("Cart item removed successfully", map[string]interface{}{
		"user_id":    userID,
		"variant_id": variantID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Cart cleared successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *cartService) PurgeStale(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	removed, err := s.cartRepo.DeleteStale(cutoff)
	if err != nil {
		logger.Error("Failed to purge stale cart items", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}

	if removed > 0 {
		logger.Info("Stale cart items purged", map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		})
	}
	return removed, nil
}
