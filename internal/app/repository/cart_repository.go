package repository

import (
	"time"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByUserAndVariant(userID, variantID uint) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	DeleteByUserAndVariant(userID, variantID uint) error
	DeleteByUserID(userID uint) error
	DeleteStale(before time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"variant_id": cartItem.VariantID,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"variant_id": cartItem.VariantID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"variant_id":   cartItem.VariantID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.Product.Images", "is_main = ?", true).
		Order("created_at DESC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for i := range cartItems {
		cartItems[i].Variant.ResolveFinalPrice(cartItems[i].Variant.Product.BasePrice)
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByUserAndVariant(userID, variantID uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.Where("user_id = ? AND variant_id = ?", userID, variantID).
		First(&cartItem).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"quantity":     cartItem.Quantity,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
			"user_id":      cartItem.UserID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserAndVariant(userID, variantID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"user_id":    userID,
		"variant_id": variantID,
	})

	if err := r.db.Where("user_id = ? AND variant_id = ?", userID, variantID).
		Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"user_id":    userID,
			"variant_id": variantID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Clearing cart in database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

// DeleteStale removes cart items untouched since the given time. The
// purge scheduler is the only caller.
func (r *cartRepository) DeleteStale(before time.Time) (int64, error) {
	result := r.db.Where("updated_at < ?", before).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete stale cart items from database", result.Error, map[string]interface{}{
			"before": before,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
