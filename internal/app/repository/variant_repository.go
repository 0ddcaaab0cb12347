package repository

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

type VariantRepository interface {
	FindByProductID(productID uint) ([]model.ProductVariant, error)
	FindByID(id uint) (*model.ProductVariant, error)
	Create(variant *model.ProductVariant) error
	Update(variant *model.ProductVariant) error
	Delete(id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) FindByProductID(productID uint) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.Where("product_id = ?", productID).
		Preload("Product").
		Find(&variants).Error
	if err != nil {
		logger.Error("Failed to find variants by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	for i := range variants {
		variants[i].ResolveFinalPrice(variants[i].Product.BasePrice)
	}

	logger.Debug("Variants found by product ID in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(variants),
	})
	return variants, nil
}

func (r *variantRepository) FindByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Preload("Product").First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	variant.ResolveFinalPrice(variant.Product.BasePrice)
	return &variant, nil
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"sku":        variant.SKU,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Update(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": variant.ID,
	})

	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ProductVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete product variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	logger.Debug("Product variant deleted from database", map[string]interface{}{
		"variant_id": id,
	})
	return nil
}
