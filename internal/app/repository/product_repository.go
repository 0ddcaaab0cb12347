package repository

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows the product listing
type ProductFilter struct {
	Search     string
	CategoryID *uint
	Status     string
}

type ProductRepository interface {
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"search":      filter.Search,
		"category_id": filter.CategoryID,
		"status":      filter.Status,
	})

	query := r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Gender").
		Preload("Variants").
		Preload("Images")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var products []model.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	for i := range products {
		for j := range products[i].Variants {
			products[i].Variants[j].ResolveFinalPrice(products[i].BasePrice)
		}
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Category").
		Preload("Gender").
		Preload("Variants").
		Preload("Images").
		First(&product, id).Error
	if err != nil {
		logger.Debug("Product lookup failed", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	for i := range product.Variants {
		product.Variants[i].ResolveFinalPrice(product.BasePrice)
	}
	return &product, nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
