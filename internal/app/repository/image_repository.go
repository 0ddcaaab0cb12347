package repository

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ImageRepository interface {
	FindByProductID(productID uint) ([]model.ProductImage, error)
	FindByID(id uint) (*model.ProductImage, error)
	Create(image *model.ProductImage) error
	Delete(id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) FindByProductID(productID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.Where("product_id = ?", productID).
		Order("is_main DESC, created_at ASC").
		Find(&images).Error
	if err != nil {
		logger.Error("Failed to find images by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) FindByID(id uint) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) Create(image *model.ProductImage) error {
	logger.Debug("Creating product image in database", map[string]interface{}{
		"product_id": image.ProductID,
		"is_main":    image.IsMain,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to create product image in database", err, map[string]interface{}{
			"product_id": image.ProductID,
		})
		return err
	}
	return nil
}

func (r *imageRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ProductImage{}, id).Error; err != nil {
		logger.Error("Failed to delete product image from database", err, map[string]interface{}{
			"image_id": id,
		})
		return err
	}

	logger.Debug("Product image deleted from database", map[string]interface{}{
		"image_id": id,
	})
	return nil
}
