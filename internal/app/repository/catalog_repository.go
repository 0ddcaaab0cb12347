package repository

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogRepository covers the category and gender lookup tables
type CatalogRepository interface {
	FindAllCategories() ([]model.Category, error)
	CreateCategory(category *model.Category) error
	FindAllGenders() ([]model.Gender, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindAllCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) CreateCategory(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *catalogRepository) FindAllGenders() ([]model.Gender, error) {
	var genders []model.Gender
	if err := r.db.Order("id ASC").Find(&genders).Error; err != nil {
		logger.Error("Failed to find genders in database", err)
		return nil, err
	}
	return genders, nil
}
