package service

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/pkg/logger"
)

type CatalogService interface {
	GetCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
	GetGenders() ([]model.Gender, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	categories, err := s.catalogRepo.FindAllCategories()
	if err != nil {
		logger.Error("Failed to fetch categories", err)
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(name string) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": name,
	})

	category := &model.Category{Name: name}
	if err := s.catalogRepo.CreateCategory(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *catalogService) GetGenders() ([]model.Gender, error) {
	genders, err := s.catalogRepo.FindAllGenders()
	if err != nil {
		logger.Error("Failed to fetch genders", err)
		return nil, err
	}
	return genders, nil
}
