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
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("product image not found")
)

// ProductInput carries a product create or update together with its
// variants and images. On update the variant and image sets replace
// whatever the product had before.
type ProductInput struct {
	Name            string
	Description     string
	BasePrice       float64
	DiscountedPrice *float64
	CategoryID      *uint
	GenderID        *uint
	Status          model.ProductStatus
	Variants        []model.ProductVariant
	Images          []model.ProductImage
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error

	GetProductVariants(productID uint) ([]model.ProductVariant, error)
	AddVariant(productID uint, variant *model.ProductVariant) error
	UpdateVariant(variantID uint, variant *model.ProductVariant) (*model.ProductVariant, error)
	DeleteVariant(variantID uint) error

	GetProductImages(productID uint) ([]model.ProductImage, error)
	AddImage(productID uint, image *model.ProductImage) error
	DeleteImage(imageID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	imageRepo   repository.ImageRepository
	db          *gorm.DB
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	imageRepo repository.ImageRepository,
	db *gorm.DB,
) ProductService {
	return &productService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		imageRepo:   imageRepo,
		db:          db,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"search":      filter.Search,
		"category_id": filter.CategoryID,
		"status":      filter.Status,
	})

	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Info("Products listed successfully", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":       input.Name,
		"base_price": input.BasePrice,
		"variants":   len(input.Variants),
		"images":     len(input.Images),
	})

	status := input.Status
	if status == "" {
		status = model.ProductActive
	}

	product := &model.Product{
		Name:            input.Name,
		Description:     input.Description,
		BasePrice:       input.BasePrice,
		DiscountedPrice: input.DiscountedPrice,
		CategoryID:      input.CategoryID,
		GenderID:        input.GenderID,
		Status:          status,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during product creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"name": input.Name,
			})
			panic(r)
		}
	}()

	if err := tx.Create(product).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	if err := s.attachAssets(tx, product.ID, input.Variants, input.Images); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit product creation", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ProductActive
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during product update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"product_id": id,
			})
			panic(r)
		}
	}()

	fields := map[string]interface{}{
		"name":             input.Name,
		"description":      input.Description,
		"base_price":       input.BasePrice,
		"discounted_price": input.DiscountedPrice,
		"category_id":      input.CategoryID,
		"gender_id":        input.GenderID,
		"status":           status,
	}
	if err := tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	// Replace the variant and image sets wholesale
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear product variants", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear product images", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if err := s.attachAssets(tx, id, input.Variants, input.Images); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit product update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	return s.productRepo.FindByID(id)
}

// attachAssets inserts variants and images for a product inside tx. The
// first image becomes the main one when none is flagged.
func (s *productService) attachAssets(tx *gorm.DB, productID uint, variants []model.ProductVariant, images []model.ProductImage) error {
	for i := range variants {
		variants[i].ID = 0
		variants[i].ProductID = productID
		if err := tx.Create(&variants[i]).Error; err != nil {
			logger.Error("Failed to create product variant", err, map[string]interface{}{
				"product_id": productID,
				"sku":        variants[i].SKU,
			})
			return err
		}
	}

	hasMain := false
	for i := range images {
		if images[i].IsMain {
			hasMain = true
			break
		}
	}
	for i := range images {
		images[i].ID = 0
		images[i].ProductID = productID
		if !hasMain && i == 0 {
			images[i].IsMain = true
		}
		if err := tx.Create(&images[i]).Error; err != nil {
			logger.Error("Failed to create product image", err, map[string]interface{}{
				"product_id": productID,
			})
			return err
		}
	}
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) GetProductVariants(productID uint) ([]model.ProductVariant, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.variantRepo.FindByProductID(productID)
}

func (s *productService) AddVariant(productID uint, variant *model.ProductVariant) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	variant.ProductID = productID
	if err := s.variantRepo.Create(variant); err != nil {
		return err
	}
	variant.ResolveFinalPrice(product.BasePrice)

	logger.Info("Variant added to product", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})
	return nil
}

func (s *productService) UpdateVariant(variantID uint, variant *model.ProductVariant) (*model.ProductVariant, error) {
	existing, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	existing.SKU = variant.SKU
	existing.Size = variant.Size
	existing.Color = variant.Color
	existing.Stock = variant.Stock
	existing.Price = variant.Price
	existing.ImageURL = variant.ImageURL

	if err := s.variantRepo.Update(existing); err != nil {
		return nil, err
	}

	logger.Info("Variant updated successfully", map[string]interface{}{
		"variant_id": variantID,
	})
	return s.variantRepo.FindByID(variantID)
}

func (s *productService) DeleteVariant(variantID uint) error {
	if _, err := s.variantRepo.FindByID(variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}
	return s.variantRepo.Delete(variantID)
}

func (s *productService) GetProductImages(productID uint) ([]model.ProductImage, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.imageRepo.FindByProductID(productID)
}

func (s *productService) AddImage(productID uint, image *model.ProductImage) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	image.ProductID = productID
	if err := s.imageRepo.Create(image); err != nil {
		return err
	}

	logger.Info("Image added to product", map[string]interface{}{
		"product_id": productID,
		"image_id":   image.ID,
	})
	return nil
}

func (s *productService) DeleteImage(imageID uint) error {
	if _, err := s.imageRepo.FindByID(imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	return s.imageRepo.Delete(imageID)
}
