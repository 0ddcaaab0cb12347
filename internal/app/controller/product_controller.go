package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	apperrors "github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type VariantInput struct {
	SKU      string   `json:"sku"`
	Size     string   `json:"size"`
	Color    string   `json:"color"`
	Stock    int      `json:"stock"`
	Price    *float64 `json:"price"`
	ImageURL string   `json:"image_url"`
}

type ImageInput struct {
	ImageURL string `json:"image_url" binding:"required"`
	IsMain   bool   `json:"is_main"`
}

type ProductRequest struct {
	Name            string         `json:"name" binding:"required"`
	Description     string         `json:"description"`
	BasePrice       float64        `json:"base_price" binding:"required,gt=0"`
	DiscountedPrice *float64       `json:"discounted_price"`
	CategoryID      *uint          `json:"category_id"`
	GenderID        *uint          `json:"gender_id"`
	Status          string         `json:"status" binding:"omitempty,oneof=active inactive"`
	Variants        []VariantInput `json:"variants"`
	Images          []ImageInput   `json:"images"`
}

func (req *ProductRequest) toInput() service.ProductInput {
	input := service.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DiscountedPrice: req.DiscountedPrice,
		CategoryID:      req.CategoryID,
		GenderID:        req.GenderID,
		Status:          model.ProductStatus(req.Status),
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, model.ProductVariant{
			SKU:      v.SKU,
			Size:     v.Size,
			Color:    v.Color,
			Stock:    v.Stock,
			Price:    v.Price,
			ImageURL: v.ImageURL,
		})
	}
	for _, img := range req.Images {
		input.Images = append(input.Images, model.ProductImage{
			ImageURL: img.ImageURL,
			IsMain:   img.IsMain,
		})
	}
	return input
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// ListProducts returns the catalog, optionally filtered
// GET /api/products?search=&category_id=&status=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"search": filter.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with variants and images
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct creates a product with its variants and images (admin)
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct replaces a product's fields, variants and images (admin)
// PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	product, err := ctrl.productService.UpdateProduct(productID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product (admin)
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ListVariants returns the variants of a product
// GET /api/products/:id/variants
func (ctrl *ProductController) ListVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.productService.GetProductVariants(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to list variants", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

// AddVariant adds a variant to a product (admin)
// POST /api/products/:id/variants
func (ctrl *ProductController) AddVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add variant request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	variant := &model.ProductVariant{
		SKU:      req.SKU,
		Size:     req.Size,
		Color:    req.Color,
		Stock:    req.Stock,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	}

	if err := ctrl.productService.AddVariant(productID, variant); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to add variant", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Variant created successfully",
		"variant": variant,
	})
}

// UpdateVariant updates a variant (admin)
// PUT /api/product-variants/:id
func (ctrl *ProductController) UpdateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update variant request", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	variant, err := ctrl.productService.UpdateVariant(variantID, &model.ProductVariant{
		SKU:      req.SKU,
		Size:     req.Size,
		Color:    req.Color,
		Stock:    req.Stock,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product variant not found")
			return
		}
		log.Error("Failed to update variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant updated successfully",
		"variant": variant,
	})
}

// DeleteVariant removes a variant (admin)
// DELETE /api/product-variants/:id
func (ctrl *ProductController) DeleteVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteVariant(variantID); err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product variant not found")
			return
		}
		log.Error("Failed to delete variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted successfully",
	})
}

// ListImages returns a product's images, main image first
// GET /api/products/:id/images
func (ctrl *ProductController) ListImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := ctrl.productService.GetProductImages(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to list images", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// AddImage attaches an image to a product (admin)
// POST /api/products/:id/images
func (ctrl *ProductController) AddImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add image request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	image := &model.ProductImage{
		ImageURL: req.ImageURL,
		IsMain:   req.IsMain,
	}

	if err := ctrl.productService.AddImage(productID, image); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to add image", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image added successfully",
		"image":   image,
	})
}

// DeleteImage removes a product image (admin)
// DELETE /api/product-images/:id
func (ctrl *ProductController) DeleteImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	imageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteImage(imageID); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product image not found")
			return
		}
		log.Error("Failed to delete image", err, map[string]interface{}{
			"image_id": imageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
	})
}
