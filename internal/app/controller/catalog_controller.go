package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	apperrors "github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns all categories
// GET /api/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.GetCategories()
	if err != nil {
		log.Error("Failed to list categories", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a category (admin)
// POST /api/categories
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create category request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	category, err := ctrl.catalogService.CreateCategory(req.Name)
	if err != nil {
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// ListGenders returns the gender lookup table
// GET /api/genders
func (ctrl *CatalogController) ListGenders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	genders, err := ctrl.catalogService.GetGenders()
	if err != nil {
		log.Error("Failed to list genders", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list genders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"genders": genders})
}
