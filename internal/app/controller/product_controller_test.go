package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/jwkang/stylecart-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	imageRepo := repository.NewImageRepository(testDB)
	productService := service.NewProductService(productRepo, variantRepo, imageRepo, testDB)
	ctrl := NewProductController(productService)

	authMiddleware := middleware.NewAuthMiddleware(testControllerSecret, repository.NewUserRepository(testDB))

	router := gin.New()
	products := router.Group("/products")
	{
		products.GET("", ctrl.ListProducts)
		products.GET("/:id", ctrl.GetProduct)
		products.GET("/:id/variants", ctrl.ListVariants)
		products.GET("/:id/images", ctrl.ListImages)

		admin := products.Group("", authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			admin.POST("", ctrl.CreateProduct)
			admin.PUT("/:id", ctrl.UpdateProduct)
			admin.DELETE("/:id", ctrl.DeleteProduct)
			admin.POST("/:id/variants", ctrl.AddVariant)
			admin.POST("/:id/images", ctrl.AddImage)
		}
	}
	variants := router.Group("/product-variants", authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	{
		variants.PUT("/:id", ctrl.UpdateVariant)
		variants.DELETE("/:id", ctrl.DeleteVariant)
	}

	return router, testDB
}

func sampleProductRequest() ProductRequest {
	price := 24.99
	return ProductRequest{
		Name:        "Classic Cotton Tee",
		Description: "plain cotton tee",
		BasePrice:   19.99,
		Variants: []VariantInput{
			{SKU: "TEE-BLK-M", Size: "M", Color: "black", Stock: 10},
			{SKU: "TEE-BLK-L", Size: "L", Color: "black", Stock: 5, Price: &price},
		},
		Images: []ImageInput{
			{ImageURL: "https://cdn.example.com/tee.jpg"},
		},
	}
}

func TestProductController_CreateProduct_AdminOnly(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	regular := createControllerUser(t, testDB, "user@example.com", false)

	// No token
	w := doJSON(router, "POST", "/products", "", sampleProductRequest())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Regular user
	w = doJSON(router, "POST", "/products", controllerToken(t, regular), sampleProductRequest())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_ADMIN_ONLY")

	// Admin
	w = doJSON(router, "POST", "/products", controllerToken(t, admin), sampleProductRequest())
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	product := response["product"].(map[string]interface{})
	assert.Equal(t, "Classic Cotton Tee", product["name"])

	variants := product["variants"].([]interface{})
	require.Len(t, variants, 2)
	first := variants[0].(map[string]interface{})
	assert.InDelta(t, 19.99, first["final_price"], 0.001)

	// First image becomes main when none is flagged
	images := product["images"].([]interface{})
	require.Len(t, images, 1)
	assert.Equal(t, true, images[0].(map[string]interface{})["is_main"])
}

func TestProductController_CreateProduct_Validation(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	token := controllerToken(t, admin)

	req := sampleProductRequest()
	req.Name = ""
	w := doJSON(router, "POST", "/products", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = sampleProductRequest()
	req.BasePrice = -1
	w = doJSON(router, "POST", "/products", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = sampleProductRequest()
	req.Status = "archived"
	w = doJSON(router, "POST", "/products", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_ListAndGet(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	w := doJSON(router, "POST", "/products", controllerToken(t, admin), sampleProductRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	// Catalog is public
	w = doJSON(router, "GET", "/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	w = doJSON(router, "GET", "/products?search=nothing-matches", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])

	products := testListedProducts(t, router)
	productID := products[0]

	w = doJSON(router, "GET", fmt.Sprintf("/products/%d", productID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TEE-BLK-M")

	w = doJSON(router, "GET", "/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
}

// testListedProducts returns the IDs from GET /products
func testListedProducts(t *testing.T, router *gin.Engine) []uint {
	w := doJSON(router, "GET", "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Products []struct {
			ID uint `json:"id"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	ids := make([]uint, 0, len(response.Products))
	for _, p := range response.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductController_UpdateProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	token := controllerToken(t, admin)

	w := doJSON(router, "POST", "/products", token, sampleProductRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	productID := testListedProducts(t, router)[0]

	update := sampleProductRequest()
	update.Name = "Classic Cotton Tee v2"
	update.Variants = []VariantInput{
		{SKU: "TEE-WHT-M", Size: "M", Color: "white", Stock: 3},
	}

	w = doJSON(router, "PUT", fmt.Sprintf("/products/%d", productID), token, update)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	product := response["product"].(map[string]interface{})
	assert.Equal(t, "Classic Cotton Tee v2", product["name"])

	// Variant set was replaced wholesale
	variants := product["variants"].([]interface{})
	require.Len(t, variants, 1)
	assert.Equal(t, "TEE-WHT-M", variants[0].(map[string]interface{})["sku"])

	w = doJSON(router, "PUT", "/products/9999", token, update)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_DeleteProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	token := controllerToken(t, admin)

	w := doJSON(router, "POST", "/products", token, sampleProductRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	productID := testListedProducts(t, router)[0]

	w = doJSON(router, "DELETE", fmt.Sprintf("/products/%d", productID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", fmt.Sprintf("/products/%d", productID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "DELETE", fmt.Sprintf("/products/%d", productID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_VariantRoutes(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	admin := createControllerUser(t, testDB, "admin@example.com", true)
	token := controllerToken(t, admin)

	w := doJSON(router, "POST", "/products", token, sampleProductRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	productID := testListedProducts(t, router)[0]

	w = doJSON(router, "POST", fmt.Sprintf("/products/%d/variants", productID), token, VariantInput{
		SKU: "TEE-RED-M", Size: "M", Color: "red", Stock: 7,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Variant listing is public
	w = doJSON(router, "GET", fmt.Sprintf("/products/%d/variants", productID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	variants := response["variants"].([]interface{})
	require.Len(t, variants, 3)

	variantID := uint(variants[0].(map[string]interface{})["id"].(float64))

	w = doJSON(router, "PUT", fmt.Sprintf("/product-variants/%d", variantID), token, VariantInput{
		SKU: "TEE-BLK-M", Size: "M", Color: "black", Stock: 99,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "99")

	w = doJSON(router, "DELETE", fmt.Sprintf("/product-variants/%d", variantID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", fmt.Sprintf("/product-variants/%d", variantID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
