package controller

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/jwkang/stylecart-backend/internal/middleware"
	"github.com/jwkang/stylecart-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func controllerToken(t *testing.T, user *model.User) string {
	token, err := util.GenerateToken(user.ID, user.Email, user.IsAdmin, testControllerSecret, 24*time.Hour)
	require.NoError(t, err)
	return token
}

func createControllerUser(t *testing.T, testDB *gorm.DB, email string, isAdmin bool) *model.User {
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		IsAdmin:      isAdmin,
		Status:       model.StatusActive,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createControllerProduct(t *testing.T, testDB *gorm.DB) *model.Product {
	product := &model.Product{
		Name:      "Classic Cotton Tee",
		BasePrice: 19.99,
		Status:    model.ProductActive,
		Variants: []model.ProductVariant{
			{SKU: "TEE-BLK-M", Size: "M", Color: "black", Stock: 10},
		},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func setupCartControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cartRepo := repository.NewCartRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	cartService := service.NewCartService(cartRepo, variantRepo)
	ctrl := NewCartController(cartService)

	authMiddleware := middleware.NewAuthMiddleware(testControllerSecret, repository.NewUserRepository(testDB))

	router := gin.New()
	cart := router.Group("/cart", authMiddleware.Authenticate())
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("", ctrl.AddToCart)
		cart.DELETE("/item", ctrl.RemoveFromCart)
		cart.DELETE("", ctrl.ClearCart)
	}

	return router, testDB
}

func TestCartController_AddToCart(t *testing.T) {
	router, testDB := setupCartControllerTest(t)

	user := createControllerUser(t, testDB, "test@example.com", false)
	product := createControllerProduct(t, testDB)
	token := controllerToken(t, user)

	w := doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: product.Variants[0].ID,
		Quantity:  2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Item added to cart", response["message"])
	assert.NotNil(t, response["cart_item"])
}

func TestCartController_AddToCart_Validation(t *testing.T) {
	router, testDB := setupCartControllerTest(t)

	user := createControllerUser(t, testDB, "test@example.com", false)
	product := createControllerProduct(t, testDB)
	token := controllerToken(t, user)

	// Zero quantity fails validation
	w := doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: product.Variants[0].ID,
		Quantity:  0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown variant
	w = doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: 9999,
		Quantity:  1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESOURCE_NOT_FOUND")
}

func TestCartController_GetCart(t *testing.T) {
	router, testDB := setupCartControllerTest(t)

	user := createControllerUser(t, testDB, "test@example.com", false)
	product := createControllerProduct(t, testDB)
	token := controllerToken(t, user)

	w := doJSON(router, "GET", "/cart", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, float64(0), response["total"])

	doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: product.Variants[0].ID,
		Quantity:  3,
	})

	w = doJSON(router, "GET", "/cart", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
	assert.InDelta(t, 59.97, response["total"], 0.001)
}

func TestCartController_RemoveFromCart(t *testing.T) {
	router, testDB := setupCartControllerTest(t)

	user := createControllerUser(t, testDB, "test@example.com", false)
	product := createControllerProduct(t, testDB)
	token := controllerToken(t, user)

	doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: product.Variants[0].ID,
		Quantity:  1,
	})

	w := doJSON(router, "DELETE", "/cart/item", token, RemoveFromCartRequest{
		VariantID: product.Variants[0].ID,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Removing again is a 404
	w = doJSON(router, "DELETE", "/cart/item", token, RemoveFromCartRequest{
		VariantID: product.Variants[0].ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	router, testDB := setupCartControllerTest(t)

	user := createControllerUser(t, testDB, "test@example.com", false)
	product := createControllerProduct(t, testDB)
	token := controllerToken(t, user)

	doJSON(router, "POST", "/cart", token, AddToCartRequest{
		VariantID: product.Variants[0].ID,
		Quantity:  2,
	})

	w := doJSON(router, "DELETE", "/cart", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/cart", token, nil)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}

func TestCartController_RequiresAuth(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	w := doJSON(router, "GET", "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
