package repository

import (
	"testing"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Address, *model.ProductVariant) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Status:       model.StatusActive,
	}
	require.NoError(t, testDB.Create(user).Error)

	address := &model.Address{
		UserID:       user.ID,
		FullName:     "Test Recipient",
		AddressLine1: "123 Main St",
		City:         "Springfield",
		IsDefault:    true,
	}
	require.NoError(t, testDB.Create(address).Error)

	product := &model.Product{
		Name:      "Classic Cotton Tee",
		BasePrice: 19.99,
		Status:    model.ProductActive,
		Variants: []model.ProductVariant{
			{SKU: "TEE-BLK-M", Size: "M", Color: "black", Stock: 10},
		},
	}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, NewOrderRepository(testDB), user, address, &product.Variants[0]
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	_, repo, user, address, variant := setupOrderTest(t)

	order := &model.Order{
		UserID:        user.ID,
		AddressID:     address.ID,
		TotalPrice:    39.98,
		PaymentMethod: "cod",
		Status:        model.OrderStatusPending,
		OrderItems: []model.OrderItem{
			{VariantID: variant.ID, Quantity: 2, Price: 19.99},
		},
	}
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 39.98, found.TotalPrice)

	// Items, variant, product and address come preloaded
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, "TEE-BLK-M", found.OrderItems[0].Variant.SKU)
	assert.Equal(t, "Classic Cotton Tee", found.OrderItems[0].Variant.Product.Name)
	assert.Equal(t, "123 Main St", found.Address.AddressLine1)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, address, variant := setupOrderTest(t)

	for i := 0; i < 3; i++ {
		order := &model.Order{
			UserID:     user.ID,
			AddressID:  address.ID,
			TotalPrice: 19.99,
			Status:     model.OrderStatusPending,
			OrderItems: []model.OrderItem{
				{VariantID: variant.ID, Quantity: 1, Price: 19.99},
			},
		}
		require.NoError(t, repo.Create(order))
	}

	other := &model.User{
		Name:         "Other User",
		Email:        "other@example.com",
		PasswordHash: "hashedpassword",
		Status:       model.StatusActive,
	}
	require.NoError(t, testDB.Create(other).Error)

	orders, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	orders, err = repo.FindByUserID(other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	_, repo, user, address, variant := setupOrderTest(t)

	order := &model.Order{
		UserID:     user.ID,
		AddressID:  address.ID,
		TotalPrice: 19.99,
		Status:     model.OrderStatusPending,
		OrderItems: []model.OrderItem{
			{VariantID: variant.ID, Quantity: 1, Price: 19.99},
		},
	}
	require.NoError(t, repo.Create(order))

	require.NoError(t, repo.UpdateStatus(order.ID, model.OrderStatusDelivered))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, found.Status)
}
