package service

import (
	"testing"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, AddressService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)

	orderService := NewOrderService(orderRepo, cartRepo, addressRepo, testDB)
	cartService := NewCartService(cartRepo, variantRepo)
	addressService := NewAddressService(addressRepo)

	return orderService, cartService, addressService, testDB
}

func TestOrderService_PlaceOrder(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 19.99, nil)
	variantID := product.Variants[0].ID

	_, err := cartService.AddToCart(user.ID, variantID, 3)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, address.ID, "card")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, address.ID, order.AddressID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.InDelta(t, 3*19.99, order.TotalPrice, 0.001)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, variantID, order.OrderItems[0].VariantID)
	assert.Equal(t, 3, order.OrderItems[0].Quantity)
	assert.Equal(t, 19.99, order.OrderItems[0].Price)

	// Cart is cleared as part of the same transaction
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderService_PlaceOrder_DefaultPaymentMethod(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 10, nil)
	_, err := cartService.AddToCart(user.ID, product.Variants[0].ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, address.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "cod", order.PaymentMethod)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	orderService, _, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	_, err := orderService.PlaceOrder(user.ID, address.ID, "cod")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_PlaceOrder_InvalidAddress(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	other := createTestUser(t, testDB, "other@example.com")

	// Address belongs to someone else
	othersAddress := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(other.ID, othersAddress))

	product := createTestProduct(t, testDB, 19.99, nil)
	_, err := cartService.AddToCart(user.ID, product.Variants[0].ID, 1)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(user.ID, othersAddress.ID, "cod")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = orderService.PlaceOrder(user.ID, 9999, "cod")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// The cart survives a rejected order
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderService_PlaceOrder_VariantDeleted(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 19.99, nil)
	variantID := product.Variants[0].ID
	_, err := cartService.AddToCart(user.ID, variantID, 1)
	require.NoError(t, err)

	// The variant disappears between add and checkout
	require.NoError(t, testDB.Delete(&model.ProductVariant{}, variantID).Error)

	_, err = orderService.PlaceOrder(user.ID, address.ID, "cod")
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestOrderService_PlaceOrder_PriceChangedAfterAdd(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 20, nil)
	variantID := product.Variants[0].ID

	_, err := cartService.AddToCart(user.ID, variantID, 2)
	require.NoError(t, err)

	// Price rises after the item entered the cart
	require.NoError(t, testDB.Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("price", 30).Error)

	order, err := orderService.PlaceOrder(user.ID, address.ID, "cod")
	require.NoError(t, err)

	// The total reflects the current price, the line item keeps the
	// price captured at add time
	assert.InDelta(t, 60, order.TotalPrice, 0.001)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(20), order.OrderItems[0].Price)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 15, nil)
	variantID := product.Variants[0].ID

	for i := 0; i < 2; i++ {
		_, err := cartService.AddToCart(user.ID, variantID, 1)
		require.NoError(t, err)
		_, err = orderService.PlaceOrder(user.ID, address.ID, "cod")
		require.NoError(t, err)
	}

	orders, err := orderService.GetUserOrders(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	// Another user sees nothing
	other := createTestUser(t, testDB, "other@example.com")
	orders, err = orderService.GetUserOrders(other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	other := createTestUser(t, testDB, "other@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 15, nil)
	_, err := cartService.AddToCart(user.ID, product.Variants[0].ID, 1)
	require.NoError(t, err)

	placed, err := orderService.PlaceOrder(user.ID, address.ID, "cod")
	require.NoError(t, err)

	order, err := orderService.GetOrderByID(user.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, order.ID)

	// Ownership mismatch looks like a missing order
	_, err = orderService.GetOrderByID(other.ID, placed.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = orderService.GetOrderByID(user.ID, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderService, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 15, nil)
	_, err := cartService.AddToCart(user.ID, product.Variants[0].ID, 1)
	require.NoError(t, err)

	placed, err := orderService.PlaceOrder(user.ID, address.ID, "cod")
	require.NoError(t, err)

	require.NoError(t, orderService.UpdateOrderStatus(placed.ID, model.OrderStatusShipped))

	order, err := orderService.GetOrderByID(user.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)

	err = orderService.UpdateOrderStatus(9999, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// panickingOrderRepository blows up on the post-commit order re-read.
type panickingOrderRepository struct {
	repository.OrderRepository
}

func (r *panickingOrderRepository) FindByID(id uint) (*model.Order, error) {
	panic("order lookup failed hard")
}

func TestOrderService_PlaceOrder_PanicPropagates(t *testing.T) {
	_, cartService, addressService, testDB := setupOrderServiceTest(t)

	user := createTestUser(t, testDB, "test@example.com")
	address := newTestAddress("home", true)
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	product := createTestProduct(t, testDB, 15, nil)
	_, err := cartService.AddToCart(user.ID, product.Variants[0].ID, 1)
	require.NoError(t, err)

	orderRepo := &panickingOrderRepository{repository.NewOrderRepository(testDB)}
	cartRepo := repository.NewCartRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	orderService := NewOrderService(orderRepo, cartRepo, addressRepo, testDB)

	// A panic mid-placement must reach the caller instead of turning
	// into a silent (nil, nil) return
	assert.Panics(t, func() {
		_, _ = orderService.PlaceOrder(user.ID, address.ID, "cod")
	})
}
