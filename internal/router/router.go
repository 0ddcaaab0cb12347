package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/config"
	"github.com/jwkang/stylecart-backend/internal/app/controller"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	addressController *controller.AddressController
	productController *controller.ProductController
	catalogController *controller.CatalogController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	addressController *controller.AddressController,
	productController *controller.ProductController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		addressController: addressController,
		productController: productController,
		catalogController: catalogController,
		cartController:    cartController,
		orderController:   orderController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "StyleCart API is running",
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", r.authController.Register)
			users.POST("/login", r.authController.Login)

			users.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			users.PUT("/profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			users.PUT("/change-password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
			users.GET("/account-summary", r.authMiddleware.Authenticate(), r.authController.GetAccountSummary)
		}

		addresses := api.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.GET("/default/address", r.addressController.GetDefaultAddress)
			addresses.GET("/:id", r.addressController.GetAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.PUT("/:id/set-default", r.addressController.SetDefaultAddress)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/variants", r.productController.ListVariants)
			products.GET("/:id/images", r.productController.ListImages)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.productController.DeleteProduct,
			)
			products.POST("/:id/variants",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.productController.AddVariant,
			)
			products.POST("/:id/images",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.productController.AddImage,
			)
		}

		variants := api.Group("/product-variants")
		variants.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			variants.PUT("/:id", r.productController.UpdateVariant)
			variants.DELETE("/:id", r.productController.DeleteVariant)
		}

		images := api.Group("/product-images")
		images.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			images.DELETE("/:id", r.productController.DeleteImage)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.catalogController.ListCategories)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAdmin(),
				r.catalogController.CreateCategory,
			)
		}

		api.GET("/genders", r.catalogController.ListGenders)

		cart := api.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("/item", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := api.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.PUT("/:id/status", r.authMiddleware.RequireAdmin(), r.orderController.UpdateOrderStatus)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
