package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jwkang/stylecart-backend/config"
	"github.com/jwkang/stylecart-backend/internal/app/controller"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/jwkang/stylecart-backend/internal/middleware"
	"github.com/jwkang/stylecart-backend/internal/router"
	"github.com/jwkang/stylecart-backend/internal/scheduler"
	"github.com/jwkang/stylecart-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting StyleCart Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed lookup tables
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	imageRepo := repository.NewImageRepository(db.GetDB())
	catalogRepo := repository.NewCatalogRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	addressService := service.NewAddressService(addressRepo)
	productService := service.NewProductService(productRepo, variantRepo, imageRepo, db.GetDB())
	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService(cartRepo, variantRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, db.GetDB())

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	addressController := controller.NewAddressController(addressService)
	productController := controller.NewProductController(productService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	// Start the stale cart purge scheduler
	cartScheduler := scheduler.NewCartScheduler(cartService, cfg.Cart.PurgeSchedule, cfg.Cart.StaleDays)
	if err := cartScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart scheduler", err)
	}
	defer cartScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		addressController,
		productController,
		catalogController,
		cartController,
		orderController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
