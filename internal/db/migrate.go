package db

import (
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Address{},
		&model.Category{},
		&model.Gender{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedGenders(); err != nil {
		logger.Error("Failed to seed genders", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedGenders fills the gender lookup table used by product filters
func seedGenders() error {
	var count int64
	if err := DB.Model(&model.Gender{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Genders already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	genders := []model.Gender{
		{Name: "men"},
		{Name: "women"},
		{Name: "unisex"},
		{Name: "kids"},
	}

	for _, gender := range genders {
		if err := DB.Create(&gender).Error; err != nil {
			logger.Error("Failed to create gender", err, map[string]interface{}{
				"gender": gender.Name,
			})
			return err
		}
	}

	logger.Info("Genders seeded successfully", map[string]interface{}{
		"total": len(genders),
	})
	return nil
}
