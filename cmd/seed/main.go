package main

import (
	"fmt"
	"log"

	"github.com/jwkang/stylecart-backend/config"
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/jwkang/stylecart-backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds the database with the lookup tables, an admin account and a few
// demo products. Safe to run more than once.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed lookup tables:", err)
	}

	conn := db.GetDB()

	if err := seedCategories(conn); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}
	if err := seedAdmin(conn); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	if err := seedProducts(conn); err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	fmt.Println("Seed completed successfully!")
}

func seedCategories(conn *gorm.DB) error {
	names := []string{"t-shirts", "shirts", "jeans", "dresses", "jackets", "shoes", "accessories"}

	for _, name := range names {
		var count int64
		if err := conn.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := conn.Create(&model.Category{Name: name}).Error; err != nil {
			return err
		}
		fmt.Printf("Created category: %s\n", name)
	}
	return nil
}

func seedAdmin(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.User{}).Where("email = ?", "admin@stylecart.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         "Admin",
		Email:        "admin@stylecart.local",
		PasswordHash: hash,
		IsAdmin:      true,
		Status:       model.StatusActive,
	}
	if err := conn.Create(admin).Error; err != nil {
		return err
	}

	fmt.Println("Created admin user: admin@stylecart.local")
	return nil
}

func seedProducts(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var category model.Category
	if err := conn.Where("name = ?", "t-shirts").First(&category).Error; err != nil {
		return err
	}
	var gender model.Gender
	if err := conn.Where("name = ?", "unisex").First(&gender).Error; err != nil {
		return err
	}

	premiumPrice := 24.99
	product := &model.Product{
		Name:        "Classic Cotton Tee",
		Description: "Heavyweight cotton t-shirt with a relaxed fit.",
		BasePrice:   19.99,
		CategoryID:  &category.ID,
		GenderID:    &gender.ID,
		Status:      model.ProductActive,
		Variants: []model.ProductVariant{
			{SKU: "TEE-BLK-S", Size: "S", Color: "black", Stock: 50},
			{SKU: "TEE-BLK-M", Size: "M", Color: "black", Stock: 50},
			{SKU: "TEE-WHT-M", Size: "M", Color: "white", Stock: 30, Price: &premiumPrice},
		},
		Images: []model.ProductImage{
			{ImageURL: "https://cdn.stylecart.local/tee-black.jpg", IsMain: true},
			{ImageURL: "https://cdn.stylecart.local/tee-white.jpg"},
		},
	}
	if err := conn.Create(product).Error; err != nil {
		return err
	}

	fmt.Printf("Created product: %s (%d variants)\n", product.Name, len(product.Variants))
	return nil
}
