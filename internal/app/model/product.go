package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	BasePrice       float64        `gorm:"not null" json:"base_price"`
	DiscountedPrice *float64       `json:"discounted_price,omitempty"`
	CategoryID      *uint          `gorm:"index" json:"category_id,omitempty"`
	GenderID        *uint          `gorm:"index" json:"gender_id,omitempty"`
	Status          ProductStatus  `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Gender   *Gender          `gorm:"foreignKey:GenderID" json:"gender,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	SKU       string    `gorm:"size:100" json:"sku"`
	Size      string    `gorm:"size:50" json:"size"`
	Color     string    `gorm:"size:50" json:"color"`
	Stock     int       `gorm:"default:0" json:"stock"`
	Price     *float64  `json:"price,omitempty"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// FinalPrice is the variant price, falling back to the product base price
	FinalPrice float64 `gorm:"-" json:"final_price"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// ResolveFinalPrice fills FinalPrice from the variant price or the given base price
func (v *ProductVariant) ResolveFinalPrice(basePrice float64) {
	if v.Price != nil {
		v.FinalPrice = *v.Price
		return
	}
	v.FinalPrice = basePrice
}

type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	IsMain    bool      `gorm:"default:false" json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
