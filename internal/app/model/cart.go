package model

import (
	"time"
)

// CartItem is keyed by (user, variant): adding the same variant twice
// updates the existing row instead of inserting a second one.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"user_id"`
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"variant_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"` // variant final price at add time
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User           `gorm:"foreignKey:UserID" json:"-"`
	Variant ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
