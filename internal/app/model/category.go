package model

import "time"

// Category is a lookup table for product categorization
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Gender is a lookup table for the target audience of a product
type Gender struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (Gender) TableName() string {
	return "genders"
}
