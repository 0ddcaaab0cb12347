package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	AddressID     uint        `gorm:"not null" json:"address_id"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	PaymentMethod string      `gorm:"type:varchar(50);default:'cod'" json:"payment_method"`
	Status        OrderStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	Address    Address     `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	VariantID uint      `gorm:"not null;index" json:"variant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"` // unit price captured in the cart
	CreatedAt time.Time `json:"created_at"`

	Order   Order          `gorm:"foreignKey:OrderID" json:"-"`
	Variant ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
