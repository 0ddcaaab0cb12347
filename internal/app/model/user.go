package model

import (
	"time"

	"gorm.io/gorm"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusBanned   UserStatus = "banned"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Phone        string         `json:"phone"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	Status       UserStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []Address `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ProfileComplete reports whether the optional profile fields are filled in
func (u *User) ProfileComplete() bool {
	return u.Name != "" && u.Phone != ""
}
