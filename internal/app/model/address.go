package model

import (
	"time"
)

type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Label        string    `gorm:"size:100" json:"label"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Phone        string    `gorm:"size:30" json:"phone"`
	AddressLine1 string    `gorm:"type:text;not null" json:"address_line1"`
	AddressLine2 string    `gorm:"type:text" json:"address_line2"`
	City         string    `gorm:"size:100;not null" json:"city"`
	State        string    `gorm:"size:100" json:"state"`
	PostalCode   string    `gorm:"size:20" json:"postal_code"`
	Country      string    `gorm:"size:100" json:"country"`
	CountryCode  string    `gorm:"size:2" json:"country_code"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "user_addresses"
}

// AddressUpdate is a partial update: nil fields are left untouched.
// It replaces ad-hoc column lists at call sites with one explicit value object.
type AddressUpdate struct {
	Label        *string
	FullName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
	CountryCode  *string
	IsDefault    *bool
}

// Changes returns the set columns as a gorm update map
func (u *AddressUpdate) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			changes[col] = *v
		}
	}
	set("label", u.Label)
	set("full_name", u.FullName)
	set("phone", u.Phone)
	set("address_line1", u.AddressLine1)
	set("address_line2", u.AddressLine2)
	set("city", u.City)
	set("state", u.State)
	set("postal_code", u.PostalCode)
	set("country", u.Country)
	set("country_code", u.CountryCode)
	if u.IsDefault != nil {
		changes["is_default"] = *u.IsDefault
	}
	return changes
}
