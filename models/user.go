package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	Address      Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Orders       []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address is the saved account address, used to pre-fill delivery forms.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
