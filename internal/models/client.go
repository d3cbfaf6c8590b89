package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client represents a billing recipient.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Client information
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Company string `gorm:"size:255" json:"company,omitempty"`

	// Address
	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`

	// Relations
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// FullAddress returns the address as a single display line, skipping the
// parts that are not set.
func (c *Client) FullAddress() string {
	var parts []string
	if c.Address != "" {
		parts = append(parts, c.Address)
	}
	cityLine := strings.TrimSpace(c.PostalCode + " " + c.City)
	if cityLine != "" {
		parts = append(parts, cityLine)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}
