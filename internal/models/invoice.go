package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/pdf"
)

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a stored invoice. All money amounts live on the line items; the
// totals are always derived, never persisted.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Number string `gorm:"size:50;uniqueIndex" json:"number"`

	// Client relationship
	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Dates are optional; the rendered document shows a placeholder when
	// they are missing.
	IssueDate *time.Time `json:"issue_date,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`

	Status InvoiceStatus `gorm:"size:20;default:'draft'" json:"status"`

	TaxRate  float64 `json:"tax_rate"`  // percentage, 0-100
	Discount float64 `json:"discount"`  // absolute amount
	Currency string  `gorm:"size:10;default:'USD'" json:"currency"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	Terms string `gorm:"type:text" json:"terms,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CanEdit returns true while the invoice content may still change.
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceStatusDraft
}

// Document maps the stored invoice onto the renderer's input. The issuing
// company is not stored per invoice, so the caller supplies it.
func (i *Invoice) Document(companyName, companyAddress string) pdf.Invoice {
	doc := pdf.Invoice{
		InvoiceNumber:  i.Number,
		InvoiceDate:    i.IssueDate,
		DueDate:        i.DueDate,
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
		TaxRate:        i.TaxRate,
		Discount:       i.Discount,
		Currency:       i.Currency,
		Notes:          i.Notes,
		Terms:          i.Terms,
		Items:          make([]pdf.LineItem, 0, len(i.Items)),
	}
	if i.Client != nil {
		doc.ClientName = i.Client.Name
		doc.ClientAddress = i.Client.FullAddress()
	}
	for _, item := range i.Items {
		doc.Items = append(doc.Items, pdf.LineItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return doc
}

// Totals derives the monetary summary through the same arithmetic the
// rendered document uses, so the API and the download can never disagree.
func (i *Invoice) Totals() pdf.Totals {
	doc := i.Document("", "")
	return doc.ComputeTotals()
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description,omitempty"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`

	// Position orders the lines on the rendered document.
	Position int `gorm:"default:0" json:"position"`
}

// Amount is the rounded line total.
func (item *InvoiceItem) Amount() float64 {
	line := pdf.LineItem{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	return line.Amount()
}

// GenerateInvoiceNumber produces the next sequential number for the given
// year, INV-YYYY-NNNN. The sequence is derived from a count, so a concurrent
// insert can collide with it; after a few occupied candidates it falls back
// to a random suffix rather than failing the request.
func GenerateInvoiceNumber(db *gorm.DB, year int) (string, error) {
	var count int64
	err := db.Model(&Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("INV-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count invoices for %d: %w", year, err)
	}

	for attempt := int64(0); attempt < 5; attempt++ {
		candidate := fmt.Sprintf("INV-%d-%04d", year, count+1+attempt)
		var taken int64
		if err := db.Model(&Invoice{}).Where("number = ?", candidate).Count(&taken).Error; err != nil {
			return "", fmt.Errorf("check invoice number %s: %w", candidate, err)
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return fmt.Sprintf("INV-%d-%s", year, uuid.NewString()[:8]), nil
}
