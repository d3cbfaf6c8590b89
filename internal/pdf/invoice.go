package pdf

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInvoiceNumber is the sentinel shown when a payload carries no
// invoice number.
const DefaultInvoiceNumber = "ZKDEV001"

// LineItem is one billable row of the invoice table.
type LineItem struct {
	Name        string
	Description string
	Quantity    int
	UnitPrice   float64
}

// Amount is the line total (quantity x unit price), rounded to two decimals.
func (it LineItem) Amount() float64 {
	line := decimal.NewFromInt(int64(it.Quantity)).
		Mul(decimal.NewFromFloat(it.UnitPrice)).
		Round(2)
	return line.InexactFloat64()
}

// Invoice is the canonical input of the generator. It is treated as
// immutable for the duration of a generation; every field is optional and
// has a defined placeholder or zero-value rendering.
type Invoice struct {
	InvoiceNumber  string
	InvoiceDate    *time.Time
	DueDate        *time.Time
	CompanyName    string
	CompanyAddress string
	ClientName     string
	ClientAddress  string
	Items          []LineItem
	TaxRate        float64 // percentage, 0-100
	Discount       float64 // absolute amount, subtracted after tax
	Currency       string
	Notes          string
	Terms          string
}

// Number returns the invoice number, falling back to the sentinel when blank.
func (inv *Invoice) Number() string {
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return DefaultInvoiceNumber
	}
	return inv.InvoiceNumber
}

// Totals is the monetary summary of an invoice, each value rounded to two
// decimal places.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ComputeTotals derives the invoice totals: subtotal as the sum of line
// amounts, tax as subtotal x rate/100, total as subtotal + tax - discount.
// A discount larger than subtotal + tax yields a negative total; clamping is
// a business rule that belongs to the caller, not to the renderer.
func (inv *Invoice) ComputeTotals() Totals {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		line := decimal.NewFromInt(int64(it.Quantity)).
			Mul(decimal.NewFromFloat(it.UnitPrice))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(inv.TaxRate)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	total := subtotal.Add(tax).Sub(decimal.NewFromFloat(inv.Discount)).Round(2)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Filename returns the download name for the generated document:
// invoice-{number}.pdf with the number stripped of characters unsafe for a
// filesystem path or a download attribute.
func (inv *Invoice) Filename() string {
	number := unsafeFilenameChars.ReplaceAllString(inv.Number(), "")
	if number == "" {
		number = DefaultInvoiceNumber
	}
	return "invoice-" + number + ".pdf"
}
