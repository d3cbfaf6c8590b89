package pdf

import "time"

// Payload is the JSON shape accepted at the API boundary. Historical clients
// disagree on several field names (name vs itemName, rate vs unitPrice, note
// vs notes, dateIssued vs invoiceDate, terms vs additionalInfo); the payload
// accepts every observed spelling and Normalize folds them into the one
// canonical Invoice value. The layout engine never sees the variants.
type Payload struct {
	InvoiceNumber  string        `json:"invoiceNumber"`
	InvoiceDate    string        `json:"invoiceDate"`
	DateIssued     string        `json:"dateIssued"`
	DueDate        string        `json:"dueDate"`
	DateDue        string        `json:"dateDue"`
	CompanyName    string        `json:"companyName"`
	CompanyAddress string        `json:"companyAddress"`
	ClientName     string        `json:"clientName"`
	ClientAddress  string        `json:"clientAddress"`
	Items          []ItemPayload `json:"items"`
	TaxRate        float64       `json:"taxRate"`
	Discount       float64       `json:"discount"`
	Currency       string        `json:"currency"`
	Notes          string        `json:"notes"`
	Note           string        `json:"note"`
	AdditionalInfo string        `json:"additionalInfo"`
	Terms          string        `json:"terms"`
}

// ItemPayload is one line item as sent over the wire.
type ItemPayload struct {
	Name        string  `json:"name"`
	ItemName    string  `json:"itemName"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Rate        float64 `json:"rate"`
}

// Normalize resolves the field-name variants and returns the canonical
// Invoice. Items is never nil.
func (p Payload) Normalize() Invoice {
	inv := Invoice{
		InvoiceNumber:  p.InvoiceNumber,
		InvoiceDate:    parseDate(firstNonEmpty(p.InvoiceDate, p.DateIssued)),
		DueDate:        parseDate(firstNonEmpty(p.DueDate, p.DateDue)),
		CompanyName:    p.CompanyName,
		CompanyAddress: p.CompanyAddress,
		ClientName:     p.ClientName,
		ClientAddress:  p.ClientAddress,
		Items:          make([]LineItem, 0, len(p.Items)),
		TaxRate:        p.TaxRate,
		Discount:       p.Discount,
		Currency:       p.Currency,
		Notes:          firstNonEmpty(p.Notes, p.Note),
		Terms:          firstNonEmpty(p.Terms, p.AdditionalInfo),
	}
	for _, it := range p.Items {
		unitPrice := it.UnitPrice
		if unitPrice == 0 {
			unitPrice = it.Rate
		}
		inv.Items = append(inv.Items, LineItem{
			Name:        firstNonEmpty(it.Name, it.ItemName),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	return inv
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseDate accepts the two date spellings seen in payloads: RFC 3339
// timestamps and bare "2006-01-02" dates. Anything else is treated as a
// missing date, never as an error.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
