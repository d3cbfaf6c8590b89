package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/config"
	"github.com/zkdev/invoicer/internal/httpx"
	"github.com/zkdev/invoicer/internal/models"
	"github.com/zkdev/invoicer/internal/pdf"
	"github.com/zkdev/invoicer/internal/validation"
)

type InvoiceHandler struct {
	db      *gorm.DB
	company config.CompanyConfig
}

func NewInvoiceHandler(db *gorm.DB, company config.CompanyConfig) *InvoiceHandler {
	return &InvoiceHandler{db: db, company: company}
}

type invoiceItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type invoiceRequest struct {
	ClientID  uint                 `json:"client_id"`
	Number    string               `json:"number"`
	IssueDate string               `json:"issue_date"`
	DueDate   string               `json:"due_date"`
	TaxRate   float64              `json:"tax_rate"`
	Discount  float64              `json:"discount"`
	Currency  string               `json:"currency"`
	Notes     string               `json:"notes"`
	Terms     string               `json:"terms"`
	Items     []invoiceItemRequest `json:"items"`
}

func (req invoiceRequest) validate() validation.Violations {
	v := make(validation.Violations)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	validation.RangeFloat("tax_rate", req.TaxRate, 0, 100, v)
	validation.NonNegative("discount", req.Discount, v)
	for i, item := range req.Items {
		prefix := "items[" + strconv.Itoa(i) + "]."
		validation.Required(prefix+"name", item.Name, v)
		validation.NonNegative(prefix+"unit_price", item.UnitPrice, v)
		if item.Quantity < 0 {
			v[prefix+"quantity"] = "must_not_be_negative"
		}
	}
	return v
}

func (req invoiceRequest) items() []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(req.Items))
	for i, item := range req.Items {
		items = append(items, models.InvoiceItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Position:    i,
		})
	}
	return items
}

// orderedItems preloads the invoice's items in display order.
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// invoiceResponse pairs the stored invoice with its derived totals.
type invoiceResponse struct {
	models.Invoice
	Totals pdf.Totals `json:"totals"`
}

func respondInvoice(w http.ResponseWriter, status int, invoice models.Invoice) {
	httpx.JSON(w, status, invoiceResponse{Invoice: invoice, Totals: invoice.Totals()})
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	var invoices []models.Invoice
	var total int64

	db := h.db.Model(&models.Invoice{})
	if query != "" {
		db = db.Where("number LIKE ?", "%"+query+"%")
	}
	if status := r.URL.Query().Get("status"); status != "" {
		db = db.Where("status = ?", status)
	}
	db.Count(&total)
	db.Preload("Client").Order("created_at DESC").Limit(limit).Offset(offset).Find(&invoices)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": invoices,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	var client models.Client
	if err := h.db.First(&client, "id = ?", req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "client_not_found", nil)
		return
	}

	issueDate := parseDate(req.IssueDate)
	number := req.Number
	if number == "" {
		year := time.Now().Year()
		if issueDate != nil {
			year = issueDate.Year()
		}
		generated, err := models.GenerateInvoiceNumber(h.db, year)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "number_generation_failed", nil)
			return
		}
		number = generated
	}

	invoice := models.Invoice{
		Number:    number,
		ClientID:  req.ClientID,
		IssueDate: issueDate,
		DueDate:   parseDate(req.DueDate),
		Status:    models.InvoiceStatusDraft,
		TaxRate:   req.TaxRate,
		Discount:  req.Discount,
		Currency:  req.Currency,
		Notes:     req.Notes,
		Terms:     req.Terms,
		Items:     req.items(),
	}
	if err := h.db.Create(&invoice).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}

	invoice.Client = &client
	respondInvoice(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.Preload("Client").Preload("Items", orderedItems).First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	respondInvoice(w, http.StatusOK, invoice)
}

// Update replaces the invoice's editable fields and its whole item list.
// Only draft invoices can change.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !invoice.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "invoice_not_editable", nil)
		return
	}

	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	invoice.ClientID = req.ClientID
	if req.Number != "" {
		invoice.Number = req.Number
	}
	invoice.IssueDate = parseDate(req.IssueDate)
	invoice.DueDate = parseDate(req.DueDate)
	invoice.TaxRate = req.TaxRate
	invoice.Discount = req.Discount
	invoice.Currency = req.Currency
	invoice.Notes = req.Notes
	invoice.Terms = req.Terms

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		items := req.items()
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		invoice.Items = items
		return tx.Omit("Items").Save(&invoice).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}

	respondInvoice(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !invoice.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "invoice_not_editable", nil)
		return
	}

	if err := h.db.Delete(&invoice).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem appends one line item to a draft invoice.
func (h *InvoiceHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !invoice.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "invoice_not_editable", nil)
		return
	}

	var req invoiceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.NonNegative("unit_price", req.UnitPrice, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	item := models.InvoiceItem{
		InvoiceID:   invoice.ID,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Position:    len(invoice.Items),
	}
	if err := h.db.Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// RemoveItem deletes one line item from a draft invoice.
func (h *InvoiceHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	itemID := r.PathValue("item_id")

	var invoice models.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !invoice.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "invoice_not_editable", nil)
		return
	}

	result := h.db.Where("id = ? AND invoice_id = ?", itemID, invoice.ID).Delete(&models.InvoiceItem{})
	if result.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if result.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus moves the invoice to another lifecycle state.
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	var req struct {
		Status models.InvoiceStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !req.Status.Valid() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_status", nil)
		return
	}

	invoice.Status = req.Status
	if err := h.db.Save(&invoice).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

// PDF renders the stored invoice as a downloadable document. The optional
// engine=fpdf query parameter switches to the library-backed renderer.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var invoice models.Invoice
	if err := h.db.Preload("Client").Preload("Items", orderedItems).First(&invoice, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	document := invoice.Document(h.company.Name, h.company.Address)
	doc, err := renderDocument(&document, r.URL.Query().Get("engine"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	httpx.Attachment(w, doc.Filename, doc.MIMEType, doc.Bytes)
}

// Preview renders a document straight from the request payload without
// touching the database. An empty item list is fine; the document shows a
// placeholder row.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var payload pdf.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	invoice := payload.Normalize()
	doc, err := renderDocument(&invoice, r.URL.Query().Get("engine"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	httpx.Attachment(w, doc.Filename, doc.MIMEType, doc.Bytes)
}

func renderDocument(inv *pdf.Invoice, engine string) (*pdf.Document, error) {
	if engine == "fpdf" {
		return pdf.Generate(inv, pdf.NewFpdfCanvas())
	}
	return pdf.InvoicePDF(inv)
}

// parseDate accepts bare dates and RFC 3339 timestamps; anything else counts
// as a missing date.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
