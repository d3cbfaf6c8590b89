package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/config"
	"github.com/zkdev/invoicer/internal/models"
)

func seedClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{Name: "Acme Corp", Address: "12 Main St", City: "Berlin"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func newInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return NewInvoiceHandler(db, config.CompanyConfig{Name: "Studio North", Address: "1 North Ave"})
}

func TestInvoiceCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	body := `{"client_id":` + strconv.Itoa(int(client.ID)) + `,"issue_date":"2024-03-01","tax_rate":10,"currency":"USD","items":[{"name":"Design","description":"homepage","quantity":2,"unit_price":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var created invoiceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Number != "INV-2024-0001" {
		t.Errorf("number = %q, want INV-2024-0001", created.Number)
	}
	if created.Status != models.InvoiceStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.Totals.Subtotal != 200 || created.Totals.Tax != 20 || created.Totals.Total != 220 {
		t.Errorf("totals = %+v", created.Totals)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	var list struct {
		Items []models.Invoice `json:"items"`
		Total int64            `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Total != 1 {
		t.Fatalf("unexpected list: %#v", list)
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	h := newInvoiceHandler(db)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing client", `{"items":[]}`, "client_id"},
		{"tax rate out of range", `{"client_id":1,"tax_rate":150}`, "tax_rate"},
		{"negative discount", `{"client_id":1,"discount":-5}`, "discount"},
		{"item without name", `{"client_id":1,"items":[{"quantity":1,"unit_price":10}]}`, "items[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422 got %d body=%s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Fatalf("expected %q violation, got %s", tt.want, w.Body.String())
			}
		})
	}
}

func TestInvoiceCreateUnknownClient(t *testing.T) {
	db := setupTestDB(t)
	h := newInvoiceHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{"client_id":42}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "client_not_found") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestInvoiceUpdateReplacesItems(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{
		Number:   "INV-2024-0100",
		ClientID: client.ID,
		Status:   models.InvoiceStatusDraft,
		Items:    []models.InvoiceItem{{Name: "Old Item", Quantity: 1, UnitPrice: 10}},
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	body := `{"client_id":` + strconv.Itoa(int(client.ID)) + `,"tax_rate":5,"items":[{"name":"Design","quantity":2,"unit_price":100},{"name":"Hosting","quantity":1,"unit_price":50}]}`
	req := httptest.NewRequest(http.MethodPut, "/invoices/"+id, strings.NewReader(body))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var items []models.InvoiceItem
	if err := db.Where("invoice_id = ?", invoice.ID).Find(&items).Error; err != nil {
		t.Fatalf("reload items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items after replace, got %d", len(items))
	}
	for _, item := range items {
		if item.Name == "Old Item" {
			t.Fatalf("old item survived the replace: %+v", items)
		}
	}
}

func TestInvoiceUpdateRejectsNonDraft(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{Number: "INV-2024-0200", ClientID: client.ID, Status: models.InvoiceStatusSent}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	req := httptest.NewRequest(http.MethodPut, "/invoices/"+id,
		strings.NewReader(`{"client_id":`+strconv.Itoa(int(client.ID))+`}`))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/invoices/"+id, nil)
	delReq.SetPathValue("id", id)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusConflict {
		t.Fatalf("expected 409 on delete got %d", delW.Code)
	}
}

func TestInvoiceAddAndRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{Number: "INV-2024-0150", ClientID: client.ID, Status: models.InvoiceStatusDraft}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	req := httptest.NewRequest(http.MethodPost, "/invoices/"+id+"/items",
		strings.NewReader(`{"name":"Design","quantity":2,"unit_price":100}`))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.AddItem(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var item models.InvoiceItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.Position != 0 {
		t.Errorf("first item position = %d, want 0", item.Position)
	}

	// Missing name is rejected.
	badReq := httptest.NewRequest(http.MethodPost, "/invoices/"+id+"/items",
		strings.NewReader(`{"quantity":1,"unit_price":10}`))
	badReq.SetPathValue("id", id)
	badW := httptest.NewRecorder()
	h.AddItem(badW, badReq)
	if badW.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", badW.Code)
	}

	itemID := strconv.Itoa(int(item.ID))
	delReq := httptest.NewRequest(http.MethodDelete, "/invoices/"+id+"/items/"+itemID, nil)
	delReq.SetPathValue("id", id)
	delReq.SetPathValue("item_id", itemID)
	delW := httptest.NewRecorder()
	h.RemoveItem(delW, delReq)
	if delW.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d body=%s", delW.Code, delW.Body.String())
	}

	var remaining int64
	db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected no items after remove, got %d", remaining)
	}
}

func TestInvoiceUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{Number: "INV-2024-0300", ClientID: client.ID, Status: models.InvoiceStatusDraft}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	req := httptest.NewRequest(http.MethodPost, "/invoices/"+id+"/status", strings.NewReader(`{"status":"sent"}`))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var stored models.Invoice
	if err := db.First(&stored, invoice.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.InvoiceStatusSent {
		t.Fatalf("status = %q, want sent", stored.Status)
	}

	badReq := httptest.NewRequest(http.MethodPost, "/invoices/"+id+"/status", strings.NewReader(`{"status":"finalized"}`))
	badReq.SetPathValue("id", id)
	badW := httptest.NewRecorder()
	h.UpdateStatus(badW, badReq)
	if badW.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", badW.Code)
	}
}

func TestInvoicePDFDownload(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{
		Number:   "INV-2024-0400",
		ClientID: client.ID,
		Status:   models.InvoiceStatusDraft,
		TaxRate:  10,
		Currency: "USD",
		Items:    []models.InvoiceItem{{Name: "Design", Quantity: 2, UnitPrice: 100}},
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+id+"/pdf", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "invoice-INV-2024-0400.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "%PDF-1.4") {
		t.Errorf("body does not start with a PDF header: %q", body[:16])
	}
	if !strings.Contains(body, "(Design)") || !strings.Contains(body, "($220.00)") {
		t.Error("rendered document is missing invoice content")
	}
	if !strings.Contains(body, "(Studio North)") {
		t.Error("rendered document is missing the company name")
	}
}

func TestInvoicePDFEngineParam(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db)
	h := newInvoiceHandler(db)

	invoice := models.Invoice{Number: "INV-2024-0500", ClientID: client.ID, Status: models.InvoiceStatusDraft}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	id := strconv.Itoa(int(invoice.ID))

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+id+"/pdf?engine=fpdf", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("fpdf engine did not produce a PDF")
	}
}

func TestInvoicePreview(t *testing.T) {
	db := setupTestDB(t)
	h := newInvoiceHandler(db)

	// Variant field names and no items at all; the preview still renders.
	body := `{"invoiceNumber":"DRAFT-1","dateIssued":"2024-03-01","note":"pay soon","currency":"EUR","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "invoice-DRAFT-1.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	out := w.Body.String()
	if !strings.Contains(out, "(No items added yet.)") {
		t.Error("preview of an empty invoice should show the placeholder row")
	}
	if !strings.Contains(out, "(1 Mar 2024)") {
		t.Error("preview should render the issued date")
	}
	if !strings.Contains(out, "(pay soon)") {
		t.Error("preview should render the note")
	}
}

func TestInvoicePreviewEmptyPayload(t *testing.T) {
	db := setupTestDB(t)
	h := newInvoiceHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/invoices/preview", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "invoice-ZKDEV001.pdf") {
		t.Errorf("Content-Disposition = %q, want sentinel filename", cd)
	}
}
