package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/httpx"
	"github.com/zkdev/invoicer/internal/models"
	"github.com/zkdev/invoicer/internal/validation"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type clientRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (req clientRequest) apply(c *models.Client) {
	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	c.Company = req.Company
	c.Address = req.Address
	c.City = req.City
	c.PostalCode = req.PostalCode
	c.Country = req.Country
}

func (req clientRequest) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	return v
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	var clients []models.Client
	var total int64

	db := h.db.Model(&models.Client{})
	if query != "" {
		db = db.Where("name LIKE ? OR company LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	db.Count(&total)
	db.Order("name").Limit(limit).Offset(offset).Find(&clients)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": clients,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	var client models.Client
	req.apply(&client)
	if err := h.db.Create(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var client models.Client
	if err := h.db.First(&client, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var client models.Client
	if err := h.db.First(&client, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	req.apply(&client)
	if err := h.db.Save(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result := h.db.Delete(&models.Client{}, "id = ?", id)
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
