package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-services-api/internal/httpresp"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

type VendorServiceHandler struct {
	db *gorm.DB
}

func NewVendorServiceHandler(db *gorm.DB) *VendorServiceHandler {
	return &VendorServiceHandler{db: db}
}

// --------- Requests ---------

type CreateVendorServiceRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	BasePriceCents int64  `json:"base_price_cents" binding:"required,min=1"`
}

type UpdateVendorServiceRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Category       *string `json:"category,omitempty"`
	BasePriceCents *int64  `json:"base_price_cents,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *VendorServiceHandler) List(c *gin.Context) {
	vendorID := c.MustGet(middleware.ContextUserID).(uint)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("vendor_id = ?", vendorID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.VendorService
	if err := q.
		Order("id ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	httpresp.List(c, services)
}

func (h *VendorServiceHandler) Create(c *gin.Context) {
	vendorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateVendorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	service := models.VendorService{
		VendorID:       vendorID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       strings.ToLower(req.Category),
		BasePriceCents: req.BasePriceCents,
		Active:         true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *VendorServiceHandler) Update(c *gin.Context) {
	vendorID := c.MustGet(middleware.ContextUserID).(uint)

	id := c.Param("id")

	var service models.VendorService
	if err := h.db.
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&service).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateVendorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		service.Category = strings.ToLower(*req.Category)
	}
	if req.BasePriceCents != nil {
		if *req.BasePriceCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_price"})
			return
		}
		service.BasePriceCents = *req.BasePriceCents
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, service)
}
