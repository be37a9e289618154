package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/settings"
)

// ======================================================
// HANDLER — painel do admin
// ======================================================

type AdminHandler struct {
	db       *gorm.DB
	settings *settings.CommissionSettings
}

func NewAdminHandler(db *gorm.DB, commissionSettings *settings.CommissionSettings) *AdminHandler {
	return &AdminHandler{db: db, settings: commissionSettings}
}

// --------------------------------------------------
// Comissão da plataforma
// --------------------------------------------------

type UpdateCommissionRequest struct {
	RateBps int64 `json:"rate_bps" binding:"min=0"`
}

func (h *AdminHandler) GetCommission(c *gin.Context) {
	bps := h.settings.CurrentRateBps(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"rate_bps":     bps,
		"rate_percent": float64(bps) / 100,
	})
}

func (h *AdminHandler) UpdateCommission(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.settings.UpdateRate(c.Request.Context(), req.RateBps, adminID); err != nil {
		if httperr.IsBusiness(err, "invalid_commission_rate") {
			httperr.BadRequest(c, "invalid_commission_rate",
				"Taxa em basis points deve estar entre 0 e 9999.")
			return
		}
		httperr.Internal(c, "failed_to_update_commission", "Erro ao salvar a taxa.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rate_bps": req.RateBps})
}

// --------------------------------------------------
// Trilha de auditoria
// --------------------------------------------------

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.Model(&models.AuditLog{})

	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
