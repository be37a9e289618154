package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// Create: só o cliente do booking, só depois de concluído, uma vez só.
func (h *ReviewHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, req.BookingID).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking não encontrado.")
		return
	}
	if b.CustomerID != customerID {
		httperr.Forbidden(c, "not_booking_owner", "Só o cliente do booking pode avaliar.")
		return
	}
	if b.Status != string(domain.StatusCompleted) {
		httperr.Conflict(c, "booking_not_completed", "Só bookings concluídos podem ser avaliados.")
		return
	}

	var count int64
	h.db.Model(&models.Review{}).Where("booking_id = ?", b.ID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "review_already_exists", "Este booking já foi avaliado.")
		return
	}

	review := models.Review{
		BookingID:  b.ID,
		CustomerID: customerID,
		VendorID:   b.VendorID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Erro ao salvar a avaliação.")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListForVendor é público: alimenta a página do prestador.
// O :id é o do perfil (mesma rota da vitrine), não o do usuário.
func (h *ReviewHandler) ListForVendor(c *gin.Context) {
	var profile models.VendorProfile
	if err := h.db.First(&profile, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "vendor_not_found", "Prestador não encontrado.")
		return
	}
	vendorID := profile.UserID

	var reviews []models.Review
	if err := h.db.
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(100).
		Find(&reviews).Error; err != nil {

		httperr.Internal(c, "failed_to_list_reviews", "Erro ao listar avaliações.")
		return
	}

	var avg struct {
		Avg   float64
		Count int64
	}
	h.db.Model(&models.Review{}).
		Select("AVG(rating) as avg, COUNT(*) as count").
		Where("vendor_id = ?", vendorID).
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": avg.Avg,
		"total":          avg.Count,
	})
}
