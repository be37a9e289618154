package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/httpresp"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/storage"
)

const maxPhotoUploadBytes = 8 << 20

type VendorHandler struct {
	db       *gorm.DB
	uploader *storage.Uploader
}

func NewVendorHandler(db *gorm.DB, uploader *storage.Uploader) *VendorHandler {
	return &VendorHandler{db: db, uploader: uploader}
}

// ======================================================
// VITRINE PÚBLICA
// ======================================================

// ListVendors filtra por categoria/cidade. Só aparece quem completou
// o onboarding de pagamento: prestador sem conta de repasse não pode
// receber booking de verdade.
func (h *VendorHandler) ListVendors(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	city := strings.TrimSpace(c.Query("city"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.VendorProfile{}).
		Preload("User").
		Where("onboarding_complete = ?", true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(business_name) LIKE ? OR LOWER(bio) LIKE ?", like, like)
	}

	var profiles []models.VendorProfile
	if err := q.Order("id ASC").Find(&profiles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_vendors", "Erro ao listar prestadores.")
		return
	}

	httpresp.List(c, profiles)
}

func (h *VendorHandler) GetVendor(c *gin.Context) {
	id := c.Param("id")

	var profile models.VendorProfile
	if err := h.db.Preload("User").First(&profile, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "vendor_not_found", "Prestador não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_vendor", "Erro ao buscar prestador.")
		return
	}

	var services []models.VendorService
	h.db.Where("vendor_id = ? AND active = ?", profile.UserID, true).
		Order("id ASC").
		Find(&services)

	var reviews []models.Review
	h.db.Where("vendor_id = ?", profile.UserID).
		Order("created_at DESC").
		Limit(20).
		Find(&reviews)

	c.JSON(http.StatusOK, gin.H{
		"vendor":   profile,
		"services": services,
		"reviews":  reviews,
	})
}

// ======================================================
// PAINEL DO PRESTADOR
// ======================================================

type UpdateVendorProfileRequest struct {
	BusinessName *string `json:"business_name,omitempty"`
	Category     *string `json:"category,omitempty"`
	City         *string `json:"city,omitempty"`
	Bio          *string `json:"bio,omitempty"`
}

func (h *VendorHandler) GetMyProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var profile models.VendorProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "vendor_profile_not_found", "Perfil de prestador não encontrado.")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *VendorHandler) UpdateMyProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var profile models.VendorProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "vendor_profile_not_found", "Perfil de prestador não encontrado.")
		return
	}

	var req UpdateVendorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.BusinessName != nil {
		if strings.TrimSpace(*req.BusinessName) == "" {
			httperr.BadRequest(c, "business_name_required", "Nome do negócio não pode ficar vazio.")
			return
		}
		profile.BusinessName = strings.TrimSpace(*req.BusinessName)
	}
	if req.Category != nil {
		profile.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.City != nil {
		profile.City = strings.TrimSpace(*req.City)
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}

	if err := h.db.Save(&profile).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Erro ao salvar o perfil.")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPhoto recebe multipart, converte pra webp e guarda no bucket.
func (h *VendorHandler) UploadPhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var profile models.VendorProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "vendor_profile_not_found", "Perfil de prestador não encontrado.")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "photo_required", "Envie o arquivo no campo 'photo'.")
		return
	}
	if file.Size > maxPhotoUploadBytes {
		httperr.BadRequest(c, "photo_too_large", "A foto deve ter no máximo 8MB.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Erro ao ler o arquivo enviado.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxPhotoUploadBytes+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Erro ao ler o arquivo enviado.")
		return
	}

	processed, err := storage.ProcessPhoto(raw)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_image") {
			httperr.BadRequest(c, "invalid_image", "O arquivo enviado não é uma imagem válida.")
			return
		}
		httperr.Internal(c, "failed_to_process_photo", "Erro ao processar a imagem.")
		return
	}

	url, err := h.uploader.UploadVendorPhoto(c.Request.Context(), userID, processed)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_photo", "Erro ao enviar a foto.")
		return
	}

	profile.PhotoURL = url
	if err := h.db.Save(&profile).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Erro ao salvar o perfil.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

// ======================================================
// ONBOARDING DE PAGAMENTO
// ======================================================

type LinkPayoutAccountRequest struct {
	PayoutAccountID string `json:"payout_account_id" binding:"required"`
}

// LinkPayoutAccount vincula a conta conectada criada no provedor.
// onboarding_complete NÃO vira true aqui: isso é papel do webhook
// account.updated, quando o provedor confirma que a conta pode receber.
func (h *VendorHandler) LinkPayoutAccount(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req LinkPayoutAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	var profile models.VendorProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "vendor_profile_not_found", "Perfil de prestador não encontrado.")
		return
	}

	if profile.PayoutAccountID != "" && profile.PayoutAccountID != req.PayoutAccountID {
		httperr.Conflict(c, "payout_account_already_linked", "Já existe uma conta de repasse vinculada.")
		return
	}

	profile.PayoutAccountID = req.PayoutAccountID
	if err := h.db.Save(&profile).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Erro ao salvar o perfil.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payout_account_id":   profile.PayoutAccountID,
		"onboarding_complete": profile.OnboardingComplete,
	})
}
