package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/middleware"
	"github.com/BruksfildServices01/home-services-api/internal/payments"
	ucBooking "github.com/BruksfildServices01/home-services-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	requestUC  *ucBooking.RequestBooking
	acceptUC   *ucBooking.AcceptBooking
	completeUC *ucBooking.CompleteBooking
	cancelUC   *ucBooking.CancelBooking
	listUC     *ucBooking.ListBookings
	getUC      *ucBooking.GetBooking

	currency string
}

func NewBookingHandler(
	requestUC *ucBooking.RequestBooking,
	acceptUC *ucBooking.AcceptBooking,
	completeUC *ucBooking.CompleteBooking,
	cancelUC *ucBooking.CancelBooking,
	listUC *ucBooking.ListBookings,
	getUC *ucBooking.GetBooking,
	currency string,
) *BookingHandler {
	return &BookingHandler{
		requestUC:  requestUC,
		acceptUC:   acceptUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
		listUC:     listUC,
		getUC:      getUC,
		currency:   currency,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	VendorID      uint   `json:"vendor_id" binding:"required"`
	ServiceType   string `json:"service_type" binding:"required"`
	Description   string `json:"description"`
	PreferredDate string `json:"preferred_date"`
}

type AcceptBookingRequest struct {
	PriceCents int64 `json:"price_cents" binding:"required,min=1"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

// writeBookingError traduz o erro do core pra HTTP. O core só fala
// códigos de negócio; status é responsabilidade exclusiva daqui.
func writeBookingError(c *gin.Context, err error) {
	if errors.Is(err, ucBooking.ErrSettlementInconsistent) {
		// Intent criada mas booking não atualizado: 500 de verdade,
		// a auditoria já recebeu o caso.
		httperr.Internal(c, "settlement_inconsistent",
			"Falha ao registrar o pagamento do booking. A ocorrência foi registrada para conciliação.")
		return
	}
	if payments.IsProviderError(err) {
		httperr.BadGateway(c, "payment_provider_unavailable",
			"O provedor de pagamento não respondeu. Tente novamente.")
		return
	}

	switch code := httperr.BusinessCode(err); code {
	case "booking_not_found", "vendor_not_found":
		httperr.NotFound(c, code, "Registro não encontrado.")
	case "not_booking_owner":
		httperr.Forbidden(c, code, "Você não participa deste booking.")
	case "invalid_state", "booking_was_modified", "payment_not_confirmed",
		"cancel_requires_refund", "payment_ref_already_set", "vendor_not_onboarded":
		httperr.Conflict(c, code, "O booking não permite esta operação no estado atual.")
	case "":
		httperr.Internal(c, "internal_error", "Erro inesperado.")
	default:
		// validações: service_type_required, invalid_date, invalid_price...
		httperr.BadRequest(c, code, "Dados inválidos para a operação.")
	}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_booking_id", "ID de booking inválido.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// CREATE (cliente pede o serviço)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.requestUC.Execute(c.Request.Context(), ucBooking.RequestBookingInput{
		CustomerID:    customerID,
		VendorID:      req.VendorID,
		ServiceType:   req.ServiceType,
		Description:   req.Description,
		PreferredDate: req.PreferredDate,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// ACCEPT (prestador precifica e confirma)
// ======================================================

func (h *BookingHandler) Accept(c *gin.Context) {
	vendorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req AcceptBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.acceptUC.Execute(c.Request.Context(), ucBooking.AcceptBookingInput{
		VendorID:   vendorID,
		BookingID:  id,
		PriceCents: req.PriceCents,
		Currency:   h.currency,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// COMPLETE / CANCEL
// ======================================================

func (h *BookingHandler) Complete(c *gin.Context) {
	vendorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := h.completeUC.Execute(c.Request.Context(), vendorID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), ucBooking.CancelBookingInput{
		BookingID:     id,
		InitiatorID:   userID,
		InitiatorRole: role,
		Reason:        req.Reason,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	bookings, err := h.listUC.Execute(c.Request.Context(), userID, role, c.Query("status"))
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  bookings,
		"total": len(bookings),
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := h.getUC.Execute(c.Request.Context(), userID, role, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
