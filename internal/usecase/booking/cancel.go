package booking

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/notifier"
)

type CancelBookingInput struct {
	BookingID uint

	InitiatorID   uint
	InitiatorRole string

	// Obrigatório quando o admin cancela em nome das partes.
	Reason string
}

type CancelBooking struct {
	repo   domain.Repository
	notify NotifyDispatcher
	audit  AuditDispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	notify NotifyDispatcher,
	auditDispatcher AuditDispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		notify: notify,
		audit:  auditDispatcher,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	in CancelBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	isAdmin := in.InitiatorRole == models.RoleAdmin
	isParty := in.InitiatorID == b.CustomerID || in.InitiatorID == b.VendorID

	if !isParty && !isAdmin {
		return nil, httperr.ErrBusiness("not_booking_owner")
	}

	reason := strings.TrimSpace(in.Reason)
	if isAdmin && !isParty && reason == "" {
		return nil, httperr.ErrBusiness("cancellation_reason_required")
	}

	prior := domain.Status(b.Status)
	if err := domain.Cancel(b, reason, time.Now()); err != nil {
		return nil, err
	}

	// CAS com guarda de pagamento na própria linha: se um webhook de
	// sucesso conciliou entre a leitura acima e esta escrita, o
	// cancelamento perde a corrida em vez de cancelar um booking pago.
	if err := uc.repo.CancelBookingIf(ctx, b, prior); err != nil {
		return nil, err
	}

	// Avisa a outra parte (quem não iniciou o cancelamento).
	recipient := b.Customer
	if in.InitiatorID == b.CustomerID {
		recipient = b.Vendor
	}
	uc.notify.Dispatch(notifier.TemplateBookingCancelled, recipient.Email, map[string]any{
		"recipient_name": recipient.Name,
		"service_type":   b.ServiceType,
		"reason":         reason,
	})

	action := "booking_cancelled"
	if isAdmin && !isParty {
		action = "booking_cancelled_by_admin"
	}
	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.InitiatorID,
		Action:   action,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return b, nil
}
