package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/notifier"
)

type CompleteBooking struct {
	repo   domain.Repository
	notify NotifyDispatcher
	audit  AuditDispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	notify NotifyDispatcher,
	auditDispatcher AuditDispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:   repo,
		notify: notify,
		audit:  auditDispatcher,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	vendorID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if b.VendorID != vendorID {
		return nil, httperr.ErrBusiness("not_booking_owner")
	}

	// Confirmado + pago, senão nem tenta: serviço não é dado como
	// concluído com pagamento em aberto.
	if err := domain.Complete(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingIf(ctx, b, domain.StatusConfirmed); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notifier.TemplateBookingCompleted, b.Customer.Email, map[string]any{
		"customer_name": b.Customer.Name,
		"service_type":  b.ServiceType,
	})

	uc.audit.Dispatch(audit.Event{
		ActorID:  &vendorID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
