package booking

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RequestBookingInput struct {
	CustomerID uint
	VendorID   uint

	ServiceType   string
	Description   string
	PreferredDate string
}

// ======================================================
// USE CASE
// ======================================================

// RequestBooking cria o pedido do cliente: entra sempre como pending,
// sem preço e sem pagamento — isso é papel do aceite do prestador.
type RequestBooking struct {
	repo  domain.Repository
	audit AuditDispatcher
}

func NewRequestBooking(repo domain.Repository, audit AuditDispatcher) *RequestBooking {
	return &RequestBooking{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RequestBooking) Execute(
	ctx context.Context,
	in RequestBookingInput,
) (*models.Booking, error) {

	if strings.TrimSpace(in.ServiceType) == "" {
		return nil, httperr.ErrBusiness("service_type_required")
	}

	if in.PreferredDate != "" {
		date, err := time.Parse("2006-01-02", in.PreferredDate)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		// PreferredDate é data de calendário: o Parse ancora o dia
		// pedido em UTC, então "hoje" precisa ser o dia LOCAL também
		// ancorado em UTC. Truncate(24h) daria meia-noite UTC e
		// rejeitaria o dia corrente em fusos a oeste.
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(today) {
			return nil, httperr.ErrBusiness("date_in_the_past")
		}
	}

	profile, err := uc.repo.GetVendorProfile(ctx, in.VendorID)
	if err != nil || profile == nil {
		return nil, httperr.ErrBusiness("vendor_not_found")
	}

	if in.CustomerID == in.VendorID {
		return nil, httperr.ErrBusiness("cannot_book_own_service")
	}

	b := &models.Booking{
		CustomerID:    in.CustomerID,
		VendorID:      in.VendorID,
		ServiceType:   strings.TrimSpace(in.ServiceType),
		Description:   in.Description,
		PreferredDate: in.PreferredDate,
		Status:        string(domain.InitialStatus()),
		PaymentStatus: string(domain.PaymentPending),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.CustomerID,
		Action:   "booking_requested",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
