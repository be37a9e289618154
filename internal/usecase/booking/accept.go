package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	"github.com/BruksfildServices01/home-services-api/internal/commission"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/notifier"
	"github.com/BruksfildServices01/home-services-api/internal/payments"
	"github.com/BruksfildServices01/home-services-api/internal/settings"
	"go.uber.org/zap"
)

// ErrSettlementInconsistent: a intent foi criada no provedor mas o
// booking não foi atualizado. NÃO é erro comum — exige conciliação
// manual ou retry, e jamais pode ser engolido como sucesso.
var ErrSettlementInconsistent = errors.New("settlement_inconsistent")

// ======================================================
// USE CASE — aceite do prestador (pending -> confirmed)
// ======================================================

// AcceptBooking é o único caminho que cria a payment intent: preço do
// prestador + split da plataforma + conta de repasse, tudo amarrado ao
// booking via metadata para a conciliação do webhook.
type AcceptBooking struct {
	repo     domain.Repository
	provider payments.Provider
	rates    settings.RateSource
	notify   NotifyDispatcher
	audit    AuditDispatcher
	log      *zap.Logger
}

func NewAcceptBooking(
	repo domain.Repository,
	provider payments.Provider,
	rates settings.RateSource,
	notify NotifyDispatcher,
	auditDispatcher AuditDispatcher,
	log *zap.Logger,
) *AcceptBooking {
	return &AcceptBooking{
		repo:     repo,
		provider: provider,
		rates:    rates,
		notify:   notify,
		audit:    auditDispatcher,
		log:      log.Named("booking.accept"),
	}
}

type AcceptBookingInput struct {
	VendorID   uint
	BookingID  uint
	PriceCents int64
	Currency   string
}

func (uc *AcceptBooking) Execute(
	ctx context.Context,
	in AcceptBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Precondições — tudo ANTES de tocar no provedor
	// --------------------------------------------------
	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if b.VendorID != in.VendorID {
		return nil, httperr.ErrBusiness("not_booking_owner")
	}
	if err := domain.CanAccept(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	profile, err := uc.repo.GetVendorProfile(ctx, in.VendorID)
	if err != nil || profile == nil {
		return nil, httperr.ErrBusiness("vendor_not_onboarded")
	}
	if !profile.OnboardingComplete || profile.PayoutAccountID == "" {
		return nil, httperr.ErrBusiness("vendor_not_onboarded")
	}

	rateBps := uc.rates.CurrentRateBps(ctx)
	split, err := commission.Calculate(in.PriceCents, rateBps)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Side effect externo — uma intent por booking
	// --------------------------------------------------
	intent, err := uc.provider.CreateIntent(ctx, payments.CreateIntentInput{
		AmountCents:         in.PriceCents,
		Currency:            in.Currency,
		ApplicationFeeCents: split.PlatformFeeCents,
		DestinationAccount:  profile.PayoutAccountID,
		Metadata: map[string]string{
			"booking_id":  strconv.FormatUint(uint64(b.ID), 10),
			"vendor_id":   strconv.FormatUint(uint64(b.VendorID), 10),
			"customer_id": strconv.FormatUint(uint64(b.CustomerID), 10),
		},
		// Chave determinística: retry do mesmo aceite reusa a intent.
		IdempotencyKey: fmt.Sprintf("booking-%d-accept", b.ID),
	})
	if err != nil {
		// Estado do booking intacto: o chamador pode tentar de novo.
		return nil, err
	}

	// --------------------------------------------------
	// 3. Transição condicional (CAS no status)
	// --------------------------------------------------
	if err := domain.Accept(b, in.PriceCents, intent.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingIf(ctx, b, domain.StatusPending); err != nil {
		if httperr.IsBusiness(err, "booking_was_modified") {
			// Perdemos a corrida pra outra transição. A intent criada
			// ficou órfã (inofensiva: nunca vinculada, nunca paga) —
			// registramos pra conciliação limpar depois.
			uc.log.Warn("intent órfã após corrida no aceite",
				zap.Uint("booking_id", b.ID),
				zap.String("intent_id", intent.ID),
			)
			uc.audit.Dispatch(audit.Event{
				ActorID:  &in.VendorID,
				Action:   audit.ActionOrphanIntent,
				Entity:   "booking",
				EntityID: &b.ID,
				Metadata: map[string]any{"intent_id": intent.ID},
			})
			return nil, err
		}

		// Intent existe, booking não sabe dela: inconsistência real.
		uc.log.Error("intent criada mas booking não atualizado",
			zap.Uint("booking_id", b.ID),
			zap.String("intent_id", intent.ID),
			zap.Error(err),
		)
		uc.audit.Dispatch(audit.Event{
			ActorID:  &in.VendorID,
			Action:   audit.ActionReconciliationRequired,
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{"intent_id": intent.ID, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: intent %s não vinculada ao booking %d", ErrSettlementInconsistent, intent.ID, b.ID)
	}

	// --------------------------------------------------
	// 4. Pós-commit: notificação best-effort + auditoria
	// --------------------------------------------------
	uc.notify.Dispatch(notifier.TemplateBookingConfirmed, b.Customer.Email, map[string]any{
		"customer_name": b.Customer.Name,
		"vendor_name":   b.Vendor.Name,
		"service_type":  b.ServiceType,
		"price":         formatCents(in.PriceCents),
		"client_secret": intent.ClientSecret,
	})

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.VendorID,
		Action:   "booking_accepted",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"price_cents":  in.PriceCents,
			"platform_fee": split.PlatformFeeCents,
			"vendor_net":   split.VendorNetCents,
			"rate_bps":     rateBps,
		},
	})

	return b, nil
}

// formatCents só para o corpo do e-mail; centavos continuam mandando.
func formatCents(cents int64) string {
	return fmt.Sprintf("R$ %d,%02d", cents/100, cents%100)
}
