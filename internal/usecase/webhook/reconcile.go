package webhook

import (
	"context"
	"strconv"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/payments"
	"go.uber.org/zap"
)

// ======================================================
// USE CASE — conciliação de eventos do provedor
// ======================================================

// EventStore guarda cada evento de webhook recebido. A deduplicação
// mora aqui: o provedor entrega at-least-once, então o mesmo evento
// pode bater duas vezes e só a primeira pode ter efeito.
type EventStore interface {
	// InsertEvent grava o evento e devolve false quando o
	// provider_event_id já existia (entrega repetida). Na repetição,
	// ev recebe a linha já gravada — em especial ProcessedAt, que é
	// o que separa "já aplicado" de "gravado mas a aplicação falhou".
	InsertEvent(ctx context.Context, ev *models.PaymentEvent) (bool, error)

	// MarkProcessed sela o evento e grava o booking que ele atingiu
	// (nil quando o evento não encostou em nenhum).
	MarkProcessed(ctx context.Context, providerEventID string, bookingID *uint, at time.Time) error
}

type AuditDispatcher interface {
	Dispatch(ev audit.Event)
}

// Reconciler aplica eventos JÁ verificados (assinatura conferida no
// handler) ao estado dos bookings. Todo caminho é idempotente:
// reprocessar nunca muda o resultado.
type Reconciler struct {
	repo   domain.Repository
	events EventStore
	audit  AuditDispatcher
	log    *zap.Logger
}

func NewReconciler(
	repo domain.Repository,
	events EventStore,
	auditDispatcher AuditDispatcher,
	log *zap.Logger,
) *Reconciler {
	return &Reconciler{
		repo:   repo,
		events: events,
		audit:  auditDispatcher,
		log:    log.Named("webhook.reconcile"),
	}
}

// Process devolve erro SOMENTE quando vale a pena o provedor
// reentregar (falha transitória de escrita). Anomalias de dados vão
// pra auditoria e o evento é confirmado, senão viram retry infinito.
func (uc *Reconciler) Process(ctx context.Context, ev payments.Event) error {
	record := &models.PaymentEvent{
		ProviderEventID: ev.ID,
		EventType:       ev.Type,
		PaymentRef:      ev.PaymentRef,
		Payload:         string(ev.Raw),
		ReceivedAt:      time.Now(),
	}

	inserted, err := uc.events.InsertEvent(ctx, record)
	if err != nil {
		return err
	}
	if !inserted {
		// Só entrega SELADA pode ser ignorada. Linha gravada sem
		// processed_at significa que a aplicação falhou no meio e o
		// provedor está reentregando: reaplica, cada apply é
		// idempotente.
		if record.ProcessedAt != nil {
			uc.log.Debug("evento repetido ignorado",
				zap.String("event_id", ev.ID),
				zap.String("type", ev.Type),
			)
			return nil
		}
		uc.log.Warn("reentrega de evento não selado, reaplicando",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
		)
	}

	switch ev.Type {
	case payments.EventPaymentSucceeded:
		err = uc.applyPaymentSucceeded(ctx, ev, record)
	case payments.EventPaymentFailed:
		err = uc.applyPaymentFailed(ctx, ev, record)
	case payments.EventAccountUpdated:
		err = uc.applyAccountUpdated(ctx, ev)
	default:
		// Tipo que não tratamos: confirma e segue. O payload fica
		// gravado caso a gente passe a tratar depois.
		uc.log.Info("tipo de evento não tratado",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
		)
	}
	if err != nil {
		return err
	}

	return uc.events.MarkProcessed(ctx, ev.ID, record.BookingID, time.Now())
}

func (uc *Reconciler) applyPaymentSucceeded(
	ctx context.Context,
	ev payments.Event,
	record *models.PaymentEvent,
) error {

	b, found := uc.lookupBooking(ctx, ev)
	if !found {
		// Dinheiro entrou e não temos booking: conciliação manual.
		uc.audit.Dispatch(audit.Event{
			Action: audit.ActionReconciliationRequired,
			Entity: "payment_event",
			Metadata: map[string]any{
				"event_id":    ev.ID,
				"payment_ref": ev.PaymentRef,
				"reason":      "booking_not_found",
			},
		})
		return nil
	}
	record.BookingID = &b.ID

	if err := domain.MarkPaid(b, ev.PaymentRef); err != nil {
		// Ref divergente do que o aceite gravou. Nunca sobrescrevemos.
		uc.audit.Dispatch(audit.Event{
			Action:   audit.ActionReconciliationRequired,
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{
				"event_id":    ev.ID,
				"payment_ref": ev.PaymentRef,
				"reason":      "payment_ref_mismatch",
			},
		})
		return nil
	}

	if err := uc.repo.SetPaymentStatus(ctx, b.ID, domain.PaymentPaid); err != nil {
		return err
	}

	uc.log.Info("pagamento conciliado",
		zap.Uint("booking_id", b.ID),
		zap.String("payment_ref", ev.PaymentRef),
	)
	uc.audit.Dispatch(audit.Event{
		Action:   "payment_reconciled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"event_id": ev.ID, "payment_ref": ev.PaymentRef},
	})
	return nil
}

func (uc *Reconciler) applyPaymentFailed(ctx context.Context, ev payments.Event, record *models.PaymentEvent) error {
	b, found := uc.lookupBooking(ctx, ev)
	if !found {
		// Falha de intent órfã: nada a fazer além do registro do evento.
		return nil
	}
	record.BookingID = &b.ID

	// Falha não cancela o booking: confirmado-sem-pagamento aguarda
	// nova tentativa do cliente ou cancelamento.
	domain.MarkPaymentFailed(b)
	if err := uc.repo.SetPaymentStatus(ctx, b.ID, domain.PaymentFailed); err != nil {
		return err
	}

	uc.log.Warn("pagamento falhou",
		zap.Uint("booking_id", b.ID),
		zap.String("payment_ref", ev.PaymentRef),
	)
	return nil
}

func (uc *Reconciler) applyAccountUpdated(ctx context.Context, ev payments.Event) error {
	if ev.Account == nil {
		return nil
	}

	complete := ev.Account.ChargesEnabled && ev.Account.DetailsSubmitted
	if err := uc.repo.SetVendorOnboarding(ctx, ev.Account.AccountID, complete); err != nil {
		// Conta que não conhecemos (cadastro ainda não vinculado):
		// evento fica gravado, sem retry.
		uc.log.Warn("account.updated para conta desconhecida",
			zap.String("account_id", ev.Account.AccountID),
		)
		return nil
	}

	uc.log.Info("onboarding do prestador atualizado",
		zap.String("account_id", ev.Account.AccountID),
		zap.Bool("complete", complete),
	)
	return nil
}

// lookupBooking acha o booking do evento: primeiro pela metadata
// gravada na criação da intent, senão pela própria payment_ref.
func (uc *Reconciler) lookupBooking(ctx context.Context, ev payments.Event) (*models.Booking, bool) {
	if raw, ok := ev.Metadata["booking_id"]; ok {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			if b, err := uc.repo.GetBookingByID(ctx, uint(id)); err == nil {
				return b, true
			}
		}
	}
	if ev.PaymentRef != "" {
		if b, err := uc.repo.GetBookingByPaymentRef(ctx, ev.PaymentRef); err == nil {
			return b, true
		}
	}
	return nil, false
}
