package booking

import (
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Accept precifica e confirma o booking, vinculando a intent de
// pagamento. O payment_ref é write-once: nunca sobrescrevemos.
func Accept(b *models.Booking, priceCents int64, paymentRef string) error {
	if err := CanAccept(Status(b.Status)); err != nil {
		return err
	}
	if priceCents <= 0 {
		return httperr.ErrBusiness("invalid_price")
	}
	if b.PaymentRef != nil {
		return httperr.ErrBusiness("payment_ref_already_set")
	}

	b.Status = string(StatusConfirmed)
	b.PriceCents = &priceCents
	b.PaymentRef = &paymentRef
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status), PaymentStatus(b.PaymentStatus)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Cancel(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancel(Status(b.Status), PaymentStatus(b.PaymentStatus)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	if reason != "" {
		b.CancellationReason = &reason
	}
	return nil
}

// MarkPaid concilia um evento de pagamento aprovado. Idempotente:
// repetir com o mesmo paymentRef é no-op; ref divergente é violação.
func MarkPaid(b *models.Booking, paymentRef string) error {
	if b.PaymentRef != nil && *b.PaymentRef != paymentRef {
		return httperr.ErrBusiness("payment_ref_mismatch")
	}
	if b.PaymentRef == nil {
		b.PaymentRef = &paymentRef
	}
	b.PaymentStatus = string(PaymentPaid)
	return nil
}

// MarkPaymentFailed registra a falha sem mexer no status do booking:
// confirmado-sem-pagamento fica aguardando retry ou cancelamento.
func MarkPaymentFailed(b *models.Booking) {
	b.PaymentStatus = string(PaymentFailed)
}
