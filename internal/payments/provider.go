package payments

import (
	"context"
	"errors"
	"fmt"
)

// ===============================
// Contrato com o provedor de pagamento
// ===============================

// Valores sempre em centavos. A conversão para exibição é problema da UI.

type CreateIntentInput struct {
	AmountCents         int64
	Currency            string
	ApplicationFeeCents int64

	// Conta conectada do prestador que recebe o repasse.
	DestinationAccount string

	// Identificadores para a conciliação posterior via webhook.
	Metadata map[string]string

	// Chave de idempotência do lado do provedor (um aceite = uma intent).
	IdempotencyKey string
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type Provider interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error)
}

// ===============================
// Eventos de webhook (já verificados)
// ===============================

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventAccountUpdated   = "account.updated"
)

type AccountUpdate struct {
	AccountID        string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

type Event struct {
	ID   string
	Type string

	// ID da payment intent, quando o evento é de pagamento.
	PaymentRef string

	// booking_id / vendor_id / customer_id gravados na criação da intent.
	Metadata map[string]string

	// Preenchido apenas para account.updated.
	Account *AccountUpdate

	Raw []byte
}

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
)

// ProviderError distingue falha do provedor externo (inclusive timeout)
// de erro de regra de negócio. Callers ramificam com errors.As.
type ProviderError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("payment provider %s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
