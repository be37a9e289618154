package booking

import "github.com/BruksfildServices01/home-services-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transições legais
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
//
// completed e cancelled são terminais.
// ===============================

// CanAccept: só booking pendente pode ser aceito (e precificado).
func CanAccept(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete: exige booking confirmado E pagamento já conciliado.
// Nunca damos o serviço por concluído com pagamento em aberto.
func CanComplete(current Status, payment PaymentStatus) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	if payment != PaymentPaid {
		return httperr.ErrBusiness("payment_not_confirmed")
	}
	return nil
}

// CanCancel: pendente sempre; confirmado só enquanto não pago.
// Cancelar confirmado+pago é cenário de reembolso, fora deste fluxo.
func CanCancel(current Status, payment PaymentStatus) error {
	switch current {
	case StatusPending:
		return nil
	case StatusConfirmed:
		if payment == PaymentPaid {
			return httperr.ErrBusiness("cancel_requires_refund")
		}
		return nil
	default:
		return httperr.ErrBusiness("invalid_state")
	}
}
