package audit

import "go.uber.org/zap"

// Ações operacionais que exigem atenção humana (vão pro log de alerta
// além da trilha de auditoria).
const (
	ActionReconciliationRequired = "booking_reconciliation_required"
	ActionOrphanIntent           = "orphan_payment_intent"
	ActionWebhookRejected        = "webhook_signature_rejected"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher grava auditoria fora do caminho da requisição.
// Fila cheia descarta: auditoria nunca derruba a API.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log.Named("audit"),
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error("falha ao gravar auditoria",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		d.log.Warn("fila de auditoria cheia, evento descartado",
			zap.String("action", ev.Action))
	}
}
