package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type job struct {
	templateType string
	recipient    string
	data         map[string]any
}

// Dispatcher desacopla o envio de e-mail da transição que o disparou:
// fire-and-forget, com fila limitada. E-mail perdido é log, nunca erro
// pro usuário da ação principal.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan job
}

func NewDispatcher(n Notifier, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		notifier: n,
		log:      log.Named("notifier"),
		queue:    make(chan job, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := d.notifier.Send(ctx, j.templateType, j.recipient, j.data)
		cancel()

		if err != nil {
			d.log.Warn("falha ao enviar notificação",
				zap.String("template", j.templateType),
				zap.String("recipient", j.recipient),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(templateType string, recipient string, data map[string]any) {
	if recipient == "" {
		return
	}

	select {
	case d.queue <- job{templateType: templateType, recipient: recipient, data: data}:
		// enfileirado
	default:
		d.log.Warn("fila de notificações cheia, e-mail descartado",
			zap.String("template", templateType))
	}
}
