package booking

import (
	"github.com/BruksfildServices01/home-services-api/internal/audit"
)

// Colaboradores injetados (nada de estado global): facilita teste
// de unidade sem backend vivo.

type AuditDispatcher interface {
	Dispatch(ev audit.Event)
}

type NotifyDispatcher interface {
	Dispatch(templateType string, recipient string, data map[string]any)
}
