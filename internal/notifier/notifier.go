package notifier

import "context"

// Tipos de template disparados pelo ciclo de vida do booking.
const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCompleted = "booking_completed"
	TemplateBookingCancelled = "booking_cancelled"
)

// Notifier entrega um e-mail templateado. Falha aqui é sempre
// reportada e nunca propaga para a transição que a disparou.
type Notifier interface {
	Send(ctx context.Context, templateType string, recipient string, data map[string]any) error
}
