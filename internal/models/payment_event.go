package models

import "time"

// Evento de webhook já verificado. O índice único em ProviderEventID
// é o que torna o reprocessamento (entrega at-least-once) inofensivo.
type PaymentEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderEventID string `gorm:"size:100;uniqueIndex;not null" json:"provider_event_id"`
	EventType       string `gorm:"size:100;not null" json:"event_type"`
	PaymentRef      string `gorm:"size:100;index" json:"payment_ref"`
	BookingID       *uint  `gorm:"index" json:"booking_id"`
	Payload         string `gorm:"type:text" json:"payload"`

	ReceivedAt  time.Time  `gorm:"not null" json:"received_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}
