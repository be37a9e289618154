package models

import "time"

// Serviço ofertado pelo prestador (vitrine). O preço aqui é apenas
// referência de catálogo; o valor cobrado é definido no aceite do booking.
type VendorService struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	VendorID uint `json:"vendor_id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Description    string `gorm:"size:255" json:"description"`
	Category       string `gorm:"size:50" json:"category"`
	BasePriceCents int64  `json:"base_price_cents"`
	Active         bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
