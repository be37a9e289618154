package models

import "time"

// Taxa da plataforma em basis points (1500 = 15%). Linha única,
// editável só pelo admin; o orquestrador apenas lê.
type CommissionSetting struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	RateBps int64 `gorm:"not null" json:"rate_bps"`

	UpdatedBy *uint     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
