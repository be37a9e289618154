package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`
	Customer   User `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	VendorID uint `gorm:"index;not null" json:"vendor_id"`
	Vendor   User `gorm:"foreignKey:VendorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vendor"`

	ServiceType   string `gorm:"size:50;not null" json:"service_type"`
	Description   string `gorm:"size:500" json:"description"`
	PreferredDate string `gorm:"size:10" json:"preferred_date"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	// Nulos enquanto status=pending; preenchidos no aceite.
	PriceCents *int64  `json:"price_cents"`
	PaymentRef *string `gorm:"size:100;uniqueIndex" json:"payment_ref"`

	// Ciclo de vida do pagamento, independente do status do booking.
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`

	CancellationReason *string    `gorm:"size:255" json:"cancellation_reason"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
