package models

import "time"

// Avaliação deixada pelo cliente após booking concluído.
type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID  uint    `gorm:"uniqueIndex;not null" json:"booking_id"`
	Booking    Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CustomerID uint    `gorm:"index;not null" json:"customer_id"`
	VendorID   uint    `gorm:"index;not null" json:"vendor_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
