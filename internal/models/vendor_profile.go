package models

import "time"

// Perfil público do prestador, vinculado 1:1 ao User com role=vendor.
type VendorProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	BusinessName string `gorm:"size:100;not null" json:"business_name"`
	Category     string `gorm:"size:50" json:"category"`
	City         string `gorm:"size:100" json:"city"`
	Bio          string `gorm:"size:500" json:"bio"`
	PhotoURL     string `gorm:"size:255" json:"photo_url"`

	// Conta de repasse no provedor de pagamento (Stripe Connect).
	PayoutAccountID    string `gorm:"size:100" json:"payout_account_id"`
	OnboardingComplete bool   `gorm:"default:false" json:"onboarding_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
