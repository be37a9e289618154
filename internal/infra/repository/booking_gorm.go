package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// --------------------------------------------------
// Booking (leitura)
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vendor").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByPaymentRef(
	ctx context.Context,
	paymentRef string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vendor").
		Where("payment_ref = ?", paymentRef).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vendor").
		Order("created_at DESC")

	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VendorID != 0 {
		q = q.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Booking (escrita)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// UpdateBookingIf é o CAS do ciclo de vida: o WHERE carrega o status
// esperado e RowsAffected decide quem venceu a corrida. Sem lock
// pessimista — duas transições concorrentes nunca escrevem as duas.
//
// payment_status fica FORA do mapa de propósito: a coluna pertence à
// conciliação (SetPaymentStatus). Escrevê-la aqui reverteria um
// webhook de sucesso que chegou entre a leitura do caller e este CAS.
func (r *BookingGormRepository) UpdateBookingIf(
	ctx context.Context,
	b *models.Booking,
	expected domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(expected)).
		Updates(map[string]any{
			"status":              b.Status,
			"price_cents":         b.PriceCents,
			"payment_ref":         b.PaymentRef,
			"cancellation_reason": b.CancellationReason,
			"completed_at":        b.CompletedAt,
			"cancelled_at":        b.CancelledAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("booking_was_modified")
	}
	return nil
}

// CancelBookingIf é o CAS do cancelamento: além do status esperado, o
// WHERE exige payment_status <> paid. A guarda de reembolso foi
// checada contra uma leitura que pode ter envelhecido — um pagamento
// conciliado no meio tempo faz o cancelamento perder a corrida em vez
// de apagar a evidência de que o booking foi pago.
func (r *BookingGormRepository) CancelBookingIf(
	ctx context.Context,
	b *models.Booking,
	expected domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"id = ? AND status = ? AND payment_status <> ?",
			b.ID, string(expected), string(domain.PaymentPaid),
		).
		Updates(map[string]any{
			"status":              b.Status,
			"cancellation_reason": b.CancellationReason,
			"cancelled_at":        b.CancelledAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("booking_was_modified")
	}
	return nil
}

// --------------------------------------------------
// Conciliação de pagamento
// --------------------------------------------------

func (r *BookingGormRepository) SetPaymentStatus(
	ctx context.Context,
	bookingID uint,
	status domain.PaymentStatus,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("payment_status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Vendor
// --------------------------------------------------

func (r *BookingGormRepository) GetVendorProfile(
	ctx context.Context,
	vendorUserID uint,
) (*models.VendorProfile, error) {

	var profile models.VendorProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", vendorUserID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *BookingGormRepository) SetVendorOnboarding(
	ctx context.Context,
	payoutAccountID string,
	complete bool,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.VendorProfile{}).
		Where("payout_account_id = ?", payoutAccountID).
		Update("onboarding_complete", complete)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ==================================================
// Eventos de webhook
// ==================================================

type PaymentEventGormStore struct {
	db *gorm.DB
}

func NewPaymentEventGormStore(db *gorm.DB) *PaymentEventGormStore {
	return &PaymentEventGormStore{db: db}
}

// InsertEvent depende do índice único em provider_event_id. No
// conflito devolve (false, nil) e recarrega a linha existente em ev:
// a conciliação precisa do processed_at gravado pra decidir entre
// ignorar a reentrega e reaplicar um evento que falhou no meio.
func (s *PaymentEventGormStore) InsertEvent(
	ctx context.Context,
	ev *models.PaymentEvent,
) (bool, error) {

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(ev)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return true, nil
	}

	var existing models.PaymentEvent
	if err := s.db.WithContext(ctx).
		Where("provider_event_id = ?", ev.ProviderEventID).
		First(&existing).Error; err != nil {
		return false, err
	}
	*ev = existing
	return false, nil
}

func (s *PaymentEventGormStore) MarkProcessed(
	ctx context.Context,
	providerEventID string,
	bookingID *uint,
	at time.Time,
) error {
	return s.db.WithContext(ctx).
		Model(&models.PaymentEvent{}).
		Where("provider_event_id = ?", providerEventID).
		Updates(map[string]any{
			"booking_id":   bookingID,
			"processed_at": at,
		}).Error
}
