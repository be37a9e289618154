package booking

import (
	"context"

	"github.com/BruksfildServices01/home-services-api/internal/models"
)

// Filtro de listagem por dono (cliente OU prestador) + status opcional.
type ListFilter struct {
	CustomerID uint
	VendorID   uint
	Status     Status
}

type Repository interface {
	// -------- Booking (leitura) --------
	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingByPaymentRef(
		ctx context.Context,
		paymentRef string,
	) (*models.Booking, error)

	ListBookings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Booking, error)

	// -------- Booking (escrita) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// UpdateBookingIf persiste a transição SOMENTE se a linha ainda
	// estiver no status esperado (compare-and-swap). Quando outra
	// transição venceu a corrida, devolve o erro de negócio
	// "booking_was_modified" — distinguível, nunca um erro genérico.
	UpdateBookingIf(
		ctx context.Context,
		b *models.Booking,
		expected Status,
	) error

	// CancelBookingIf é o CAS específico do cancelamento: só escreve
	// se a linha ainda estiver no status esperado E sem pagamento
	// conciliado. Um webhook de sucesso entre a leitura e a escrita
	// faz o cancelamento perder com "booking_was_modified".
	CancelBookingIf(
		ctx context.Context,
		b *models.Booking,
		expected Status,
	) error

	// -------- Conciliação de pagamento --------
	SetPaymentStatus(
		ctx context.Context,
		bookingID uint,
		status PaymentStatus,
	) error

	// -------- Vendor --------
	GetVendorProfile(
		ctx context.Context,
		vendorUserID uint,
	) (*models.VendorProfile, error)

	SetVendorOnboarding(
		ctx context.Context,
		payoutAccountID string,
		complete bool,
	) error
}
