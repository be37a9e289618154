package booking

import (
	"context"

	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute lista os bookings do usuário conforme o papel: cliente vê o
// que pediu, prestador vê o que recebeu.
func (uc *ListBookings) Execute(
	ctx context.Context,
	userID uint,
	role string,
	status string,
) ([]models.Booking, error) {

	if status != "" {
		switch domain.Status(status) {
		case domain.StatusPending, domain.StatusConfirmed,
			domain.StatusCompleted, domain.StatusCancelled:
		default:
			return nil, httperr.ErrBusiness("invalid_status_filter")
		}
	}

	filter := domain.ListFilter{Status: domain.Status(status)}
	switch role {
	case models.RoleVendor:
		filter.VendorID = userID
	default:
		filter.CustomerID = userID
	}

	return uc.repo.ListBookings(ctx, filter)
}

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	userID uint,
	role string,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if userID != b.CustomerID && userID != b.VendorID && role != models.RoleAdmin {
		return nil, httperr.ErrBusiness("not_booking_owner")
	}

	return b, nil
}
