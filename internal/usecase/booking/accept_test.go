package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/payments"
	uc "github.com/BruksfildServices01/home-services-api/internal/usecase/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	customerID uint = 9
	vendorID   uint = 7
)

func seedPendingBooking(repo *fakeRepo) *models.Booking {
	repo.profiles[vendorID] = &models.VendorProfile{
		UserID:             vendorID,
		PayoutAccountID:    "acct_vendor",
		OnboardingComplete: true,
	}
	return repo.put(models.Booking{
		CustomerID:    customerID,
		VendorID:      vendorID,
		ServiceType:   "eletrica",
		Status:        string(domain.StatusPending),
		PaymentStatus: string(domain.PaymentPending),
		Customer:      models.User{ID: customerID, Name: "Ana", Email: "ana@example.com"},
		Vendor:        models.User{ID: vendorID, Name: "Bruno", Email: "bruno@example.com"},
	})
}

func newAccept(repo *fakeRepo, provider *fakeProvider, aud *fakeAudit, mail *fakeNotify) *uc.AcceptBooking {
	return uc.NewAcceptBooking(repo, provider, fixedRate(1500), mail, aud, zap.NewNop())
}

func TestAcceptHappyPath(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	aud := &fakeAudit{}
	mail := &fakeNotify{}
	b := seedPendingBooking(repo)

	out, err := newAccept(repo, provider, aud, mail).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID:   vendorID,
		BookingID:  b.ID,
		PriceCents: 20000,
		Currency:   "brl",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), out.Status)
	require.NotNil(t, out.PriceCents)
	assert.Equal(t, int64(20000), *out.PriceCents)
	require.NotNil(t, out.PaymentRef)

	// intent com split correto e metadata de conciliação
	require.Equal(t, 1, provider.callCount())
	call := provider.calls[0]
	assert.Equal(t, int64(20000), call.AmountCents)
	assert.Equal(t, int64(3000), call.ApplicationFeeCents)
	assert.Equal(t, "acct_vendor", call.DestinationAccount)
	assert.Equal(t, "1", call.Metadata["booking_id"])
	assert.Equal(t, "7", call.Metadata["vendor_id"])
	assert.Equal(t, "9", call.Metadata["customer_id"])

	// persistiu
	stored, err := repo.GetBookingByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)

	// e-mail "pague agora" pro cliente
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ana@example.com", mail.sent[0].recipient)
	assert.True(t, aud.has("booking_accepted"))
}

func TestAcceptRejectsNonPendingWithoutCreatingIntent(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	b := seedPendingBooking(repo)
	b.Status = string(domain.StatusConfirmed)
	repo.put(*b)

	_, err := newAccept(repo, provider, &fakeAudit{}, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: vendorID, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
	})

	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Equal(t, 0, provider.callCount(), "precondição falhou: nenhuma intent pode ter sido criada")
}

func TestAcceptRejectsWrongVendor(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	b := seedPendingBooking(repo)

	_, err := newAccept(repo, provider, &fakeAudit{}, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: 999, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
	})

	assert.True(t, httperr.IsBusiness(err, "not_booking_owner"))
	assert.Equal(t, 0, provider.callCount())
}

func TestAcceptRejectsVendorNotOnboarded(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	b := seedPendingBooking(repo)
	repo.profiles[vendorID].OnboardingComplete = false

	_, err := newAccept(repo, provider, &fakeAudit{}, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: vendorID, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
	})

	assert.True(t, httperr.IsBusiness(err, "vendor_not_onboarded"))
	assert.Equal(t, 0, provider.callCount())
}

func TestAcceptRejectsNonPositivePrice(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	b := seedPendingBooking(repo)

	_, err := newAccept(repo, provider, &fakeAudit{}, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: vendorID, BookingID: b.ID, PriceCents: 0, Currency: "brl",
	})

	assert.True(t, httperr.IsBusiness(err, "invalid_price"))
	assert.Equal(t, 0, provider.callCount())
}

func TestAcceptProviderFailureLeavesBookingUntouched(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{err: &payments.ProviderError{Op: "create_intent", Timeout: true, Err: errors.New("deadline exceeded")}}
	b := seedPendingBooking(repo)

	_, err := newAccept(repo, provider, &fakeAudit{}, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: vendorID, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
	})

	require.Error(t, err)
	assert.True(t, payments.IsProviderError(err))

	stored, _ := repo.GetBookingByID(context.Background(), b.ID)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
	assert.Nil(t, stored.PriceCents)
	assert.Nil(t, stored.PaymentRef)
}

func TestAcceptStoreFailureAfterIntentIsReportedForReconciliation(t *testing.T) {
	repo := newFakeRepo()
	repo.failUpdate = errors.New("connection reset")
	provider := &fakeProvider{}
	aud := &fakeAudit{}
	b := seedPendingBooking(repo)

	_, err := newAccept(repo, provider, aud, &fakeNotify{}).Execute(context.Background(), uc.AcceptBookingInput{
		VendorID: vendorID, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
	})

	// nunca vira sucesso nem erro genérico: é inconsistência rastreável
	require.ErrorIs(t, err, uc.ErrSettlementInconsistent)
	assert.True(t, aud.has(audit.ActionReconciliationRequired))
}

func TestAcceptRaceExactlyOneWinner(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{}
	aud := &fakeAudit{}
	b := seedPendingBooking(repo)
	accept := newAccept(repo, provider, aud, &fakeNotify{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = accept.Execute(context.Background(), uc.AcceptBookingInput{
				VendorID: vendorID, BookingID: b.ID, PriceCents: 20000, Currency: "brl",
			})
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case httperr.IsBusiness(err, "invalid_state") || httperr.IsBusiness(err, "booking_was_modified"):
			losses++
		default:
			t.Fatalf("erro inesperado na corrida: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exatamente um aceite vence")
	assert.Equal(t, 1, losses, "o perdedor recebe falha de precondição")

	stored, _ := repo.GetBookingByID(context.Background(), b.ID)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)
	require.NotNil(t, stored.PaymentRef)
	require.NotNil(t, stored.PriceCents)
	assert.Equal(t, int64(20000), *stored.PriceCents)
}
