package booking_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/BruksfildServices01/home-services-api/internal/audit"
	domain "github.com/BruksfildServices01/home-services-api/internal/domain/booking"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/BruksfildServices01/home-services-api/internal/payments"
)

// ======================================================
// Repositório fake com CAS real (mutex) pra simular corrida
// ======================================================

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
	profiles map[uint]*models.VendorProfile

	failUpdate error // força falha genérica no UpdateBookingIf
	nextID     uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: map[uint]*models.Booking{},
		profiles: map[uint]*models.VendorProfile{},
		nextID:   1,
	}
}

func (r *fakeRepo) put(b models.Booking) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.nextID
		r.nextID++
	}
	stored := b
	r.bookings[stored.ID] = &stored
	return &stored
}

func (r *fakeRepo) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *b // cópia: mutação do caller não vaza pro "banco"
	return &cp, nil
}

func (r *fakeRepo) GetBookingByPaymentRef(ctx context.Context, ref string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentRef != nil && *b.PaymentRef == ref {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) ListBookings(ctx context.Context, f domain.ListFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if f.CustomerID != 0 && b.CustomerID != f.CustomerID {
			continue
		}
		if f.VendorID != 0 && b.VendorID != f.VendorID {
			continue
		}
		if f.Status != "" && b.Status != string(f.Status) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	stored := r.put(*b)
	b.ID = stored.ID
	return nil
}

func (r *fakeRepo) UpdateBookingIf(ctx context.Context, b *models.Booking, expected domain.Status) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[b.ID]
	if !ok {
		return errors.New("record not found")
	}
	if current.Status != string(expected) {
		return httperr.ErrBusiness("booking_was_modified")
	}
	cp := *b
	cp.PaymentStatus = current.PaymentStatus // coluna é da conciliação, CAS não escreve
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) CancelBookingIf(ctx context.Context, b *models.Booking, expected domain.Status) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[b.ID]
	if !ok {
		return errors.New("record not found")
	}
	if current.Status != string(expected) ||
		current.PaymentStatus == string(domain.PaymentPaid) {
		return httperr.ErrBusiness("booking_was_modified")
	}
	cp := *b
	cp.PaymentStatus = current.PaymentStatus
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) SetPaymentStatus(ctx context.Context, bookingID uint, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return errors.New("record not found")
	}
	b.PaymentStatus = string(status)
	return nil
}

func (r *fakeRepo) GetVendorProfile(ctx context.Context, vendorUserID uint) (*models.VendorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[vendorUserID]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) SetVendorOnboarding(ctx context.Context, payoutAccountID string, complete bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.PayoutAccountID == payoutAccountID {
			p.OnboardingComplete = complete
			return nil
		}
	}
	return errors.New("record not found")
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// Provedor de pagamento fake
// ======================================================

type fakeProvider struct {
	mu    sync.Mutex
	calls []payments.CreateIntentInput
	err   error
	seq   int
}

func (p *fakeProvider) CreateIntent(ctx context.Context, in payments.CreateIntentInput) (*payments.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.calls = append(p.calls, in)
	p.seq++
	return &payments.Intent{
		ID:           intentID(p.seq),
		ClientSecret: intentID(p.seq) + "_secret",
	}, nil
}

func intentID(n int) string {
	return "pi_fake_" + strconv.Itoa(n)
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// ======================================================
// Dispatchers fake
// ======================================================

type fakeAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *fakeAudit) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *fakeAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ev := range a.events {
		if ev.Action == action {
			return true
		}
	}
	return false
}

type sentMail struct {
	template  string
	recipient string
	data      map[string]any
}

type fakeNotify struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotify) Dispatch(templateType string, recipient string, data map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{template: templateType, recipient: recipient, data: data})
}

type fixedRate int64

func (r fixedRate) CurrentRateBps(ctx context.Context) int64 {
	return int64(r)
}
