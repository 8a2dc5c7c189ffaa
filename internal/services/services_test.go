package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/memstore"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Publisher that keeps what it was given
type recorder struct {
	published []*models.Notification
}

func (r *recorder) Publish(_ context.Context, n *models.Notification) error {
	r.published = append(r.published, n)
	return nil
}

var _ notify.Publisher = (*recorder)(nil)

type fixture struct {
	ctx      context.Context
	st       *memstore.Store
	pub      *recorder
	admin    *models.User
	tenant   *models.User
	room     *models.Room
	bills    *BillService
	payments *PaymentService
	payroll  *PayrollService
	now      time.Time
}

func testOptions() BillingOptions {
	return BillingOptions{
		GraceDays: 5,
		Charges: billing.Charges{
			Service:  decimal.NewFromInt(500),
			Security: decimal.NewFromInt(300),
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()
	f := &fixture{
		ctx: ctx,
		st:  st,
		pub: &recorder{},
		now: time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC),
	}

	f.room = &models.Room{RoomNumber: "101", MonthlyRent: decimal.NewFromInt(15000)}
	require.NoError(t, st.Rooms().Create(ctx, f.room))
	f.admin = f.user(t, "Admin", "admin@example.com", models.RoleAdmin)
	f.tenant = &models.User{Name: "Sita", Email: "sita@example.com", Role: models.RoleTenant, RoomID: &f.room.ID}
	require.NoError(t, st.Users().Create(ctx, f.tenant))

	clock := func() time.Time { return f.now }
	f.bills = NewBillService(st, f.pub, nil, testOptions())
	f.bills.Now = clock
	f.payments = NewPaymentService(st, f.pub, nil, testOptions())
	f.payments.Now = clock
	f.payroll = NewPayrollService(st, f.pub)
	f.payroll.Now = clock
	return f
}

func (f *fixture) user(t *testing.T, name, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Role: role}
	require.NoError(t, f.st.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) rentBill(t *testing.T, amount float64) *models.RentBill {
	t.Helper()
	b, err := f.bills.CreateRentBill(f.ctx, &models.CreateRentBillRequest{
		TenantID: f.tenant.ID, RoomID: f.room.ID, Period: "Baisakh 2082", Amount: amount,
	}, f.admin.ID)
	require.NoError(t, err)
	return b
}

func (f *fixture) utilityBill(t *testing.T) *models.UtilityBill {
	t.Helper()
	b, err := f.bills.CreateUtilityBill(f.ctx, utilityRequest(f.tenant.ID, f.room.ID), f.admin.ID)
	require.NoError(t, err)
	return b
}

// utilityRequest bills 100 kWh at 15 plus 10 units of water at 30 plus the service charge
func utilityRequest(tenantID, roomID int) *models.CreateUtilityBillRequest {
	return &models.CreateUtilityBillRequest{
		TenantID:             tenantID,
		RoomID:               roomID,
		Month:                "Baisakh 2082",
		Electricity:          models.MeterReadingRequest{PreviousReading: 100, CurrentReading: 200, Rate: 15},
		Water:                models.MeterReadingRequest{PreviousReading: 10, CurrentReading: 20, Rate: 30},
		IncludeServiceCharge: true,
	}
}

func (f *fixture) notificationsFor(t *testing.T, userID int) []*models.Notification {
	t.Helper()
	list, err := f.st.Notifications().ListByUser(f.ctx, userID, 0)
	require.NoError(t, err)
	return list
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), err.Error())
}

// failingStore wraps a Store so that marking a payment verified always fails
type failingStore struct {
	store.Store
}

func (f failingStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	return f.Store.InTx(ctx, func(tx store.Store) error {
		return fn(failingStore{Store: tx})
	})
}

func (f failingStore) Payments() store.PaymentRepo {
	return failingPayments{PaymentRepo: f.Store.Payments()}
}

type failingPayments struct {
	store.PaymentRepo
}

var errDiskFull = errors.New("disk full")

func (failingPayments) MarkVerified(context.Context, int, int, time.Time) error {
	return errDiskFull
}
