package services

import (
	"testing"

	"rental-backend/internal/apperr"
	"rental-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDues(t *testing.T) {
	f := newFixture(t)

	d, err := f.payments.GetDues(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.NotNil(t, d.RentBills)
	assert.NotNil(t, d.UtilityBills)
	assert.True(t, d.Total.IsZero())

	f.rentBill(t, 15000)
	f.utilityBill(t)
	d, err = f.payments.GetDues(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, d.RentBills, 1)
	assert.Len(t, d.UtilityBills, 1)
	assert.True(t, decimal.NewFromInt(17300).Equal(d.Total), d.Total.String())
	assert.Nil(t, d.PendingPayment)
}

func TestRequestPaymentVerification(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 15000)
	f.utilityBill(t)
	secondAdmin := f.user(t, "Second", "second@example.com", models.RoleAdmin)

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
	assert.True(t, decimal.NewFromInt(17300).Equal(p.Amount), p.Amount.String())

	for _, id := range []int{f.admin.ID, secondAdmin.ID} {
		notes := f.notificationsFor(t, id)
		require.Len(t, notes, 1)
		assert.Equal(t, models.NotifyPaymentSubmitted, notes[0].Kind)
	}

	d, err := f.payments.GetDues(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, d.PendingPayment)
	assert.Equal(t, p.ID, d.PendingPayment.ID)

	pending, err := f.payments.ListPendingPayments(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Sita", pending[0].TenantName)
}

func TestRequestPaymentVerification_RejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 15000)

	_, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	_, err = f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	assertKind(t, err, apperr.KindConflict)

	pending, err := f.payments.ListPendingPayments(f.ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRequestPaymentVerification_NoDues(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "No dues to pay", err.Error())

	_, err = f.payments.RequestPaymentVerification(f.ctx, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)
}

func TestVerifyPayment_SettlesEverything(t *testing.T) {
	f := newFixture(t)
	rb := f.rentBill(t, 15000)
	ub := f.utilityBill(t)

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	res, err := f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RentBillsPaid)
	assert.Equal(t, int64(1), res.UtilityBillsPaid)
	assert.True(t, decimal.NewFromInt(17300).Equal(res.SweptTotal))
	assert.Equal(t, models.PaymentStatusVerified, res.Payment.Status)
	assert.NotEmpty(t, res.PaidOnBS)

	rent, err := f.st.RentBills().Get(f.ctx, rb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, rent.Status)
	assert.Equal(t, res.PaidOnBS, rent.PaidOnBS)

	utility, err := f.st.UtilityBills().Get(f.ctx, ub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, utility.Status)

	stored, err := f.st.Payments().Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVerified, stored.Status)
	require.NotNil(t, stored.VerifiedByID)
	assert.Equal(t, f.admin.ID, *stored.VerifiedByID)

	d, err := f.payments.GetDues(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, d.Total.IsZero())
	assert.Nil(t, d.PendingPayment)

	var verified int
	for _, n := range f.notificationsFor(t, f.tenant.ID) {
		if n.Kind == models.NotifyPaymentVerified {
			verified++
		}
	}
	assert.Equal(t, 1, verified)
}

func TestVerifyPayment_Twice(t *testing.T) {
	f := newFixture(t)
	rb := f.rentBill(t, 15000)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	_, err = f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
	settled, err := f.st.RentBills().Get(f.ctx, rb.ID)
	require.NoError(t, err)

	// a later bill must not be swept by re-verifying the old payment
	later := f.rentBill(t, 16000)
	f.now = f.now.AddDate(0, 0, 1)

	_, err = f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Payment already verified", err.Error())

	again, err := f.st.RentBills().Get(f.ctx, rb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, again.Status)
	assert.Equal(t, settled.PaidOn, again.PaidOn)

	open, err := f.st.RentBills().Get(f.ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusDue, open.Status)
	assert.Nil(t, open.PaidOn)

	_, err = f.payments.VerifyPayment(f.ctx, 999, f.admin.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestVerifyPayment_LeavesOverdueUnlessConfigured(t *testing.T) {
	f := newFixture(t)
	overdue := f.rentBill(t, 15000)
	f.now = f.now.AddDate(0, 0, 10)
	_, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	f.utilityBill(t)

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2300).Equal(p.Amount), p.Amount.String())

	res, err := f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RentBillsPaid)
	assert.Equal(t, int64(1), res.UtilityBillsPaid)

	rent, err := f.st.RentBills().Get(f.ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusOverdue, rent.Status)
}

func TestVerifyPayment_SweepsOverdueWhenConfigured(t *testing.T) {
	f := newFixture(t)
	f.payments.Options.SweepOverdueOnVerify = true
	overdue := f.rentBill(t, 15000)
	f.now = f.now.AddDate(0, 0, 10)
	_, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15000).Equal(p.Amount))

	res, err := f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RentBillsPaid)

	rent, err := f.st.RentBills().Get(f.ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, rent.Status)
}

func TestVerifyPayment_RejectsWhenNothingLeftToSettle(t *testing.T) {
	f := newFixture(t)
	rb := f.rentBill(t, 15000)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	// the grace period lapses before an admin gets to the payment
	f.now = f.now.AddDate(0, 0, 7)
	marked, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	require.Len(t, marked, 1)

	for i := 0; i < 2; i++ {
		_, err = f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
		assertKind(t, err, apperr.KindValidation)

		rent, err := f.st.RentBills().Get(f.ctx, rb.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillStatusOverdue, rent.Status)
		assert.Nil(t, rent.PaidOn)

		stored, err := f.st.Payments().Get(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.Status)
		assert.Nil(t, stored.VerifiedAt)
	}

	for _, n := range f.notificationsFor(t, f.tenant.ID) {
		assert.NotEqual(t, models.NotifyPaymentVerified, n.Kind)
	}
}

func TestVerifyPayment_SettlesRentMarkedOverdueAfterSubmission(t *testing.T) {
	f := newFixture(t)
	f.payments.Options.AutoMarkOverdue = true
	rb := f.rentBill(t, 15000)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, 7)
	marked, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	require.Len(t, marked, 1)

	res, err := f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RentBillsPaid)
	assert.True(t, p.Amount.Equal(res.SweptTotal), res.SweptTotal.String())

	rent, err := f.st.RentBills().Get(f.ctx, rb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, rent.Status)
}

func TestGetDues_KeepsOverdueRentWhileAutoMarking(t *testing.T) {
	f := newFixture(t)
	f.payments.Options.AutoMarkOverdue = true
	f.rentBill(t, 15000)
	f.now = f.now.AddDate(0, 0, 7)
	_, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)

	d, err := f.payments.GetDues(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	require.Len(t, d.RentBills, 1)
	assert.Equal(t, models.BillStatusOverdue, d.RentBills[0].Status)
	assert.True(t, decimal.NewFromInt(15000).Equal(d.Total), d.Total.String())

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15000).Equal(p.Amount), p.Amount.String())
}

func TestBillingOptions_SettlesOverdue(t *testing.T) {
	assert.False(t, BillingOptions{}.SettlesOverdue())
	assert.True(t, BillingOptions{SweepOverdueOnVerify: true}.SettlesOverdue())
	assert.True(t, BillingOptions{AutoMarkOverdue: true}.SettlesOverdue())
}

func TestVerifyPayment_IsAtomic(t *testing.T) {
	f := newFixture(t)
	rb := f.rentBill(t, 15000)
	ub := f.utilityBill(t)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	published := len(f.pub.published)

	broken := NewPaymentService(failingStore{Store: f.st}, f.pub, nil, testOptions())
	_, err = broken.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.ErrorIs(t, err, errDiskFull)

	rent, err := f.st.RentBills().Get(f.ctx, rb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusDue, rent.Status)
	assert.Nil(t, rent.PaidOn)

	utility, err := f.st.UtilityBills().Get(f.ctx, ub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusDue, utility.Status)

	stored, err := f.st.Payments().Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	assert.Len(t, f.pub.published, published)

	// the same payment still verifies once the store recovers
	_, err = f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)
}

func TestGetPayment(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 100)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	got, tenant, err := f.payments.GetPayment(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, f.tenant.ID, tenant.ID)

	_, _, err = f.payments.GetPayment(f.ctx, 999)
	assertKind(t, err, apperr.KindNotFound)
}

func TestReceipt(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 15000)
	other := f.user(t, "Ram", "ram@example.com", models.RoleTenant)
	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)

	_, _, err = f.payments.Receipt(f.ctx, p.ID, f.tenant.ID, models.RoleTenant)
	assertKind(t, err, apperr.KindValidation)

	_, err = f.payments.VerifyPayment(f.ctx, p.ID, f.admin.ID)
	require.NoError(t, err)

	name, pdf, err := f.payments.Receipt(f.ctx, p.ID, f.tenant.ID, models.RoleTenant)
	require.NoError(t, err)
	assert.Equal(t, "RCPT-000001.pdf", name)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	_, _, err = f.payments.Receipt(f.ctx, p.ID, f.admin.ID, models.RoleAdmin)
	require.NoError(t, err)

	_, _, err = f.payments.Receipt(f.ctx, p.ID, other.ID, models.RoleTenant)
	assertKind(t, err, apperr.KindForbidden)
}
