package services

import (
	"testing"

	"rental-backend/internal/apperr"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRentBill(t *testing.T) {
	f := newFixture(t)
	b := f.rentBill(t, 15000)

	assert.Equal(t, models.BillStatusDue, b.Status)
	assert.True(t, decimal.NewFromInt(15000).Equal(b.Amount))
	assert.Equal(t, timeutil.StartOfDay(f.now).AddDate(0, 0, 5), b.DueDate)
	assert.NotEmpty(t, b.BillDateBS)

	notes := f.notificationsFor(t, f.tenant.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotifyBillCreated, notes[0].Kind)
	assert.Len(t, f.pub.published, 1)
}

func TestCreateRentBill_Rejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.bills.CreateRentBill(f.ctx, &models.CreateRentBillRequest{
		TenantID: f.tenant.ID, RoomID: f.room.ID, Period: "Baisakh 2082", Amount: 0,
	}, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)

	_, err = f.bills.CreateRentBill(f.ctx, &models.CreateRentBillRequest{
		TenantID: f.admin.ID, RoomID: f.room.ID, Period: "Baisakh 2082", Amount: 100,
	}, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)

	_, err = f.bills.CreateRentBill(f.ctx, &models.CreateRentBillRequest{
		TenantID: 999, RoomID: f.room.ID, Period: "Baisakh 2082", Amount: 100,
	}, f.admin.ID)
	assertKind(t, err, apperr.KindNotFound)
	assert.Empty(t, f.pub.published)
}

func TestCreateRentBill_RoundsToTwoPlaces(t *testing.T) {
	f := newFixture(t)

	b := f.rentBill(t, 100.005)
	assert.Equal(t, "100.01", b.Amount.String())

	stored, err := f.st.RentBills().Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, b.Amount.Equal(stored.Amount))

	p, err := f.payments.RequestPaymentVerification(f.ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.01", p.Amount.String())

	_, err = f.bills.CreateRentBill(f.ctx, &models.CreateRentBillRequest{
		TenantID: f.tenant.ID, RoomID: f.room.ID, Period: "Jestha 2082", Amount: 0.004,
	}, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)
}

func TestCreateUtilityBill_Totals(t *testing.T) {
	f := newFixture(t)
	b := f.utilityBill(t)

	assert.True(t, decimal.NewFromInt(1500).Equal(b.Electricity.Amount), b.Electricity.Amount.String())
	assert.True(t, decimal.NewFromInt(300).Equal(b.Water.Amount), b.Water.Amount.String())
	assert.True(t, decimal.NewFromInt(500).Equal(b.ServiceCharge))
	assert.True(t, b.SecurityCharge.IsZero())
	assert.True(t, decimal.NewFromInt(2300).Equal(b.TotalAmount), b.TotalAmount.String())
	assert.Equal(t, models.BillStatusDue, b.Status)
}

func TestCreateUtilityBill_BackwardsReadingBillsZero(t *testing.T) {
	f := newFixture(t)
	req := utilityRequest(f.tenant.ID, f.room.ID)
	req.Electricity = models.MeterReadingRequest{PreviousReading: 500, CurrentReading: 20, Rate: 15}
	req.IncludeServiceCharge = false

	b, err := f.bills.CreateUtilityBill(f.ctx, req, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, b.Electricity.UnitsConsumed.IsZero())
	assert.True(t, decimal.NewFromInt(300).Equal(b.TotalAmount), b.TotalAmount.String())
}

func TestMarkRentBillPaid(t *testing.T) {
	f := newFixture(t)
	b := f.rentBill(t, 15000)

	paid, err := f.bills.MarkRentBillPaid(f.ctx, b.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidOn)
	assert.NotEmpty(t, paid.PaidOnBS)

	stored, err := f.st.RentBills().Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, stored.Status)

	// tenant and acting admin both hear about it
	assert.Len(t, f.notificationsFor(t, f.admin.ID), 1)
	assert.Len(t, f.notificationsFor(t, f.tenant.ID), 2)

	_, err = f.bills.MarkRentBillPaid(f.ctx, b.ID, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)

	_, err = f.bills.MarkRentBillPaid(f.ctx, 999, f.admin.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestMarkUtilityBillPaid(t *testing.T) {
	f := newFixture(t)
	b := f.utilityBill(t)

	paid, err := f.bills.MarkUtilityBillPaid(f.ctx, b.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, paid.Status)

	_, err = f.bills.MarkUtilityBillPaid(f.ctx, b.ID, f.admin.ID)
	assertKind(t, err, apperr.KindValidation)
}

func TestDeleteBills(t *testing.T) {
	f := newFixture(t)
	rb := f.rentBill(t, 100)
	ub := f.utilityBill(t)

	require.NoError(t, f.bills.DeleteRentBill(f.ctx, rb.ID))
	require.NoError(t, f.bills.DeleteUtilityBill(f.ctx, ub.ID))
	assertKind(t, f.bills.DeleteRentBill(f.ctx, rb.ID), apperr.KindNotFound)
	assertKind(t, f.bills.DeleteUtilityBill(f.ctx, ub.ID), apperr.KindNotFound)
}

func TestListBills_FilterAndJoin(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 100)
	second := f.rentBill(t, 200)
	_, err := f.bills.MarkRentBillPaid(f.ctx, second.ID, f.admin.ID)
	require.NoError(t, err)

	due, err := f.bills.ListRentBills(f.ctx, models.BillFilter{TenantID: f.tenant.ID, Status: models.BillStatusDue})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Sita", due[0].TenantName)
	assert.Equal(t, "101", due[0].RoomNumber)

	all, err := f.bills.ListRentBills(f.ctx, models.BillFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	f.utilityBill(t)
	utility, err := f.bills.ListUtilityBills(f.ctx, models.BillFilter{TenantID: f.tenant.ID})
	require.NoError(t, err)
	assert.Len(t, utility, 1)
}

func TestMarkOverdueRentBills(t *testing.T) {
	f := newFixture(t)
	f.rentBill(t, 100)
	f.rentBill(t, 200)

	// on the due date itself nothing is overdue yet
	f.now = f.now.AddDate(0, 0, 5)
	bills, err := f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)

	f.now = f.now.AddDate(0, 0, 1)
	bills, err = f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	for _, b := range bills {
		assert.Equal(t, models.BillStatusOverdue, b.Status)
	}

	var overdueNotes int
	for _, n := range f.notificationsFor(t, f.tenant.ID) {
		if n.Kind == models.NotifyBillOverdue {
			overdueNotes++
		}
	}
	assert.Equal(t, 1, overdueNotes)

	bills, err = f.bills.MarkOverdueRentBills(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
}
