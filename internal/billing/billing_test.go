package billing

import (
	"testing"

	"rental-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUnitsConsumed(t *testing.T) {
	cases := []struct {
		name     string
		previous string
		current  string
		want     string
	}{
		{"normal", "100", "145", "45"},
		{"no change", "200", "200", "0"},
		{"meter reset clamps to zero", "120", "100", "0"},
		{"fractional", "10.5", "12.75", "2.25"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UnitsConsumed(dec(tc.previous), dec(tc.current))
			assert.True(t, dec(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{15000, "15000"},
		{100.005, "100.01"},
		{99.994, "99.99"},
		{0.004, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Money(tc.in).String(), "Money(%v)", tc.in)
	}
}

func TestApplyUtilityCharges(t *testing.T) {
	charges := Charges{Service: dec("300"), Security: dec("200")}

	req := &models.CreateUtilityBillRequest{
		Electricity:           models.MeterReadingRequest{PreviousReading: 1000, CurrentReading: 1100, Rate: 15},
		Water:                 models.MeterReadingRequest{PreviousReading: 50, CurrentReading: 60, Rate: 30},
		IncludeServiceCharge:  true,
		IncludeSecurityCharge: true,
	}

	var b models.UtilityBill
	ApplyUtilityCharges(&b, req, charges)

	assert.True(t, dec("100").Equal(b.Electricity.UnitsConsumed))
	assert.True(t, dec("1500").Equal(b.Electricity.Amount))
	assert.True(t, dec("300").Equal(b.Water.Amount))
	assert.True(t, dec("300").Equal(b.ServiceCharge))
	assert.True(t, dec("200").Equal(b.SecurityCharge))
	// 1500 + 300 + 300 + 200
	assert.True(t, dec("2300").Equal(b.TotalAmount), "total = %s", b.TotalAmount)
}

func TestApplyUtilityCharges_UnselectedChargesAndMeterReset(t *testing.T) {
	charges := Charges{Service: dec("300"), Security: dec("200")}

	req := &models.CreateUtilityBillRequest{
		Electricity: models.MeterReadingRequest{PreviousReading: 120, CurrentReading: 100, Rate: 15},
		Water:       models.MeterReadingRequest{PreviousReading: 10, CurrentReading: 14, Rate: 25},
	}

	var b models.UtilityBill
	ApplyUtilityCharges(&b, req, charges)

	assert.True(t, b.Electricity.UnitsConsumed.IsZero())
	assert.True(t, b.Electricity.Amount.IsZero())
	assert.True(t, b.ServiceCharge.IsZero())
	assert.True(t, b.SecurityCharge.IsZero())
	assert.True(t, dec("100").Equal(b.TotalAmount), "total = %s", b.TotalAmount)
}

func TestDueTotal(t *testing.T) {
	rent := []*models.RentBill{
		{Amount: dec("15000"), Status: models.BillStatusDue},
		{Amount: dec("14000"), Status: models.BillStatusPaid},
		{Amount: dec("13000"), Status: models.BillStatusOverdue},
	}
	utility := []*models.UtilityBill{
		{TotalAmount: dec("2300"), Status: models.BillStatusDue},
		{TotalAmount: dec("999"), Status: models.BillStatusPaid},
	}

	assert.True(t, dec("17300").Equal(DueTotal(rent, utility, models.BillStatusDue)))
	assert.True(t, dec("30300").Equal(DueTotal(rent, utility, models.BillStatusDue, models.BillStatusOverdue)))
}

func TestBalance(t *testing.T) {
	payments := []*models.StaffPayment{
		{StaffID: 4, Type: models.StaffPaymentSalary, Amount: dec("20000")},
		{StaffID: 4, Type: models.StaffPaymentBonus, Amount: dec("2500")},
		{StaffID: 4, Type: models.StaffPaymentAdvance, Amount: dec("5000")},
		{StaffID: 4, Type: models.StaffPaymentAdvance, Amount: dec("1000")},
	}

	bal := Balance(4, payments)
	assert.Equal(t, 4, bal.StaffID)
	assert.Equal(t, 4, bal.PaymentCount)
	assert.True(t, dec("20000").Equal(bal.TotalSalary))
	assert.True(t, dec("2500").Equal(bal.TotalBonus))
	assert.True(t, dec("6000").Equal(bal.TotalAdvance))
	assert.True(t, dec("16500").Equal(bal.NetBalance), "net = %s", bal.NetBalance)
}

func TestBalance_Empty(t *testing.T) {
	bal := Balance(9, nil)
	assert.True(t, bal.NetBalance.IsZero())
	assert.Equal(t, 0, bal.PaymentCount)
}

func TestSummarize(t *testing.T) {
	payments := []*models.StaffPayment{
		{StaffID: 1, Type: models.StaffPaymentSalary, Amount: dec("10000")},
		{StaffID: 2, Type: models.StaffPaymentAdvance, Amount: dec("3000")},
		{StaffID: 1, Type: models.StaffPaymentAdvance, Amount: dec("2000")},
		{StaffID: 2, Type: models.StaffPaymentSalary, Amount: dec("12000")},
	}

	s := Summarize(payments, map[int]string{1: "Ram", 2: "Sita"})
	require.Len(t, s.Staff, 2)
	assert.Equal(t, "Ram", s.Staff[0].StaffName)
	assert.True(t, dec("8000").Equal(s.Staff[0].NetBalance))
	assert.True(t, dec("9000").Equal(s.Staff[1].NetBalance))
	assert.True(t, dec("22000").Equal(s.TotalSalary))
	assert.True(t, dec("5000").Equal(s.TotalAdvance))
	assert.True(t, dec("17000").Equal(s.NetBalance))
}
