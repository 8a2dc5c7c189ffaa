// Package billing holds the pure arithmetic behind bills and payroll.
package billing

import (
	"rental-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Charges are the fixed add-ons applied to a utility bill when selected.
type Charges struct {
	Service  decimal.Decimal
	Security decimal.Decimal
}

// Money converts a request amount to a decimal rounded to the two places
// every money and reading column keeps.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// UnitsConsumed returns max(0, current - previous). A meter reset or a
// mistyped reading yields zero consumption instead of an error.
func UnitsConsumed(previous, current decimal.Decimal) decimal.Decimal {
	units := current.Sub(previous)
	if units.IsNegative() {
		return decimal.Zero
	}
	return units
}

// Meter computes one metered charge from its readings and rate.
func Meter(previous, current, rate decimal.Decimal) models.MeterCharge {
	units := UnitsConsumed(previous, current)
	return models.MeterCharge{
		PreviousReading: previous,
		CurrentReading:  current,
		UnitsConsumed:   units,
		Rate:            rate,
		Amount:          units.Mul(rate).Round(2),
	}
}

// ApplyUtilityCharges fills the metered amounts, fixed charges and total on b.
func ApplyUtilityCharges(b *models.UtilityBill, req *models.CreateUtilityBillRequest, charges Charges) {
	b.Electricity = Meter(
		Money(req.Electricity.PreviousReading),
		Money(req.Electricity.CurrentReading),
		Money(req.Electricity.Rate),
	)
	b.Water = Meter(
		Money(req.Water.PreviousReading),
		Money(req.Water.CurrentReading),
		Money(req.Water.Rate),
	)

	b.ServiceCharge = decimal.Zero
	if req.IncludeServiceCharge {
		b.ServiceCharge = charges.Service
	}
	b.SecurityCharge = decimal.Zero
	if req.IncludeSecurityCharge {
		b.SecurityCharge = charges.Security
	}

	b.TotalAmount = b.Electricity.Amount.
		Add(b.Water.Amount).
		Add(b.ServiceCharge).
		Add(b.SecurityCharge)
}

// DueTotal sums the outstanding amount across rent and utility bills.
// Only bills in one of the given statuses are counted.
func DueTotal(rent []*models.RentBill, utility []*models.UtilityBill, statuses ...models.BillStatus) decimal.Decimal {
	total := decimal.Zero
	for _, b := range rent {
		if hasStatus(b.Status, statuses) {
			total = total.Add(b.Amount)
		}
	}
	for _, b := range utility {
		if hasStatus(b.Status, statuses) {
			total = total.Add(b.TotalAmount)
		}
	}
	return total
}

func hasStatus(s models.BillStatus, statuses []models.BillStatus) bool {
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

// Balance folds staff payments into a rollup: ADVANCE subtracts, everything else adds.
func Balance(staffID int, payments []*models.StaffPayment) *models.StaffBalance {
	bal := &models.StaffBalance{
		StaffID:      staffID,
		TotalSalary:  decimal.Zero,
		TotalBonus:   decimal.Zero,
		TotalAdvance: decimal.Zero,
		NetBalance:   decimal.Zero,
	}
	for _, p := range payments {
		switch p.Type {
		case models.StaffPaymentAdvance:
			bal.TotalAdvance = bal.TotalAdvance.Add(p.Amount)
			bal.NetBalance = bal.NetBalance.Sub(p.Amount)
		case models.StaffPaymentBonus:
			bal.TotalBonus = bal.TotalBonus.Add(p.Amount)
			bal.NetBalance = bal.NetBalance.Add(p.Amount)
		default:
			bal.TotalSalary = bal.TotalSalary.Add(p.Amount)
			bal.NetBalance = bal.NetBalance.Add(p.Amount)
		}
		bal.PaymentCount++
	}
	return bal
}

// Summarize groups payments by staff member and rolls them up, plus grand totals.
// names maps staff id to display name; missing entries are left blank.
func Summarize(payments []*models.StaffPayment, names map[int]string) *models.PayrollSummary {
	byStaff := make(map[int][]*models.StaffPayment)
	var order []int
	for _, p := range payments {
		if _, seen := byStaff[p.StaffID]; !seen {
			order = append(order, p.StaffID)
		}
		byStaff[p.StaffID] = append(byStaff[p.StaffID], p)
	}

	summary := &models.PayrollSummary{
		Staff:        make([]*models.StaffBalance, 0, len(order)),
		TotalSalary:  decimal.Zero,
		TotalBonus:   decimal.Zero,
		TotalAdvance: decimal.Zero,
		NetBalance:   decimal.Zero,
	}
	for _, id := range order {
		bal := Balance(id, byStaff[id])
		bal.StaffName = names[id]
		summary.Staff = append(summary.Staff, bal)
		summary.TotalSalary = summary.TotalSalary.Add(bal.TotalSalary)
		summary.TotalBonus = summary.TotalBonus.Add(bal.TotalBonus)
		summary.TotalAdvance = summary.TotalAdvance.Add(bal.TotalAdvance)
		summary.NetBalance = summary.NetBalance.Add(bal.NetBalance)
	}
	return summary
}
