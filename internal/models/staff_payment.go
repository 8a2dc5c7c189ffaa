package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StaffPaymentType string

const (
	StaffPaymentSalary  StaffPaymentType = "SALARY"
	StaffPaymentBonus   StaffPaymentType = "BONUS"
	StaffPaymentAdvance StaffPaymentType = "ADVANCE"
)

type StaffPayment struct {
	ID          int              `json:"id"`
	StaffID     int              `json:"staff_id"`
	Type        StaffPaymentType `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Month       string           `json:"month,omitempty"`
	Date        time.Time        `json:"date"`
	DateBS      string           `json:"date_bs"`
	Remarks     string           `json:"remarks"`
	CreatedByID int              `json:"created_by_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

type CreateStaffPaymentRequest struct {
	StaffID int              `json:"staff_id" validate:"required,gt=0"`
	Type    StaffPaymentType `json:"type" validate:"required,oneof=SALARY BONUS ADVANCE"`
	Amount  float64          `json:"amount" validate:"gt=0"`
	Month   string           `json:"month"`
	Date    string           `json:"date"` // optional YYYY-MM-DD, defaults to today
	Remarks string           `json:"remarks"`
}

// StaffBalance is the derived payroll rollup for one staff member.
// Never stored; recomputed from StaffPayment rows on every read.
type StaffBalance struct {
	StaffID      int             `json:"staff_id"`
	StaffName    string          `json:"staff_name,omitempty"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
	TotalBonus   decimal.Decimal `json:"total_bonus"`
	TotalAdvance decimal.Decimal `json:"total_advance"`
	NetBalance   decimal.Decimal `json:"net_balance"`
	PaymentCount int             `json:"payment_count"`
}

type PayrollSummary struct {
	Staff        []*StaffBalance `json:"staff"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
	TotalBonus   decimal.Decimal `json:"total_bonus"`
	TotalAdvance decimal.Decimal `json:"total_advance"`
	NetBalance   decimal.Decimal `json:"net_balance"`
}
