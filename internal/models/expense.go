package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseSecurityPayroll ExpenseCategory = "SECURITY_PAYROLL"
	ExpenseWaterTanker     ExpenseCategory = "WATER_TANKER"
	ExpenseOther           ExpenseCategory = "OTHER"
)

// Expense is a property-level outgoing. Payroll and tanker rows are mirrored here
// in the same transaction that creates the source row.
type Expense struct {
	ID            int             `json:"id"`
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ReferenceType string          `json:"reference_type"` // 'staff_payment', 'water_tanker'
	ReferenceID   *int            `json:"reference_id"`
	Date          time.Time       `json:"date"`
	DateBS        string          `json:"date_bs"`
	CreatedByID   int             `json:"created_by_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

type WaterTankerLog struct {
	ID         int             `json:"id"`
	Supplier   string          `json:"supplier"`
	Liters     int             `json:"liters"`
	Cost       decimal.Decimal `json:"cost"`
	Date       time.Time       `json:"date"`
	DateBS     string          `json:"date_bs"`
	Remarks    string          `json:"remarks"`
	LoggedByID int             `json:"logged_by_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreateWaterTankerRequest struct {
	Supplier string  `json:"supplier" validate:"required"`
	Liters   int     `json:"liters" validate:"gt=0"`
	Cost     float64 `json:"cost" validate:"gt=0"`
	Date     string  `json:"date"`
	Remarks  string  `json:"remarks"`
}

// SecurityDashboard is what a security guard sees on their dashboard
type SecurityDashboard struct {
	Balance    *StaffBalance     `json:"balance"`
	Payments   []*StaffPayment   `json:"payments"`
	TankerLogs []*WaterTankerLog `json:"tanker_logs"`
}
