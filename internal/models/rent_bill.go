package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a rent or utility bill.
// Utility bills never become OVERDUE.
type BillStatus string

const (
	BillStatusDue     BillStatus = "DUE"
	BillStatusPaid    BillStatus = "PAID"
	BillStatusOverdue BillStatus = "OVERDUE"
)

type RentBill struct {
	ID          int             `json:"id"`
	TenantID    int             `json:"tenant_id"`
	RoomID      int             `json:"room_id"`
	Period      string          `json:"period"` // billing period label, e.g. "Baisakh 2083"
	Amount      decimal.Decimal `json:"amount"`
	Status      BillStatus      `json:"status"`
	BillDate    time.Time       `json:"bill_date"`
	BillDateBS  string          `json:"bill_date_bs"`
	DueDate     time.Time       `json:"due_date"`
	PaidOn      *time.Time      `json:"paid_on,omitempty"`
	PaidOnBS    string          `json:"paid_on_bs,omitempty"`
	Remarks     string          `json:"remarks"`
	CreatedByID int             `json:"created_by_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RentBillView is a rent bill joined with tenant and room details
type RentBillView struct {
	RentBill
	TenantName string `json:"tenant_name"`
	RoomNumber string `json:"room_number"`
}

type CreateRentBillRequest struct {
	TenantID int     `json:"tenant_id" validate:"required,gt=0"`
	RoomID   int     `json:"room_id" validate:"required,gt=0"`
	Period   string  `json:"period" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Remarks  string  `json:"remarks"`
}

// BillFilter narrows bill listings. Zero values mean "any".
type BillFilter struct {
	TenantID int
	Status   BillStatus
}
