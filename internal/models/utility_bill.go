package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeterCharge is one metered utility (electricity or water) on a utility bill.
type MeterCharge struct {
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	UnitsConsumed   decimal.Decimal `json:"units_consumed"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
}

type UtilityBill struct {
	ID             int             `json:"id"`
	TenantID       int             `json:"tenant_id"`
	RoomID         int             `json:"room_id"`
	Month          string          `json:"month"`
	Electricity    MeterCharge     `json:"electricity"`
	Water          MeterCharge     `json:"water"`
	ServiceCharge  decimal.Decimal `json:"service_charge"`
	SecurityCharge decimal.Decimal `json:"security_charge"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         BillStatus      `json:"status"`
	BillDate       time.Time       `json:"bill_date"`
	BillDateBS     string          `json:"bill_date_bs"`
	PaidOn         *time.Time      `json:"paid_on,omitempty"`
	PaidOnBS       string          `json:"paid_on_bs,omitempty"`
	Remarks        string          `json:"remarks"`
	CreatedByID    int             `json:"created_by_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UtilityBillView is a utility bill joined with tenant and room details
type UtilityBillView struct {
	UtilityBill
	TenantName string `json:"tenant_name"`
	RoomNumber string `json:"room_number"`
}

type MeterReadingRequest struct {
	PreviousReading float64 `json:"previous_reading" validate:"gte=0"`
	CurrentReading  float64 `json:"current_reading" validate:"gte=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
}

type CreateUtilityBillRequest struct {
	TenantID              int                 `json:"tenant_id" validate:"required,gt=0"`
	RoomID                int                 `json:"room_id" validate:"required,gt=0"`
	Month                 string              `json:"month" validate:"required"`
	Electricity           MeterReadingRequest `json:"electricity"`
	Water                 MeterReadingRequest `json:"water"`
	IncludeServiceCharge  bool                `json:"include_service_charge"`
	IncludeSecurityCharge bool                `json:"include_security_charge"`
	Remarks               string              `json:"remarks"`
}
