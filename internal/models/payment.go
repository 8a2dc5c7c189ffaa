package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusVerified PaymentStatus = "VERIFIED"
)

// Payment is a tenant's claim of having paid all dues, awaiting admin verification
type Payment struct {
	ID           int             `json:"id"`
	TenantID     int             `json:"tenant_id"`
	Amount       decimal.Decimal `json:"amount"`
	Status       PaymentStatus   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	VerifiedAt   *time.Time      `json:"verified_at,omitempty"`
	VerifiedByID *int            `json:"verified_by_id,omitempty"`
}

// PaymentView is a payment joined with tenant details
type PaymentView struct {
	Payment
	TenantName  string `json:"tenant_name"`
	TenantEmail string `json:"tenant_email"`
}

// Dues summarises everything a tenant currently owes
type Dues struct {
	RentBills      []*RentBill     `json:"rent_bills"`
	UtilityBills   []*UtilityBill  `json:"utility_bills"`
	Total          decimal.Decimal `json:"total"`
	PendingPayment *Payment        `json:"pending_payment,omitempty"`
}

// ReconciliationResult reports what verifying a payment changed
type ReconciliationResult struct {
	Payment          *Payment        `json:"payment"`
	RentBillsPaid    int64           `json:"rent_bills_paid"`
	UtilityBillsPaid int64           `json:"utility_bills_paid"`
	SweptTotal       decimal.Decimal `json:"swept_total"`
	PaidOnBS         string          `json:"paid_on_bs"`
}
