package models

import "time"

// Notification kinds
const (
	NotifyBillCreated      = "BILL_CREATED"
	NotifyBillPaid         = "BILL_PAID"
	NotifyBillOverdue      = "BILL_OVERDUE"
	NotifyPaymentSubmitted = "PAYMENT_SUBMITTED"
	NotifyPaymentVerified  = "PAYMENT_VERIFIED"
	NotifyStaffPayment     = "STAFF_PAYMENT"
	NotifyMaintenance      = "MAINTENANCE"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
