// Package store declares the persistence contracts the services depend on.
// repositories implements them over Postgres; memstore implements them in memory.
package store

import (
	"context"
	"errors"
	"time"

	"rental-backend/internal/models"
)

var (
	// ErrNotFound is returned when an id does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write breaks a uniqueness rule.
	ErrConflict = errors.New("record conflicts with an existing one")
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type RoomRepo interface {
	Create(ctx context.Context, r *models.Room) error
	Get(ctx context.Context, id int) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
}

type RentBillRepo interface {
	Create(ctx context.Context, b *models.RentBill) error
	Get(ctx context.Context, id int) (*models.RentBill, error)
	List(ctx context.Context, f models.BillFilter) ([]*models.RentBillView, error)
	ListByTenantStatus(ctx context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.RentBill, error)
	MarkPaid(ctx context.Context, id int, paidOn time.Time, paidOnBS string) error
	// MarkPaidByTenant flips every bill of the tenant in one of statuses to PAID
	// and returns the number of rows changed.
	MarkPaidByTenant(ctx context.Context, tenantID int, paidOn time.Time, paidOnBS string, statuses ...models.BillStatus) (int64, error)
	// MarkOverdue flips DUE bills whose due date is before cutoff to OVERDUE
	// and returns the affected bills.
	MarkOverdue(ctx context.Context, cutoff time.Time) ([]*models.RentBill, error)
	Delete(ctx context.Context, id int) error
}

type UtilityBillRepo interface {
	Create(ctx context.Context, b *models.UtilityBill) error
	Get(ctx context.Context, id int) (*models.UtilityBill, error)
	List(ctx context.Context, f models.BillFilter) ([]*models.UtilityBillView, error)
	ListByTenantStatus(ctx context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.UtilityBill, error)
	MarkPaid(ctx context.Context, id int, paidOn time.Time, paidOnBS string) error
	MarkPaidByTenant(ctx context.Context, tenantID int, paidOn time.Time, paidOnBS string) (int64, error)
	Delete(ctx context.Context, id int) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id int) (*models.Payment, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.PaymentView, error)
	GetPendingByTenant(ctx context.Context, tenantID int) (*models.Payment, error)
	MarkVerified(ctx context.Context, id int, verifiedBy int, at time.Time) error
}

type StaffPaymentRepo interface {
	Create(ctx context.Context, p *models.StaffPayment) error
	ListByStaff(ctx context.Context, staffID int) ([]*models.StaffPayment, error)
	ListAll(ctx context.Context) ([]*models.StaffPayment, error)
}

type ExpenseRepo interface {
	Create(ctx context.Context, e *models.Expense) error
	List(ctx context.Context) ([]*models.Expense, error)
}

type WaterTankerRepo interface {
	Create(ctx context.Context, l *models.WaterTankerLog) error
	List(ctx context.Context) ([]*models.WaterTankerLog, error)
}

type MaintenanceRepo interface {
	Create(ctx context.Context, m *models.MaintenanceRequest) error
	Get(ctx context.Context, id int) (*models.MaintenanceRequest, error)
	List(ctx context.Context, tenantID int) ([]*models.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id int, status models.MaintenanceStatus) error
}

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
}

// Store bundles the repositories. InTx runs fn against a transactional Store:
// every write made through the Store passed to fn commits together or not at all.
type Store interface {
	Users() UserRepo
	Rooms() RoomRepo
	RentBills() RentBillRepo
	UtilityBills() UtilityBillRepo
	Payments() PaymentRepo
	StaffPayments() StaffPaymentRepo
	Expenses() ExpenseRepo
	WaterTankers() WaterTankerRepo
	Maintenance() MaintenanceRepo
	Notifications() NotificationRepo

	InTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
