package services

import (
	"context"
	"fmt"
	"log"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

const referenceStaffPayment = "staff_payment"

type PayrollService struct {
	Store     store.Store
	Publisher notify.Publisher
	Now       Clock
}

func NewPayrollService(st store.Store, pub notify.Publisher) *PayrollService {
	return &PayrollService{Store: st, Publisher: pub, Now: timeutil.Now}
}

// RecordStaffPayment appends a payroll row for any STAFF or SECURITY user
func (s *PayrollService) RecordStaffPayment(ctx context.Context, req *models.CreateStaffPaymentRequest, actorID int) (*models.StaffPayment, error) {
	return s.record(ctx, req, actorID, false)
}

// RecordSecurityPayment is RecordStaffPayment restricted to SECURITY users,
// with a SECURITY_PAYROLL expense mirrored in the same transaction.
func (s *PayrollService) RecordSecurityPayment(ctx context.Context, req *models.CreateStaffPaymentRequest, actorID int) (*models.StaffPayment, error) {
	return s.record(ctx, req, actorID, true)
}

func (s *PayrollService) record(ctx context.Context, req *models.CreateStaffPaymentRequest, actorID int, security bool) (*models.StaffPayment, error) {
	amount := billing.Money(req.Amount)
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	switch req.Type {
	case models.StaffPaymentSalary, models.StaffPaymentBonus, models.StaffPaymentAdvance:
	default:
		return nil, apperr.Validation("type must be one of SALARY, BONUS, ADVANCE")
	}

	now := timeutil.ToNPT(s.Now())
	date, err := parseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	payment := &models.StaffPayment{
		StaffID:     req.StaffID,
		Type:        req.Type,
		Amount:      amount,
		Month:       req.Month,
		Date:        date,
		DateBS:      timeutil.FormatBS(date),
		Remarks:     req.Remarks,
		CreatedByID: actorID,
	}

	var box outbox
	err = s.Store.InTx(ctx, func(tx store.Store) error {
		staff, err := tx.Users().Get(ctx, req.StaffID)
		if err != nil {
			return notFound(err, "staff member", req.StaffID)
		}
		if security && staff.Role != models.RoleSecurity {
			return apperr.Validation("user %d is not a security guard", req.StaffID)
		}
		if !security && staff.Role != models.RoleStaff && staff.Role != models.RoleSecurity {
			return apperr.Validation("user %d is not a staff member", req.StaffID)
		}

		if err := tx.StaffPayments().Create(ctx, payment); err != nil {
			return fmt.Errorf("create staff payment: %w", err)
		}

		if security {
			ref := payment.ID
			expense := &models.Expense{
				Category:      models.ExpenseSecurityPayroll,
				Amount:        payment.Amount,
				Description:   fmt.Sprintf("%s payment to %s", payment.Type, staff.Name),
				ReferenceType: referenceStaffPayment,
				ReferenceID:   &ref,
				Date:          payment.Date,
				DateBS:        payment.DateBS,
				CreatedByID:   actorID,
			}
			if err := tx.Expenses().Create(ctx, expense); err != nil {
				return fmt.Errorf("mirror security payroll expense: %w", err)
			}
		}

		return box.notify(ctx, tx, staff.ID, models.NotifyStaffPayment,
			"Payment recorded",
			fmt.Sprintf("A %s of Rs. %s has been recorded for you", payment.Type, payment.Amount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	metrics.StaffPayments.WithLabelValues(string(payment.Type)).Inc()
	log.Printf("[Payroll] %s of %s recorded for staff %d", payment.Type, payment.Amount, payment.StaffID)
	return payment, nil
}

// StaffBalance folds one staff member's payroll rows into a net balance
func (s *PayrollService) StaffBalance(ctx context.Context, staffID int) (*models.StaffBalance, error) {
	staff, err := s.Store.Users().Get(ctx, staffID)
	if err != nil {
		return nil, notFound(err, "staff member", staffID)
	}
	payments, err := s.Store.StaffPayments().ListByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	bal := billing.Balance(staffID, payments)
	bal.StaffName = staff.Name
	return bal, nil
}

func (s *PayrollService) ListStaffPayments(ctx context.Context, staffID int) ([]*models.StaffPayment, error) {
	return s.Store.StaffPayments().ListByStaff(ctx, staffID)
}

// PayrollSummary rolls up every staff member's balance plus grand totals.
// Staff with no payroll rows are listed with zero balances.
func (s *PayrollService) PayrollSummary(ctx context.Context) (*models.PayrollSummary, error) {
	payments, err := s.Store.StaffPayments().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string)
	var staff []*models.User
	for _, role := range []string{models.RoleStaff, models.RoleSecurity} {
		users, err := s.Store.Users().ListByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		staff = append(staff, users...)
	}
	for _, u := range staff {
		names[u.ID] = u.Name
	}

	summary := billing.Summarize(payments, names)
	seen := make(map[int]bool, len(summary.Staff))
	for _, b := range summary.Staff {
		seen[b.StaffID] = true
	}
	for _, u := range staff {
		if !seen[u.ID] {
			bal := billing.Balance(u.ID, nil)
			bal.StaffName = u.Name
			summary.Staff = append(summary.Staff, bal)
		}
	}
	return summary, nil
}

func (s *PayrollService) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.Store.Expenses().List(ctx)
}
