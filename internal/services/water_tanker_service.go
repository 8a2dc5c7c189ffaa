package services

import (
	"context"
	"fmt"
	"log"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/models"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

const referenceWaterTanker = "water_tanker"

type WaterTankerService struct {
	Store   store.Store
	Payroll *PayrollService
	Now     Clock
}

func NewWaterTankerService(st store.Store, payroll *PayrollService) *WaterTankerService {
	return &WaterTankerService{Store: st, Payroll: payroll, Now: timeutil.Now}
}

// LogWaterTanker records a delivery and its WATER_TANKER expense together
func (s *WaterTankerService) LogWaterTanker(ctx context.Context, req *models.CreateWaterTankerRequest, actorID int) (*models.WaterTankerLog, error) {
	if req.Supplier == "" {
		return nil, apperr.Validation("supplier is required")
	}
	if req.Liters <= 0 {
		return nil, apperr.Validation("liters must be greater than 0")
	}
	cost := billing.Money(req.Cost)
	if !cost.IsPositive() {
		return nil, apperr.Validation("cost must be greater than 0")
	}

	date, err := parseDate(req.Date, timeutil.ToNPT(s.Now()))
	if err != nil {
		return nil, err
	}

	entry := &models.WaterTankerLog{
		Supplier:   req.Supplier,
		Liters:     req.Liters,
		Cost:       cost,
		Date:       date,
		DateBS:     timeutil.FormatBS(date),
		Remarks:    req.Remarks,
		LoggedByID: actorID,
	}

	err = s.Store.InTx(ctx, func(tx store.Store) error {
		if err := tx.WaterTankers().Create(ctx, entry); err != nil {
			return fmt.Errorf("create water tanker log: %w", err)
		}
		ref := entry.ID
		expense := &models.Expense{
			Category:      models.ExpenseWaterTanker,
			Amount:        entry.Cost,
			Description:   fmt.Sprintf("Water tanker from %s (%d L)", entry.Supplier, entry.Liters),
			ReferenceType: referenceWaterTanker,
			ReferenceID:   &ref,
			Date:          entry.Date,
			DateBS:        entry.DateBS,
			CreatedByID:   actorID,
		}
		if err := tx.Expenses().Create(ctx, expense); err != nil {
			return fmt.Errorf("mirror water tanker expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Security] Water tanker %d logged: %d L from %s for %s", entry.ID, entry.Liters, entry.Supplier, entry.Cost)
	return entry, nil
}

func (s *WaterTankerService) ListWaterTankerLogs(ctx context.Context) ([]*models.WaterTankerLog, error) {
	return s.Store.WaterTankers().List(ctx)
}

// Dashboard is what a security guard sees: own balance, own payroll rows and tanker logs
func (s *WaterTankerService) Dashboard(ctx context.Context, userID int) (*models.SecurityDashboard, error) {
	bal, err := s.Payroll.StaffBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payroll.ListStaffPayments(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.ListWaterTankerLogs(ctx)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.StaffPayment{}
	}
	if logs == nil {
		logs = []*models.WaterTankerLog{}
	}
	return &models.SecurityDashboard{Balance: bal, Payments: payments, TankerLogs: logs}, nil
}
