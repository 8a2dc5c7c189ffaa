package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

type BillService struct {
	Store     store.Store
	Publisher notify.Publisher
	Cache     *cache.Cache
	Options   BillingOptions
	Now       Clock
}

func NewBillService(st store.Store, pub notify.Publisher, c *cache.Cache, opts BillingOptions) *BillService {
	return &BillService{Store: st, Publisher: pub, Cache: c, Options: opts, Now: timeutil.Now}
}

// requireTenant loads userID and checks it is a tenant
func requireTenant(ctx context.Context, st store.Store, userID int) (*models.User, error) {
	u, err := st.Users().Get(ctx, userID)
	if err != nil {
		return nil, notFound(err, "tenant", userID)
	}
	if u.Role != models.RoleTenant {
		return nil, apperr.Validation("user %d is not a tenant", userID)
	}
	return u, nil
}

func (s *BillService) CreateRentBill(ctx context.Context, req *models.CreateRentBillRequest, actorID int) (*models.RentBill, error) {
	amount := billing.Money(req.Amount)
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	if req.Period == "" {
		return nil, apperr.Validation("period is required")
	}

	billDate, billDateBS := stamp(s.Now())
	bill := &models.RentBill{
		TenantID:    req.TenantID,
		RoomID:      req.RoomID,
		Period:      req.Period,
		Amount:      amount,
		Status:      models.BillStatusDue,
		BillDate:    billDate,
		BillDateBS:  billDateBS,
		DueDate:     timeutil.StartOfDay(billDate).AddDate(0, 0, s.Options.GraceDays),
		Remarks:     req.Remarks,
		CreatedByID: actorID,
	}

	var box outbox
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		if _, err := requireTenant(ctx, tx, req.TenantID); err != nil {
			return err
		}
		if err := tx.RentBills().Create(ctx, bill); err != nil {
			return fmt.Errorf("create rent bill: %w", err)
		}
		return box.notify(ctx, tx, bill.TenantID, models.NotifyBillCreated,
			"New rent bill",
			fmt.Sprintf("Rent bill for %s of Rs. %s is due by %s", bill.Period, bill.Amount.StringFixed(2), bill.DueDate.Format(timeutil.DateLayout)))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, bill.TenantID)
	metrics.BillsCreated.WithLabelValues("rent").Inc()
	log.Printf("[Bills] Rent bill %d created for tenant %d: %s", bill.ID, bill.TenantID, bill.Amount)
	return bill, nil
}

func (s *BillService) CreateUtilityBill(ctx context.Context, req *models.CreateUtilityBillRequest, actorID int) (*models.UtilityBill, error) {
	if req.Month == "" {
		return nil, apperr.Validation("month is required")
	}

	billDate, billDateBS := stamp(s.Now())
	bill := &models.UtilityBill{
		TenantID:    req.TenantID,
		RoomID:      req.RoomID,
		Month:       req.Month,
		Status:      models.BillStatusDue,
		BillDate:    billDate,
		BillDateBS:  billDateBS,
		Remarks:     req.Remarks,
		CreatedByID: actorID,
	}
	billing.ApplyUtilityCharges(bill, req, s.Options.Charges)

	if req.Electricity.CurrentReading < req.Electricity.PreviousReading {
		log.Printf("[Bills] Electricity reading went backwards for tenant %d (%.2f -> %.2f), billing zero units",
			req.TenantID, req.Electricity.PreviousReading, req.Electricity.CurrentReading)
	}
	if req.Water.CurrentReading < req.Water.PreviousReading {
		log.Printf("[Bills] Water reading went backwards for tenant %d (%.2f -> %.2f), billing zero units",
			req.TenantID, req.Water.PreviousReading, req.Water.CurrentReading)
	}

	var box outbox
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		if _, err := requireTenant(ctx, tx, req.TenantID); err != nil {
			return err
		}
		if err := tx.UtilityBills().Create(ctx, bill); err != nil {
			return fmt.Errorf("create utility bill: %w", err)
		}
		return box.notify(ctx, tx, bill.TenantID, models.NotifyBillCreated,
			"New utility bill",
			fmt.Sprintf("Utility bill for %s of Rs. %s has been issued", bill.Month, bill.TotalAmount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, bill.TenantID)
	metrics.BillsCreated.WithLabelValues("utility").Inc()
	log.Printf("[Bills] Utility bill %d created for tenant %d: %s", bill.ID, bill.TenantID, bill.TotalAmount)
	return bill, nil
}

// MarkRentBillPaid settles one rent bill by hand and notifies the tenant and the acting admin
func (s *BillService) MarkRentBillPaid(ctx context.Context, id, actorID int) (*models.RentBill, error) {
	paidOn, paidOnBS := stamp(s.Now())

	var box outbox
	var bill *models.RentBill
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		b, err := tx.RentBills().Get(ctx, id)
		if err != nil {
			return notFound(err, "rent bill", id)
		}
		if b.Status == models.BillStatusPaid {
			return apperr.Validation("rent bill %d is already paid", id)
		}
		if err := tx.RentBills().MarkPaid(ctx, id, paidOn, paidOnBS); err != nil {
			return fmt.Errorf("mark rent bill paid: %w", err)
		}
		b.Status = models.BillStatusPaid
		b.PaidOn = &paidOn
		b.PaidOnBS = paidOnBS
		bill = b

		msg := fmt.Sprintf("Rent bill for %s (Rs. %s) marked as paid on %s", b.Period, b.Amount.StringFixed(2), paidOnBS)
		if err := box.notify(ctx, tx, b.TenantID, models.NotifyBillPaid, "Rent bill paid", msg); err != nil {
			return err
		}
		return box.notify(ctx, tx, actorID, models.NotifyBillPaid, "Rent bill paid", msg)
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, bill.TenantID)
	metrics.BillsSettled.WithLabelValues("rent", "manual").Inc()
	return bill, nil
}

func (s *BillService) MarkUtilityBillPaid(ctx context.Context, id, actorID int) (*models.UtilityBill, error) {
	paidOn, paidOnBS := stamp(s.Now())

	var box outbox
	var bill *models.UtilityBill
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		b, err := tx.UtilityBills().Get(ctx, id)
		if err != nil {
			return notFound(err, "utility bill", id)
		}
		if b.Status == models.BillStatusPaid {
			return apperr.Validation("utility bill %d is already paid", id)
		}
		if err := tx.UtilityBills().MarkPaid(ctx, id, paidOn, paidOnBS); err != nil {
			return fmt.Errorf("mark utility bill paid: %w", err)
		}
		b.Status = models.BillStatusPaid
		b.PaidOn = &paidOn
		b.PaidOnBS = paidOnBS
		bill = b

		msg := fmt.Sprintf("Utility bill for %s (Rs. %s) marked as paid on %s", b.Month, b.TotalAmount.StringFixed(2), paidOnBS)
		if err := box.notify(ctx, tx, b.TenantID, models.NotifyBillPaid, "Utility bill paid", msg); err != nil {
			return err
		}
		return box.notify(ctx, tx, actorID, models.NotifyBillPaid, "Utility bill paid", msg)
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, bill.TenantID)
	metrics.BillsSettled.WithLabelValues("utility", "manual").Inc()
	return bill, nil
}

func (s *BillService) DeleteRentBill(ctx context.Context, id int) error {
	b, err := s.Store.RentBills().Get(ctx, id)
	if err != nil {
		return notFound(err, "rent bill", id)
	}
	if err := s.Store.RentBills().Delete(ctx, id); err != nil {
		return notFound(err, "rent bill", id)
	}
	s.Cache.InvalidateDues(ctx, b.TenantID)
	log.Printf("[Bills] Rent bill %d deleted", id)
	return nil
}

func (s *BillService) DeleteUtilityBill(ctx context.Context, id int) error {
	b, err := s.Store.UtilityBills().Get(ctx, id)
	if err != nil {
		return notFound(err, "utility bill", id)
	}
	if err := s.Store.UtilityBills().Delete(ctx, id); err != nil {
		return notFound(err, "utility bill", id)
	}
	s.Cache.InvalidateDues(ctx, b.TenantID)
	log.Printf("[Bills] Utility bill %d deleted", id)
	return nil
}

func (s *BillService) ListRentBills(ctx context.Context, f models.BillFilter) ([]*models.RentBillView, error) {
	return s.Store.RentBills().List(ctx, f)
}

func (s *BillService) ListUtilityBills(ctx context.Context, f models.BillFilter) ([]*models.UtilityBillView, error) {
	return s.Store.UtilityBills().List(ctx, f)
}

// MarkOverdueRentBills moves DUE rent bills whose due date has passed to
// OVERDUE. Each affected tenant gets one notification.
func (s *BillService) MarkOverdueRentBills(ctx context.Context) ([]*models.RentBill, error) {
	now := timeutil.ToNPT(s.Now())
	cutoff := timeutil.StartOfDay(now)

	var box outbox
	var bills []*models.RentBill
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		var err error
		bills, err = tx.RentBills().MarkOverdue(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("mark overdue: %w", err)
		}

		count := make(map[int]int)
		var tenants []int
		for _, b := range bills {
			if count[b.TenantID] == 0 {
				tenants = append(tenants, b.TenantID)
			}
			count[b.TenantID]++
		}
		for _, tenantID := range tenants {
			msg := fmt.Sprintf("%d rent bill(s) are now overdue. Please clear your dues.", count[tenantID])
			if err := box.notify(ctx, tx, tenantID, models.NotifyBillOverdue, "Rent overdue", msg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	for _, b := range bills {
		s.Cache.InvalidateDues(ctx, b.TenantID)
	}
	if len(bills) > 0 {
		metrics.BillsOverdue.Add(float64(len(bills)))
		log.Printf("[Bills] Marked %d rent bill(s) overdue", len(bills))
	}
	return bills, nil
}

// RunOverdueSweeper calls MarkOverdueRentBills every interval until ctx is done
func (s *BillService) RunOverdueSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[Bills] Overdue sweeper running every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.MarkOverdueRentBills(ctx); err != nil {
				log.Printf("[Bills] Overdue sweep failed: %v", err)
			}
		}
	}
}
