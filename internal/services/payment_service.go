package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/apperr"
	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/receipt"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

const duesCacheTTL = time.Minute

type PaymentService struct {
	Store     store.Store
	Publisher notify.Publisher
	Cache     *cache.Cache
	Options   BillingOptions
	Now       Clock
}

func NewPaymentService(st store.Store, pub notify.Publisher, c *cache.Cache, opts BillingOptions) *PaymentService {
	return &PaymentService{Store: st, Publisher: pub, Cache: c, Options: opts, Now: timeutil.Now}
}

// dues lists the tenant's outstanding bills. Only DUE bills count, matching
// what verification sweeps; OVERDUE rent is included when the options settle it.
func (s *PaymentService) dues(ctx context.Context, st store.Store, tenantID int) (*models.Dues, error) {
	rent, err := st.RentBills().ListByTenantStatus(ctx, tenantID, s.rentStatuses()...)
	if err != nil {
		return nil, fmt.Errorf("list due rent bills: %w", err)
	}
	utility, err := st.UtilityBills().ListByTenantStatus(ctx, tenantID, models.BillStatusDue)
	if err != nil {
		return nil, fmt.Errorf("list due utility bills: %w", err)
	}
	if rent == nil {
		rent = []*models.RentBill{}
	}
	if utility == nil {
		utility = []*models.UtilityBill{}
	}
	return &models.Dues{
		RentBills:    rent,
		UtilityBills: utility,
		Total:        billing.DueTotal(rent, utility, s.rentStatuses()...),
	}, nil
}

func (s *PaymentService) rentStatuses() []models.BillStatus {
	if s.Options.SettlesOverdue() {
		return []models.BillStatus{models.BillStatusDue, models.BillStatusOverdue}
	}
	return []models.BillStatus{models.BillStatusDue}
}

// GetDues returns what the tenant owes and any payment already awaiting verification
func (s *PaymentService) GetDues(ctx context.Context, tenantID int) (*models.Dues, error) {
	key := cache.DuesKey(tenantID)
	var cached models.Dues
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	d, err := s.dues(ctx, s.Store, tenantID)
	if err != nil {
		return nil, err
	}
	p, err := s.Store.Payments().GetPendingByTenant(ctx, tenantID)
	switch {
	case err == nil:
		d.PendingPayment = p
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load pending payment: %w", err)
	}

	s.Cache.SetJSON(ctx, key, d, duesCacheTTL)
	return d, nil
}

// RequestPaymentVerification records the tenant's claim to have paid all dues
// and notifies every admin.
func (s *PaymentService) RequestPaymentVerification(ctx context.Context, tenantID int) (*models.Payment, error) {
	var box outbox
	var payment *models.Payment
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		tenant, err := requireTenant(ctx, tx, tenantID)
		if err != nil {
			return err
		}

		d, err := s.dues(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if !d.Total.IsPositive() {
			return apperr.Validation("No dues to pay")
		}

		if _, err := tx.Payments().GetPendingByTenant(ctx, tenantID); err == nil {
			return apperr.Conflict("A payment is already awaiting verification")
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load pending payment: %w", err)
		}

		payment = &models.Payment{TenantID: tenantID, Amount: d.Total, Status: models.PaymentStatusPending}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return apperr.Conflict("A payment is already awaiting verification")
			}
			return fmt.Errorf("create payment: %w", err)
		}

		return box.notifyRole(ctx, tx, models.RoleAdmin, models.NotifyPaymentSubmitted,
			"Payment submitted",
			fmt.Sprintf("%s submitted a payment of Rs. %s for verification", tenant.Name, payment.Amount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, tenantID)
	metrics.PaymentsSubmitted.Inc()
	log.Printf("[Payments] Tenant %d submitted payment %d for %s", tenantID, payment.ID, payment.Amount)
	return payment, nil
}

// VerifyPayment settles every outstanding bill of the payment's tenant and
// flips the payment to VERIFIED. It is one unit of work: on any failure no
// bill and no payment changes.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID, actorID int) (*models.ReconciliationResult, error) {
	paidOn, paidOnBS := stamp(s.Now())

	var box outbox
	var result *models.ReconciliationResult
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		p, err := tx.Payments().Get(ctx, paymentID)
		if err != nil {
			return notFound(err, "payment", paymentID)
		}
		if p.Status == models.PaymentStatusVerified {
			return apperr.Validation("Payment already verified")
		}

		d, err := s.dues(ctx, tx, p.TenantID)
		if err != nil {
			return err
		}
		if !d.Total.IsPositive() {
			return apperr.Validation("No outstanding bills to settle for this payment")
		}

		rentPaid, err := tx.RentBills().MarkPaidByTenant(ctx, p.TenantID, paidOn, paidOnBS, s.rentStatuses()...)
		if err != nil {
			return fmt.Errorf("settle rent bills: %w", err)
		}
		utilityPaid, err := tx.UtilityBills().MarkPaidByTenant(ctx, p.TenantID, paidOn, paidOnBS)
		if err != nil {
			return fmt.Errorf("settle utility bills: %w", err)
		}

		if err := tx.Payments().MarkVerified(ctx, p.ID, actorID, paidOn); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Validation("Payment already verified")
			}
			return fmt.Errorf("mark payment verified: %w", err)
		}
		p.Status = models.PaymentStatusVerified
		p.VerifiedAt = &paidOn
		p.VerifiedByID = &actorID

		result = &models.ReconciliationResult{
			Payment:          p,
			RentBillsPaid:    rentPaid,
			UtilityBillsPaid: utilityPaid,
			SweptTotal:       d.Total,
			PaidOnBS:         paidOnBS,
		}

		return box.notify(ctx, tx, p.TenantID, models.NotifyPaymentVerified,
			"Payment verified",
			fmt.Sprintf("Your payment of Rs. %s has been verified. All dues are cleared.", p.Amount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}

	if !result.SweptTotal.Equal(result.Payment.Amount) {
		log.Printf("[Payments] WARNING payment %d amount %s differs from settled bills total %s",
			paymentID, result.Payment.Amount, result.SweptTotal)
	}

	box.publish(ctx, s.Publisher)
	s.Cache.InvalidateDues(ctx, result.Payment.TenantID)
	metrics.PaymentsVerified.Inc()
	metrics.BillsSettled.WithLabelValues("rent", "reconciliation").Add(float64(result.RentBillsPaid))
	metrics.BillsSettled.WithLabelValues("utility", "reconciliation").Add(float64(result.UtilityBillsPaid))
	log.Printf("[Payments] Payment %d verified by %d: %d rent, %d utility bill(s) settled",
		paymentID, actorID, result.RentBillsPaid, result.UtilityBillsPaid)
	return result, nil
}

func (s *PaymentService) ListPendingPayments(ctx context.Context) ([]*models.PaymentView, error) {
	return s.Store.Payments().ListByStatus(ctx, models.PaymentStatusPending)
}

// GetPayment loads a payment with its tenant, for receipts
func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, *models.User, error) {
	p, err := s.Store.Payments().Get(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, "payment", id)
	}
	tenant, err := s.Store.Users().Get(ctx, p.TenantID)
	if err != nil {
		return nil, nil, notFound(err, "tenant", p.TenantID)
	}
	return p, tenant, nil
}

// Receipt renders the PDF receipt of a verified payment. Admins may fetch any
// receipt; a tenant only their own.
func (s *PaymentService) Receipt(ctx context.Context, paymentID, viewerID int, viewerRole string) (string, []byte, error) {
	p, tenant, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return "", nil, err
	}
	if viewerRole != models.RoleAdmin && tenant.ID != viewerID {
		return "", nil, apperr.Forbidden("Forbidden: not your payment")
	}
	if p.Status != models.PaymentStatusVerified {
		return "", nil, apperr.Validation("Receipt is available once the payment is verified")
	}

	data := receipt.Data{Payment: p, Tenant: tenant}
	if tenant.RoomID != nil {
		if room, err := s.Store.Rooms().Get(ctx, *tenant.RoomID); err == nil {
			data.RoomNumber = room.RoomNumber
		}
	}
	pdf, err := receipt.Render(data)
	if err != nil {
		return "", nil, fmt.Errorf("render receipt: %w", err)
	}
	return receipt.Number(p) + ".pdf", pdf, nil
}
