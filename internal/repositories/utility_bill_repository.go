package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-backend/internal/models"
)

type UtilityBillRepository struct {
	DB DBTX
}

func NewUtilityBillRepository(db DBTX) *UtilityBillRepository {
	return &UtilityBillRepository{DB: db}
}

const utilityBillColumns = `b.id, b.tenant_id, b.room_id, b.month,
	b.elec_previous, b.elec_current, b.elec_units, b.elec_rate, b.elec_amount,
	b.water_previous, b.water_current, b.water_units, b.water_rate, b.water_amount,
	b.service_charge, b.security_charge, b.total_amount, b.status,
	b.bill_date, b.bill_date_bs, b.paid_on, COALESCE(b.paid_on_bs, ''),
	b.remarks, COALESCE(b.created_by_id, 0), b.created_at`

func utilityBillFields(b *models.UtilityBill) []any {
	e, w := &b.Electricity, &b.Water
	return []any{&b.ID, &b.TenantID, &b.RoomID, &b.Month,
		&e.PreviousReading, &e.CurrentReading, &e.UnitsConsumed, &e.Rate, &e.Amount,
		&w.PreviousReading, &w.CurrentReading, &w.UnitsConsumed, &w.Rate, &w.Amount,
		&b.ServiceCharge, &b.SecurityCharge, &b.TotalAmount, &b.Status,
		&b.BillDate, &b.BillDateBS, &b.PaidOn, &b.PaidOnBS,
		&b.Remarks, &b.CreatedByID, &b.CreatedAt}
}

func (r *UtilityBillRepository) Create(ctx context.Context, b *models.UtilityBill) error {
	e, w := b.Electricity, b.Water
	return r.DB.QueryRow(ctx,
		`INSERT INTO utility_bills (
			tenant_id, room_id, month,
			elec_previous, elec_current, elec_units, elec_rate, elec_amount,
			water_previous, water_current, water_units, water_rate, water_amount,
			service_charge, security_charge, total_amount, status,
			bill_date, bill_date_bs, remarks, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		         $14, $15, $16, $17, $18, $19, $20, NULLIF($21, 0))
		 RETURNING id, created_at`,
		b.TenantID, b.RoomID, b.Month,
		e.PreviousReading, e.CurrentReading, e.UnitsConsumed, e.Rate, e.Amount,
		w.PreviousReading, w.CurrentReading, w.UnitsConsumed, w.Rate, w.Amount,
		b.ServiceCharge, b.SecurityCharge, b.TotalAmount, b.Status,
		b.BillDate, b.BillDateBS, b.Remarks, b.CreatedByID,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *UtilityBillRepository) Get(ctx context.Context, id int) (*models.UtilityBill, error) {
	var b models.UtilityBill
	err := r.DB.QueryRow(ctx,
		`SELECT `+utilityBillColumns+` FROM utility_bills b WHERE b.id = $1`, id,
	).Scan(utilityBillFields(&b)...)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *UtilityBillRepository) List(ctx context.Context, f models.BillFilter) ([]*models.UtilityBillView, error) {
	var where []string
	var args []any
	if f.TenantID > 0 {
		args = append(args, f.TenantID)
		where = append(where, fmt.Sprintf("b.tenant_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)))
	}

	query := `SELECT ` + utilityBillColumns + `, COALESCE(u.name, ''), COALESCE(rm.room_number, '')
		FROM utility_bills b
		LEFT JOIN users u ON u.id = b.tenant_id
		LEFT JOIN rooms rm ON rm.id = b.room_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.bill_date DESC, b.id DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.UtilityBillView
	for rows.Next() {
		v := &models.UtilityBillView{}
		dest := append(utilityBillFields(&v.UtilityBill), &v.TenantName, &v.RoomNumber)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		bills = append(bills, v)
	}
	return bills, rows.Err()
}

func (r *UtilityBillRepository) ListByTenantStatus(ctx context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.UtilityBill, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+utilityBillColumns+` FROM utility_bills b
		 WHERE b.tenant_id = $1 AND b.status = ANY($2)
		 ORDER BY b.bill_date`,
		tenantID, statusArgs(statuses),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.UtilityBill
	for rows.Next() {
		b := &models.UtilityBill{}
		if err := rows.Scan(utilityBillFields(b)...); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *UtilityBillRepository) MarkPaid(ctx context.Context, id int, paidOn time.Time, paidOnBS string) error {
	return requireAffected(r.DB.Exec(ctx,
		`UPDATE utility_bills SET status = 'PAID', paid_on = $2, paid_on_bs = $3 WHERE id = $1`,
		id, paidOn, paidOnBS,
	))
}

// MarkPaidByTenant settles every DUE utility bill of the tenant
func (r *UtilityBillRepository) MarkPaidByTenant(ctx context.Context, tenantID int, paidOn time.Time, paidOnBS string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE utility_bills SET status = 'PAID', paid_on = $2, paid_on_bs = $3
		 WHERE tenant_id = $1 AND status = 'DUE'`,
		tenantID, paidOn, paidOnBS,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *UtilityBillRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.DB.Exec(ctx, `DELETE FROM utility_bills WHERE id = $1`, id))
}
