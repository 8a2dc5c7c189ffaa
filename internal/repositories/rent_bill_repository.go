package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-backend/internal/models"
)

type RentBillRepository struct {
	DB DBTX
}

func NewRentBillRepository(db DBTX) *RentBillRepository {
	return &RentBillRepository{DB: db}
}

const rentBillColumns = `b.id, b.tenant_id, b.room_id, b.period, b.amount, b.status,
	b.bill_date, b.bill_date_bs, b.due_date, b.paid_on, COALESCE(b.paid_on_bs, ''),
	b.remarks, COALESCE(b.created_by_id, 0), b.created_at`

func rentBillFields(b *models.RentBill) []any {
	return []any{&b.ID, &b.TenantID, &b.RoomID, &b.Period, &b.Amount, &b.Status,
		&b.BillDate, &b.BillDateBS, &b.DueDate, &b.PaidOn, &b.PaidOnBS,
		&b.Remarks, &b.CreatedByID, &b.CreatedAt}
}

func (r *RentBillRepository) Create(ctx context.Context, b *models.RentBill) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO rent_bills (tenant_id, room_id, period, amount, status, bill_date, bill_date_bs, due_date, remarks, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, 0))
		 RETURNING id, created_at`,
		b.TenantID, b.RoomID, b.Period, b.Amount, b.Status, b.BillDate, b.BillDateBS, b.DueDate, b.Remarks, b.CreatedByID,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *RentBillRepository) Get(ctx context.Context, id int) (*models.RentBill, error) {
	var b models.RentBill
	err := r.DB.QueryRow(ctx,
		`SELECT `+rentBillColumns+` FROM rent_bills b WHERE b.id = $1`, id,
	).Scan(rentBillFields(&b)...)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// List returns bills joined with tenant name and room number
func (r *RentBillRepository) List(ctx context.Context, f models.BillFilter) ([]*models.RentBillView, error) {
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

	query := `SELECT ` + rentBillColumns + `, COALESCE(u.name, ''), COALESCE(rm.room_number, '')
		FROM rent_bills b
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

	var bills []*models.RentBillView
	for rows.Next() {
		v := &models.RentBillView{}
		dest := append(rentBillFields(&v.RentBill), &v.TenantName, &v.RoomNumber)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		bills = append(bills, v)
	}
	return bills, rows.Err()
}

func (r *RentBillRepository) ListByTenantStatus(ctx context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.RentBill, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+rentBillColumns+` FROM rent_bills b
		 WHERE b.tenant_id = $1 AND b.status = ANY($2)
		 ORDER BY b.bill_date`,
		tenantID, statusArgs(statuses),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.RentBill
	for rows.Next() {
		b := &models.RentBill{}
		if err := rows.Scan(rentBillFields(b)...); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *RentBillRepository) MarkPaid(ctx context.Context, id int, paidOn time.Time, paidOnBS string) error {
	return requireAffected(r.DB.Exec(ctx,
		`UPDATE rent_bills SET status = 'PAID', paid_on = $2, paid_on_bs = $3 WHERE id = $1`,
		id, paidOn, paidOnBS,
	))
}

func (r *RentBillRepository) MarkPaidByTenant(ctx context.Context, tenantID int, paidOn time.Time, paidOnBS string, statuses ...models.BillStatus) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE rent_bills SET status = 'PAID', paid_on = $2, paid_on_bs = $3
		 WHERE tenant_id = $1 AND status = ANY($4)`,
		tenantID, paidOn, paidOnBS, statusArgs(statuses),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RentBillRepository) MarkOverdue(ctx context.Context, cutoff time.Time) ([]*models.RentBill, error) {
	rows, err := r.DB.Query(ctx,
		`UPDATE rent_bills b SET status = 'OVERDUE'
		 WHERE b.status = 'DUE' AND b.due_date < $1
		 RETURNING `+rentBillColumns,
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.RentBill
	for rows.Next() {
		b := &models.RentBill{}
		if err := rows.Scan(rentBillFields(b)...); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *RentBillRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.DB.Exec(ctx, `DELETE FROM rent_bills WHERE id = $1`, id))
}
