package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type StaffPaymentRepository struct {
	DB DBTX
}

func NewStaffPaymentRepository(db DBTX) *StaffPaymentRepository {
	return &StaffPaymentRepository{DB: db}
}

func (r *StaffPaymentRepository) Create(ctx context.Context, p *models.StaffPayment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO staff_payments (staff_id, type, amount, month, date, date_bs, remarks, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, 0))
		 RETURNING id, created_at`,
		p.StaffID, p.Type, p.Amount, p.Month, p.Date, p.DateBS, p.Remarks, p.CreatedByID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *StaffPaymentRepository) ListByStaff(ctx context.Context, staffID int) ([]*models.StaffPayment, error) {
	return r.list(ctx, `WHERE staff_id = $1`, staffID)
}

func (r *StaffPaymentRepository) ListAll(ctx context.Context) ([]*models.StaffPayment, error) {
	return r.list(ctx, ``)
}

func (r *StaffPaymentRepository) list(ctx context.Context, where string, args ...any) ([]*models.StaffPayment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, staff_id, type, amount, month, date, date_bs, remarks,
		        COALESCE(created_by_id, 0), created_at
		 FROM staff_payments `+where+`
		 ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.StaffPayment
	for rows.Next() {
		var p models.StaffPayment
		if err := rows.Scan(&p.ID, &p.StaffID, &p.Type, &p.Amount, &p.Month, &p.Date,
			&p.DateBS, &p.Remarks, &p.CreatedByID, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
