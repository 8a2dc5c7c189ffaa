package repositories

import (
	"context"
	"time"

	"rental-backend/internal/models"
)

type PaymentRepository struct {
	DB DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `p.id, p.tenant_id, p.amount, p.status, p.created_at, p.verified_at, p.verified_by_id`

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return conflict(r.DB.QueryRow(ctx,
		`INSERT INTO payments (tenant_id, amount, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.TenantID, p.Amount, p.Status,
	).Scan(&p.ID, &p.CreatedAt))
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	var p models.Payment
	err := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.TenantID, &p.Amount, &p.Status, &p.CreatedAt, &p.VerifiedAt, &p.VerifiedByID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListByStatus returns payments with tenant name and email, oldest first
func (r *PaymentRepository) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.PaymentView, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+`, COALESCE(u.name, ''), COALESCE(u.email, '')
		 FROM payments p
		 LEFT JOIN users u ON u.id = p.tenant_id
		 WHERE p.status = $1
		 ORDER BY p.created_at`,
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentView
	for rows.Next() {
		v := &models.PaymentView{}
		p := &v.Payment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Amount, &p.Status, &p.CreatedAt,
			&p.VerifiedAt, &p.VerifiedByID, &v.TenantName, &v.TenantEmail); err != nil {
			return nil, err
		}
		payments = append(payments, v)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) GetPendingByTenant(ctx context.Context, tenantID int) (*models.Payment, error) {
	var p models.Payment
	err := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments p
		 WHERE p.tenant_id = $1 AND p.status = 'PENDING'
		 ORDER BY p.created_at DESC LIMIT 1`, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.Amount, &p.Status, &p.CreatedAt, &p.VerifiedAt, &p.VerifiedByID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// MarkVerified only touches a PENDING row, so concurrent verifies cannot both win
func (r *PaymentRepository) MarkVerified(ctx context.Context, id int, verifiedBy int, at time.Time) error {
	return requireAffected(r.DB.Exec(ctx,
		`UPDATE payments SET status = 'VERIFIED', verified_at = $2, verified_by_id = $3
		 WHERE id = $1 AND status = 'PENDING'`,
		id, at, verifiedBy,
	))
}
