package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type MaintenanceRepository struct {
	DB DBTX
}

func NewMaintenanceRepository(db DBTX) *MaintenanceRepository {
	return &MaintenanceRepository{DB: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	if m.Status == "" {
		m.Status = models.MaintenancePending
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO maintenance_requests (tenant_id, room_id, title, description, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		m.TenantID, m.RoomID, m.Title, m.Description, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MaintenanceRepository) Get(ctx context.Context, id int) (*models.MaintenanceRequest, error) {
	var m models.MaintenanceRequest
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, room_id, title, description, status, created_at, updated_at
		 FROM maintenance_requests WHERE id = $1`, id,
	).Scan(&m.ID, &m.TenantID, &m.RoomID, &m.Title, &m.Description, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// List returns requests for one tenant, or all when tenantID is 0
func (r *MaintenanceRepository) List(ctx context.Context, tenantID int) ([]*models.MaintenanceRequest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, room_id, title, description, status, created_at, updated_at
		 FROM maintenance_requests
		 WHERE $1 = 0 OR tenant_id = $1
		 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.MaintenanceRequest
	for rows.Next() {
		var m models.MaintenanceRequest
		if err := rows.Scan(&m.ID, &m.TenantID, &m.RoomID, &m.Title, &m.Description,
			&m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, &m)
	}
	return requests, rows.Err()
}

func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id int, status models.MaintenanceStatus) error {
	return requireAffected(r.DB.Exec(ctx,
		`UPDATE maintenance_requests SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	))
}
