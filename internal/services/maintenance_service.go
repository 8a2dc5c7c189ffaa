package services

import (
	"context"
	"fmt"

	"rental-backend/internal/apperr"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/store"
)

type MaintenanceService struct {
	Store     store.Store
	Publisher notify.Publisher
}

func NewMaintenanceService(st store.Store, pub notify.Publisher) *MaintenanceService {
	return &MaintenanceService{Store: st, Publisher: pub}
}

// CreateRequest files a request against the tenant's room and alerts the admins
func (s *MaintenanceService) CreateRequest(ctx context.Context, tenantID int, req *models.CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	if req.Title == "" {
		return nil, apperr.Validation("title is required")
	}

	var box outbox
	var m *models.MaintenanceRequest
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		tenant, err := requireTenant(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		m = &models.MaintenanceRequest{
			TenantID:    tenantID,
			RoomID:      tenant.RoomID,
			Title:       req.Title,
			Description: req.Description,
			Status:      models.MaintenancePending,
		}
		if err := tx.Maintenance().Create(ctx, m); err != nil {
			return fmt.Errorf("create maintenance request: %w", err)
		}
		return box.notifyRole(ctx, tx, models.RoleAdmin, models.NotifyMaintenance,
			"New maintenance request",
			fmt.Sprintf("%s reported: %s", tenant.Name, m.Title))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	return m, nil
}

// UpdateStatus advances a request exactly one step: PENDING -> IN_PROGRESS -> COMPLETED
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id int, status models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
	var box outbox
	var m *models.MaintenanceRequest
	err := s.Store.InTx(ctx, func(tx store.Store) error {
		var err error
		m, err = tx.Maintenance().Get(ctx, id)
		if err != nil {
			return notFound(err, "maintenance request", id)
		}
		next, ok := m.Status.Next()
		if !ok || next != status {
			return apperr.Validation("cannot move maintenance request from %s to %s", m.Status, status)
		}
		if err := tx.Maintenance().UpdateStatus(ctx, id, status); err != nil {
			return notFound(err, "maintenance request", id)
		}
		m.Status = status
		return box.notify(ctx, tx, m.TenantID, models.NotifyMaintenance,
			"Maintenance update",
			fmt.Sprintf("Your request %q is now %s", m.Title, status))
	})
	if err != nil {
		return nil, err
	}

	box.publish(ctx, s.Publisher)
	return s.Store.Maintenance().Get(ctx, id)
}

// List returns every request for admins (tenantID 0) or one tenant's own
func (s *MaintenanceService) List(ctx context.Context, tenantID int) ([]*models.MaintenanceRequest, error) {
	return s.Store.Maintenance().List(ctx, tenantID)
}
