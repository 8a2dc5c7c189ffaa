package services

import (
	"context"

	"rental-backend/internal/models"
	"rental-backend/internal/store"
)

const notificationPageSize = 50

type NotificationService struct {
	Store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{Store: st}
}

func (s *NotificationService) ListMine(ctx context.Context, userID int) ([]*models.Notification, error) {
	list, err := s.Store.Notifications().ListByUser(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Notification{}
	}
	return list, nil
}

// MarkRead only touches the caller's own notifications; anything else is a 404
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	if err := s.Store.Notifications().MarkRead(ctx, id, userID); err != nil {
		return notFound(err, "notification", id)
	}
	return nil
}
