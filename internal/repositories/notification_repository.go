package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type NotificationRepository struct {
	DB DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, message, kind)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`,
		n.UserID, n.Title, n.Message, n.Kind,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// ListByUser returns the newest notifications first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, title, message, kind, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead is scoped to the owner so users cannot touch each other's rows
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	return requireAffected(r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}
