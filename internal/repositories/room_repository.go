package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type RoomRepository struct {
	DB DBTX
}

func NewRoomRepository(db DBTX) *RoomRepository {
	return &RoomRepository{DB: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.Status == "" {
		room.Status = models.RoomStatusVacant
	}
	return conflict(r.DB.QueryRow(ctx,
		`INSERT INTO rooms(room_number, floor, monthly_rent, status)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		room.RoomNumber, room.Floor, room.MonthlyRent, room.Status,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt))
}

func (r *RoomRepository) Get(ctx context.Context, id int) (*models.Room, error) {
	var room models.Room
	err := r.DB.QueryRow(ctx,
		`SELECT id, room_number, floor, monthly_rent, status, created_at, updated_at
		 FROM rooms WHERE id=$1`, id,
	).Scan(&room.ID, &room.RoomNumber, &room.Floor, &room.MonthlyRent, &room.Status, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

// List returns all rooms; status is derived from whether a tenant is assigned
func (r *RoomRepository) List(ctx context.Context) ([]*models.Room, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT r.id, r.room_number, r.floor, r.monthly_rent,
		        CASE WHEN EXISTS (SELECT 1 FROM users u WHERE u.room_id = r.id AND u.is_active)
		             THEN 'OCCUPIED' ELSE 'VACANT' END,
		        r.created_at, r.updated_at
		 FROM rooms r
		 ORDER BY r.room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Floor, &room.MonthlyRent,
			&room.Status, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, rows.Err()
}
