package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type WaterTankerRepository struct {
	DB DBTX
}

func NewWaterTankerRepository(db DBTX) *WaterTankerRepository {
	return &WaterTankerRepository{DB: db}
}

func (r *WaterTankerRepository) Create(ctx context.Context, l *models.WaterTankerLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO water_tanker_logs (supplier, liters, cost, date, date_bs, remarks, logged_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, 0))
		 RETURNING id, created_at`,
		l.Supplier, l.Liters, l.Cost, l.Date, l.DateBS, l.Remarks, l.LoggedByID,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *WaterTankerRepository) List(ctx context.Context) ([]*models.WaterTankerLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, supplier, liters, cost, date, date_bs, remarks, COALESCE(logged_by_id, 0), created_at
		 FROM water_tanker_logs
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.WaterTankerLog
	for rows.Next() {
		var l models.WaterTankerLog
		if err := rows.Scan(&l.ID, &l.Supplier, &l.Liters, &l.Cost, &l.Date,
			&l.DateBS, &l.Remarks, &l.LoggedByID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
