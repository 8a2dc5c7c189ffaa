package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type ExpenseRepository struct {
	DB DBTX
}

func NewExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO expenses (category, amount, description, reference_type, reference_id, date, date_bs, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, 0))
		 RETURNING id, created_at`,
		e.Category, e.Amount, e.Description, e.ReferenceType, e.ReferenceID, e.Date, e.DateBS, e.CreatedByID,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, category, amount, description, reference_type, reference_id,
		        date, date_bs, COALESCE(created_by_id, 0), created_at
		 FROM expenses
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ReferenceType,
			&e.ReferenceID, &e.Date, &e.DateBS, &e.CreatedByID, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}
