package repositories

import (
	"context"

	"rental-backend/internal/models"
)

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, phone, password_hash, role, room_id, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.RoomID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleTenant // Default role
	}
	u.IsActive = true
	return conflict(r.DB.QueryRow(ctx,
		`INSERT INTO users(name, email, phone, password_hash, role, room_id, is_active)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.RoomID, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email))
}

// ListByRole returns active users with the given role
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return r.list(ctx,
		`SELECT `+userColumns+` FROM users WHERE role=$1 AND is_active ORDER BY id`, role)
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
