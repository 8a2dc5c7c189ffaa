package repositories

import (
	"context"
	"errors"
	"fmt"

	"rental-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// runs unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ store.Store = (*Store)(nil)

// Store is the Postgres implementation of store.Store
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Users() store.UserRepo                 { return NewUserRepository(s.db) }
func (s *Store) Rooms() store.RoomRepo                 { return NewRoomRepository(s.db) }
func (s *Store) RentBills() store.RentBillRepo         { return NewRentBillRepository(s.db) }
func (s *Store) UtilityBills() store.UtilityBillRepo   { return NewUtilityBillRepository(s.db) }
func (s *Store) Payments() store.PaymentRepo           { return NewPaymentRepository(s.db) }
func (s *Store) StaffPayments() store.StaffPaymentRepo { return NewStaffPaymentRepository(s.db) }
func (s *Store) Expenses() store.ExpenseRepo           { return NewExpenseRepository(s.db) }
func (s *Store) WaterTankers() store.WaterTankerRepo   { return NewWaterTankerRepository(s.db) }
func (s *Store) Maintenance() store.MaintenanceRepo    { return NewMaintenanceRepository(s.db) }
func (s *Store) Notifications() store.NotificationRepo { return NewNotificationRepository(s.db) }

// InTx begins a transaction, runs fn with a Store bound to it, and commits.
// Any error from fn (or a panic) rolls the whole unit back.
// Nested calls join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// notFound maps pgx.ErrNoRows to store.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// conflict maps a unique_violation to store.ErrConflict
func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}

// requireAffected turns a zero-row write into store.ErrNotFound
func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// statusArgs converts typed statuses into a text[] parameter
func statusArgs[T ~string](statuses []T) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
