// Package memstore implements store.Store in memory.
// It backs the test suites and the -store=memory dev mode; no Postgres required.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/store"
	"rental-backend/internal/timeutil"
)

var _ store.Store = (*Store)(nil)

// table holds one entity type keyed by id
type table[T any] struct {
	rows   map[int]*T
	nextID int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int]*T)}
}

// next reserves an id for a row about to be put
func (t *table[T]) next() int {
	t.nextID++
	return t.nextID
}

func (t *table[T]) put(id int, v T) {
	t.rows[id] = &v
}

func (t *table[T]) get(id int) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// all returns copies in ascending id order
func (t *table[T]) all() []T {
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.rows[id])
	}
	return out
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{rows: make(map[int]*T, len(t.rows)), nextID: t.nextID}
	for id, v := range t.rows {
		cp := *v
		c.rows[id] = &cp
	}
	return c
}

type tables struct {
	users         *table[models.User]
	rooms         *table[models.Room]
	rentBills     *table[models.RentBill]
	utilityBills  *table[models.UtilityBill]
	payments      *table[models.Payment]
	staffPayments *table[models.StaffPayment]
	expenses      *table[models.Expense]
	waterTankers  *table[models.WaterTankerLog]
	maintenance   *table[models.MaintenanceRequest]
	notifications *table[models.Notification]
}

func newTables() *tables {
	return &tables{
		users:         newTable[models.User](),
		rooms:         newTable[models.Room](),
		rentBills:     newTable[models.RentBill](),
		utilityBills:  newTable[models.UtilityBill](),
		payments:      newTable[models.Payment](),
		staffPayments: newTable[models.StaffPayment](),
		expenses:      newTable[models.Expense](),
		waterTankers:  newTable[models.WaterTankerLog](),
		maintenance:   newTable[models.MaintenanceRequest](),
		notifications: newTable[models.Notification](),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:         t.users.clone(),
		rooms:         t.rooms.clone(),
		rentBills:     t.rentBills.clone(),
		utilityBills:  t.utilityBills.clone(),
		payments:      t.payments.clone(),
		staffPayments: t.staffPayments.clone(),
		expenses:      t.expenses.clone(),
		waterTankers:  t.waterTankers.clone(),
		maintenance:   t.maintenance.clone(),
		notifications: t.notifications.clone(),
	}
}

// Store is a mutex-guarded set of tables. A transaction holds the mutex for
// its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu   *sync.Mutex
	data *tables
	inTx bool

	// Now stamps created_at columns; tests may replace it.
	Now func() time.Time
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: newTables(), Now: timeutil.Now}
}

// lock acquires the store mutex unless a transaction already holds it
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() store.UserRepo                 { return userRepo{s} }
func (s *Store) Rooms() store.RoomRepo                 { return roomRepo{s} }
func (s *Store) RentBills() store.RentBillRepo         { return rentBillRepo{s} }
func (s *Store) UtilityBills() store.UtilityBillRepo   { return utilityBillRepo{s} }
func (s *Store) Payments() store.PaymentRepo           { return paymentRepo{s} }
func (s *Store) StaffPayments() store.StaffPaymentRepo { return staffPaymentRepo{s} }
func (s *Store) Expenses() store.ExpenseRepo           { return expenseRepo{s} }
func (s *Store) WaterTankers() store.WaterTankerRepo   { return waterTankerRepo{s} }
func (s *Store) Maintenance() store.MaintenanceRepo    { return maintenanceRepo{s} }
func (s *Store) Notifications() store.NotificationRepo { return notificationRepo{s} }

func (s *Store) InTx(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			*s.data = *snapshot
		}
	}()

	if err := fn(&Store{mu: s.mu, data: s.data, inTx: true, Now: s.Now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
