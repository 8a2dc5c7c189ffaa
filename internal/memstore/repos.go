package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/store"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.users.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrConflict
		}
	}
	if u.Role == "" {
		u.Role = models.RoleTenant
	}
	u.IsActive = true
	u.ID = r.s.data.users.next()
	u.CreatedAt = r.s.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.data.users.put(u.ID, *u)
	return nil
}

func (r userRepo) Get(_ context.Context, id int) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users.all() {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r userRepo) ListByRole(_ context.Context, role string) ([]*models.User, error) {
	defer r.s.lock()()
	var out []*models.User
	for _, u := range r.s.data.users.all() {
		if u.Role == role && u.IsActive {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r userRepo) List(_ context.Context) ([]*models.User, error) {
	defer r.s.lock()()
	var out []*models.User
	for _, u := range r.s.data.users.all() {
		out = append(out, &u)
	}
	slices.Reverse(out)
	return out, nil
}

// userName resolves a display name; callers hold the lock
func (s *Store) userName(id int) string {
	if u, ok := s.data.users.get(id); ok {
		return u.Name
	}
	return ""
}

func (s *Store) roomNumber(id int) string {
	if rm, ok := s.data.rooms.get(id); ok {
		return rm.RoomNumber
	}
	return ""
}

type roomRepo struct{ s *Store }

func (r roomRepo) Create(_ context.Context, room *models.Room) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.rooms.rows {
		if existing.RoomNumber == room.RoomNumber {
			return store.ErrConflict
		}
	}
	if room.Status == "" {
		room.Status = models.RoomStatusVacant
	}
	room.ID = r.s.data.rooms.next()
	room.CreatedAt = r.s.Now()
	room.UpdatedAt = room.CreatedAt
	r.s.data.rooms.put(room.ID, *room)
	return nil
}

func (r roomRepo) Get(_ context.Context, id int) (*models.Room, error) {
	defer r.s.lock()()
	room, ok := r.s.data.rooms.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &room, nil
}

func (r roomRepo) List(_ context.Context) ([]*models.Room, error) {
	defer r.s.lock()()
	occupied := make(map[int]bool)
	for _, u := range r.s.data.users.rows {
		if u.RoomID != nil && u.IsActive {
			occupied[*u.RoomID] = true
		}
	}
	var out []*models.Room
	for _, room := range r.s.data.rooms.all() {
		room.Status = models.RoomStatusVacant
		if occupied[room.ID] {
			room.Status = models.RoomStatusOccupied
		}
		out = append(out, &room)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

type rentBillRepo struct{ s *Store }

func (r rentBillRepo) Create(_ context.Context, b *models.RentBill) error {
	defer r.s.lock()()
	b.ID = r.s.data.rentBills.next()
	b.CreatedAt = r.s.Now()
	if b.BillDate.IsZero() {
		b.BillDate = b.CreatedAt
	}
	r.s.data.rentBills.put(b.ID, *b)
	return nil
}

func (r rentBillRepo) Get(_ context.Context, id int) (*models.RentBill, error) {
	defer r.s.lock()()
	b, ok := r.s.data.rentBills.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (r rentBillRepo) List(_ context.Context, f models.BillFilter) ([]*models.RentBillView, error) {
	defer r.s.lock()()
	var out []*models.RentBillView
	for _, b := range r.s.data.rentBills.all() {
		if f.TenantID > 0 && b.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, &models.RentBillView{
			RentBill:   b,
			TenantName: r.s.userName(b.TenantID),
			RoomNumber: r.s.roomNumber(b.RoomID),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r rentBillRepo) ListByTenantStatus(_ context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.RentBill, error) {
	defer r.s.lock()()
	var out []*models.RentBill
	for _, b := range r.s.data.rentBills.all() {
		if b.TenantID == tenantID && slices.Contains(statuses, b.Status) {
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BillDate.Before(out[j].BillDate) })
	return out, nil
}

func (r rentBillRepo) MarkPaid(_ context.Context, id int, paidOn time.Time, paidOnBS string) error {
	defer r.s.lock()()
	b, ok := r.s.data.rentBills.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = models.BillStatusPaid
	b.PaidOn = &paidOn
	b.PaidOnBS = paidOnBS
	return nil
}

func (r rentBillRepo) MarkPaidByTenant(_ context.Context, tenantID int, paidOn time.Time, paidOnBS string, statuses ...models.BillStatus) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, b := range r.s.data.rentBills.rows {
		if b.TenantID != tenantID || !slices.Contains(statuses, b.Status) {
			continue
		}
		b.Status = models.BillStatusPaid
		b.PaidOn = &paidOn
		b.PaidOnBS = paidOnBS
		n++
	}
	return n, nil
}

func (r rentBillRepo) MarkOverdue(_ context.Context, cutoff time.Time) ([]*models.RentBill, error) {
	defer r.s.lock()()
	var out []*models.RentBill
	for _, id := range sortedIDs(r.s.data.rentBills.rows) {
		b := r.s.data.rentBills.rows[id]
		if b.Status != models.BillStatusDue || !b.DueDate.Before(cutoff) {
			continue
		}
		b.Status = models.BillStatusOverdue
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r rentBillRepo) Delete(_ context.Context, id int) error {
	defer r.s.lock()()
	if _, ok := r.s.data.rentBills.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.data.rentBills.rows, id)
	return nil
}

type utilityBillRepo struct{ s *Store }

func (r utilityBillRepo) Create(_ context.Context, b *models.UtilityBill) error {
	defer r.s.lock()()
	b.ID = r.s.data.utilityBills.next()
	b.CreatedAt = r.s.Now()
	if b.BillDate.IsZero() {
		b.BillDate = b.CreatedAt
	}
	r.s.data.utilityBills.put(b.ID, *b)
	return nil
}

func (r utilityBillRepo) Get(_ context.Context, id int) (*models.UtilityBill, error) {
	defer r.s.lock()()
	b, ok := r.s.data.utilityBills.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (r utilityBillRepo) List(_ context.Context, f models.BillFilter) ([]*models.UtilityBillView, error) {
	defer r.s.lock()()
	var out []*models.UtilityBillView
	for _, b := range r.s.data.utilityBills.all() {
		if f.TenantID > 0 && b.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, &models.UtilityBillView{
			UtilityBill: b,
			TenantName:  r.s.userName(b.TenantID),
			RoomNumber:  r.s.roomNumber(b.RoomID),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r utilityBillRepo) ListByTenantStatus(_ context.Context, tenantID int, statuses ...models.BillStatus) ([]*models.UtilityBill, error) {
	defer r.s.lock()()
	var out []*models.UtilityBill
	for _, b := range r.s.data.utilityBills.all() {
		if b.TenantID == tenantID && slices.Contains(statuses, b.Status) {
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BillDate.Before(out[j].BillDate) })
	return out, nil
}

func (r utilityBillRepo) MarkPaid(_ context.Context, id int, paidOn time.Time, paidOnBS string) error {
	defer r.s.lock()()
	b, ok := r.s.data.utilityBills.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = models.BillStatusPaid
	b.PaidOn = &paidOn
	b.PaidOnBS = paidOnBS
	return nil
}

func (r utilityBillRepo) MarkPaidByTenant(_ context.Context, tenantID int, paidOn time.Time, paidOnBS string) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, b := range r.s.data.utilityBills.rows {
		if b.TenantID != tenantID || b.Status != models.BillStatusDue {
			continue
		}
		b.Status = models.BillStatusPaid
		b.PaidOn = &paidOn
		b.PaidOnBS = paidOnBS
		n++
	}
	return n, nil
}

func (r utilityBillRepo) Delete(_ context.Context, id int) error {
	defer r.s.lock()()
	if _, ok := r.s.data.utilityBills.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.data.utilityBills.rows, id)
	return nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *models.Payment) error {
	defer r.s.lock()()
	if p.Status == models.PaymentStatusPending {
		for _, existing := range r.s.data.payments.rows {
			if existing.TenantID == p.TenantID && existing.Status == models.PaymentStatusPending {
				return store.ErrConflict
			}
		}
	}
	p.ID = r.s.data.payments.next()
	p.CreatedAt = r.s.Now()
	r.s.data.payments.put(p.ID, *p)
	return nil
}

func (r paymentRepo) Get(_ context.Context, id int) (*models.Payment, error) {
	defer r.s.lock()()
	p, ok := r.s.data.payments.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r paymentRepo) ListByStatus(_ context.Context, status models.PaymentStatus) ([]*models.PaymentView, error) {
	defer r.s.lock()()
	var out []*models.PaymentView
	for _, p := range r.s.data.payments.all() {
		if p.Status != status {
			continue
		}
		v := &models.PaymentView{Payment: p}
		if u, ok := r.s.data.users.get(p.TenantID); ok {
			v.TenantName, v.TenantEmail = u.Name, u.Email
		}
		out = append(out, v)
	}
	return out, nil
}

func (r paymentRepo) GetPendingByTenant(_ context.Context, tenantID int) (*models.Payment, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.payments.all() {
		if p.TenantID == tenantID && p.Status == models.PaymentStatusPending {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r paymentRepo) MarkVerified(_ context.Context, id int, verifiedBy int, at time.Time) error {
	defer r.s.lock()()
	p, ok := r.s.data.payments.rows[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return store.ErrNotFound
	}
	p.Status = models.PaymentStatusVerified
	p.VerifiedAt = &at
	p.VerifiedByID = &verifiedBy
	return nil
}

type staffPaymentRepo struct{ s *Store }

func (r staffPaymentRepo) Create(_ context.Context, p *models.StaffPayment) error {
	defer r.s.lock()()
	p.ID = r.s.data.staffPayments.next()
	p.CreatedAt = r.s.Now()
	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}
	r.s.data.staffPayments.put(p.ID, *p)
	return nil
}

func (r staffPaymentRepo) ListByStaff(_ context.Context, staffID int) ([]*models.StaffPayment, error) {
	defer r.s.lock()()
	return r.filter(func(p *models.StaffPayment) bool { return p.StaffID == staffID }), nil
}

func (r staffPaymentRepo) ListAll(_ context.Context) ([]*models.StaffPayment, error) {
	defer r.s.lock()()
	return r.filter(func(*models.StaffPayment) bool { return true }), nil
}

func (r staffPaymentRepo) filter(keep func(*models.StaffPayment) bool) []*models.StaffPayment {
	var out []*models.StaffPayment
	for _, p := range r.s.data.staffPayments.all() {
		if keep(&p) {
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(_ context.Context, e *models.Expense) error {
	defer r.s.lock()()
	e.ID = r.s.data.expenses.next()
	e.CreatedAt = r.s.Now()
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	r.s.data.expenses.put(e.ID, *e)
	return nil
}

func (r expenseRepo) List(_ context.Context) ([]*models.Expense, error) {
	defer r.s.lock()()
	var out []*models.Expense
	for _, e := range r.s.data.expenses.all() {
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type waterTankerRepo struct{ s *Store }

func (r waterTankerRepo) Create(_ context.Context, l *models.WaterTankerLog) error {
	defer r.s.lock()()
	l.ID = r.s.data.waterTankers.next()
	l.CreatedAt = r.s.Now()
	if l.Date.IsZero() {
		l.Date = l.CreatedAt
	}
	r.s.data.waterTankers.put(l.ID, *l)
	return nil
}

func (r waterTankerRepo) List(_ context.Context) ([]*models.WaterTankerLog, error) {
	defer r.s.lock()()
	var out []*models.WaterTankerLog
	for _, l := range r.s.data.waterTankers.all() {
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type maintenanceRepo struct{ s *Store }

func (r maintenanceRepo) Create(_ context.Context, m *models.MaintenanceRequest) error {
	defer r.s.lock()()
	if m.Status == "" {
		m.Status = models.MaintenancePending
	}
	m.ID = r.s.data.maintenance.next()
	m.CreatedAt = r.s.Now()
	m.UpdatedAt = m.CreatedAt
	r.s.data.maintenance.put(m.ID, *m)
	return nil
}

func (r maintenanceRepo) Get(_ context.Context, id int) (*models.MaintenanceRequest, error) {
	defer r.s.lock()()
	m, ok := r.s.data.maintenance.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (r maintenanceRepo) List(_ context.Context, tenantID int) ([]*models.MaintenanceRequest, error) {
	defer r.s.lock()()
	var out []*models.MaintenanceRequest
	for _, m := range r.s.data.maintenance.all() {
		if tenantID == 0 || m.TenantID == tenantID {
			out = append(out, &m)
		}
	}
	slices.Reverse(out)
	return out, nil
}

func (r maintenanceRepo) UpdateStatus(_ context.Context, id int, status models.MaintenanceStatus) error {
	defer r.s.lock()()
	m, ok := r.s.data.maintenance.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = r.s.Now()
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	defer r.s.lock()()
	n.ID = r.s.data.notifications.next()
	n.IsRead = false
	n.CreatedAt = r.s.Now()
	r.s.data.notifications.put(n.ID, *n)
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID int, limit int) ([]*models.Notification, error) {
	defer r.s.lock()()
	if limit <= 0 {
		limit = 50
	}
	var out []*models.Notification
	all := r.s.data.notifications.all()
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if all[i].UserID == userID {
			n := all[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, userID int) error {
	defer r.s.lock()()
	n, ok := r.s.data.notifications.rows[id]
	if !ok || n.UserID != userID {
		return store.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func sortedIDs[T any](rows map[int]*T) []int {
	ids := make([]int, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
