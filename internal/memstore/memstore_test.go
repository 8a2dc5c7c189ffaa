package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Name: "Asha", Email: "asha@example.com", Role: models.RoleTenant}
	require.NoError(t, s.Users().Create(ctx, u))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Store) error {
		require.NoError(t, tx.RentBills().Create(ctx, &models.RentBill{TenantID: u.ID, Amount: decimal.NewFromInt(100), Status: models.BillStatusDue}))
		require.NoError(t, tx.Payments().Create(ctx, &models.Payment{TenantID: u.ID, Status: models.PaymentStatusPending}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bills, err := s.RentBills().ListByTenantStatus(ctx, u.ID, models.BillStatusDue)
	require.NoError(t, err)
	assert.Empty(t, bills)
	_, err = s.Payments().GetPendingByTenant(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(tx store.Store) error {
			_ = tx.Rooms().Create(ctx, &models.Room{RoomNumber: "101"})
			panic("boom")
		})
	})

	rooms, err := s.Rooms().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	// the mutex must have been released
	require.NoError(t, s.Rooms().Create(ctx, &models.Room{RoomNumber: "101"}))
}

func TestInTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InTx(ctx, func(tx store.Store) error {
		return tx.InTx(ctx, func(inner store.Store) error {
			return inner.Rooms().Create(ctx, &models.Room{RoomNumber: "201"})
		})
	})
	require.NoError(t, err)

	rooms, err := s.Rooms().List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)
}

func TestConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Users().Create(ctx, &models.User{Name: "A", Email: "a@example.com"}))
	err := s.Users().Create(ctx, &models.User{Name: "B", Email: "A@Example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, s.Rooms().Create(ctx, &models.Room{RoomNumber: "101"}))
	assert.ErrorIs(t, s.Rooms().Create(ctx, &models.Room{RoomNumber: "101"}), store.ErrConflict)

	require.NoError(t, s.Payments().Create(ctx, &models.Payment{TenantID: 1, Status: models.PaymentStatusPending}))
	assert.ErrorIs(t, s.Payments().Create(ctx, &models.Payment{TenantID: 1, Status: models.PaymentStatusPending}), store.ErrConflict)
	assert.NoError(t, s.Payments().Create(ctx, &models.Payment{TenantID: 2, Status: models.PaymentStatusPending}))
}

func TestMarkVerified_OnlyPending(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Payment{TenantID: 1, Status: models.PaymentStatusPending}
	require.NoError(t, s.Payments().Create(ctx, p))

	now := time.Now()
	require.NoError(t, s.Payments().MarkVerified(ctx, p.ID, 9, now))
	assert.ErrorIs(t, s.Payments().MarkVerified(ctx, p.ID, 9, now), store.ErrNotFound)

	got, err := s.Payments().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVerified, got.Status)
	require.NotNil(t, got.VerifiedByID)
	assert.Equal(t, 9, *got.VerifiedByID)
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := New()
	cutoff := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	late := &models.RentBill{TenantID: 1, Status: models.BillStatusDue, DueDate: cutoff.AddDate(0, 0, -1)}
	onTime := &models.RentBill{TenantID: 1, Status: models.BillStatusDue, DueDate: cutoff}
	paid := &models.RentBill{TenantID: 1, Status: models.BillStatusPaid, DueDate: cutoff.AddDate(0, 0, -3)}
	for _, b := range []*models.RentBill{late, onTime, paid} {
		require.NoError(t, s.RentBills().Create(ctx, b))
	}

	flipped, err := s.RentBills().MarkOverdue(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, flipped, 1)
	assert.Equal(t, late.ID, flipped[0].ID)
	assert.Equal(t, models.BillStatusOverdue, flipped[0].Status)

	again, err := s.RentBills().MarkOverdue(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRoomsDeriveOccupancy(t *testing.T) {
	ctx := context.Background()
	s := New()
	r1 := &models.Room{RoomNumber: "102"}
	r2 := &models.Room{RoomNumber: "101"}
	require.NoError(t, s.Rooms().Create(ctx, r1))
	require.NoError(t, s.Rooms().Create(ctx, r2))
	require.NoError(t, s.Users().Create(ctx, &models.User{Name: "T", Email: "t@example.com", Role: models.RoleTenant, RoomID: &r1.ID}))

	rooms, err := s.Rooms().List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, models.RoomStatusVacant, rooms[0].Status)
	assert.Equal(t, models.RoomStatusOccupied, rooms[1].Status)
}

func TestNotifications_MarkReadScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	n := &models.Notification{UserID: 1, Title: "hi"}
	require.NoError(t, s.Notifications().Create(ctx, n))

	assert.ErrorIs(t, s.Notifications().MarkRead(ctx, n.ID, 2), store.ErrNotFound)
	require.NoError(t, s.Notifications().MarkRead(ctx, n.ID, 1))

	list, err := s.Notifications().ListByUser(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}
