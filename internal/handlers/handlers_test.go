package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-backend/internal/apperr"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tc.raw})
		id, err := pathID(r)
		if !tc.ok {
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "id %q", tc.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, id)
	}
}

func requestAs(ctx context.Context, target string, userID int, role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(middleware.WithUser(ctx, userID, "user@example.com", role))
}

func TestCallerFrom(t *testing.T) {
	_, err := callerFrom(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	c, err := callerFrom(requestAs(context.Background(), "/", 4, models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, 4, c.ID)
	assert.True(t, c.isAdmin())
}

func TestBillFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("tenant is pinned to own bills", func(t *testing.T) {
		r := requestAs(ctx, "/rent-bills?tenant_id=99&status=DUE", 5, models.RoleTenant)
		c, _ := callerFrom(r)
		f, err := billFilter(r, c)
		require.NoError(t, err)
		assert.Equal(t, 5, f.TenantID)
		assert.Equal(t, models.BillStatusDue, f.Status)
	})

	t.Run("admin may narrow by tenant", func(t *testing.T) {
		r := requestAs(ctx, "/rent-bills?tenant_id=99", 1, models.RoleAdmin)
		c, _ := callerFrom(r)
		f, err := billFilter(r, c)
		require.NoError(t, err)
		assert.Equal(t, 99, f.TenantID)
		assert.Empty(t, f.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		r := requestAs(ctx, "/rent-bills?status=LATE", 1, models.RoleAdmin)
		c, _ := callerFrom(r)
		_, err := billFilter(r, c)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects bad tenant id", func(t *testing.T) {
		r := requestAs(ctx, "/rent-bills?tenant_id=x", 1, models.RoleAdmin)
		c, _ := callerFrom(r)
		_, err := billFilter(r, c)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
