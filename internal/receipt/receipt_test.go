package receipt

import (
	"bytes"
	"testing"
	"time"

	"rental-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	at := time.Date(2025, 4, 14, 6, 0, 0, 0, time.UTC)
	data, err := Render(Data{
		Payment: &models.Payment{ID: 12, Amount: decimal.NewFromInt(17300), Status: models.PaymentStatusVerified, VerifiedAt: &at},
		Tenant:  &models.User{Name: "Sita", Email: "sita@example.com"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRender_RequiresVerified(t *testing.T) {
	_, err := Render(Data{
		Payment: &models.Payment{ID: 3, Amount: decimal.NewFromInt(100), Status: models.PaymentStatusPending},
		Tenant:  &models.User{Name: "Ram"},
	})
	assert.Error(t, err)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "RCPT-000042", Number(&models.Payment{ID: 42}))
}
