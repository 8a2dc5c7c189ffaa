package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckBasic(t *testing.T) {
	status := NewHealthChecker(pinger{}, nil).CheckBasic(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Database.Status)
	assert.Equal(t, "disabled", status.Redis.Status)
	assert.Nil(t, status.System)
}

func TestCheckBasic_DatabaseDown(t *testing.T) {
	status := NewHealthChecker(pinger{err: errors.New("connection refused")}, nil).CheckBasic(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connection refused", status.Database.Error)
}

func TestCheckDetailed(t *testing.T) {
	status := NewHealthChecker(pinger{}, nil).CheckDetailed(context.Background())
	require.NotNil(t, status.System)
	assert.GreaterOrEqual(t, status.System.MemoryPercent, 0.0)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}
