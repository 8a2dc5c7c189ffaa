package health

import (
	"context"
	"fmt"
	"time"

	"rental-backend/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is anything whose reachability can be probed; store.Store satisfies it
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	cache *cache.Cache
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Redis    ComponentHealth `json:"redis"`
	System   *SystemHealth   `json:"system,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

// SystemHealth is the host's resource usage at check time
type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(db Pinger, c *cache.Cache) *HealthChecker {
	return &HealthChecker{db: db, cache: c}
}

// CheckBasic probes the database and Redis. Redis is optional: when it is not
// configured it reports "disabled" and never makes the service unhealthy.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)
	redisHealth := h.checkRedis(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	} else if redisHealth.Status == "unhealthy" {
		status = "degraded"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redisHealth,
	}
}

// CheckDetailed is CheckBasic plus host CPU, memory and disk usage
func (h *HealthChecker) CheckDetailed(ctx context.Context) HealthStatus {
	status := h.CheckBasic(ctx)
	status.System = systemHealth()
	return status
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkRedis(ctx context.Context) ComponentHealth {
	if !h.cache.Enabled() {
		return ComponentHealth{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.cache.Client().Ping(ctx).Err()
	responseTime := time.Since(start).Milliseconds()
	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime, Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

func systemHealth() *SystemHealth {
	s := &SystemHealth{}

	// interval 0 compares against the previous call instead of sleeping
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = memStats.UsedPercent
		s.MemoryUsed = formatBytes(memStats.Used)
		s.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		s.DiskPercent = diskStats.UsedPercent
	}
	return s
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
