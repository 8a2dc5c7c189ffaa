package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache key formats
const (
	DuesKeyFmt = "dues:%d"
)

// Cache wraps a Redis client. A nil *Cache, or one whose client failed to
// connect, turns every call into a miss/no-op so the app runs without Redis.
type Cache struct {
	client *redis.Client
}

// New connects to Redis. On failure it returns a degraded Cache and the error.
func New(cfg *config.Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and degrade gracefully
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing client; used by tests
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client returns the underlying client, or nil when Redis is unavailable
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

func (c *Cache) Enabled() bool {
	return c.Client() != nil
}

// GetJSON decodes the value at key into dst and reports whether it was found
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("[Redis] Dropping undecodable cache entry %s: %v", key, err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Redis] Failed to cache %s: %v", key, err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// DuesKey is the cache key for a tenant's outstanding dues
func DuesKey(tenantID int) string {
	return fmt.Sprintf(DuesKeyFmt, tenantID)
}

// InvalidateDues drops cached dues for the given tenants
func (c *Cache) InvalidateDues(ctx context.Context, tenantIDs ...int) {
	keys := make([]string, 0, len(tenantIDs))
	for _, id := range tenantIDs {
		keys = append(keys, DuesKey(id))
	}
	c.Delete(ctx, keys...)
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
