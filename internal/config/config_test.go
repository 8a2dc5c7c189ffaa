package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "rental_test")
	t.Setenv("REDIS_PORT", "not-a-port")
	t.Setenv("JWT_SECRET", "from-env")

	var cfg Config
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Redis.Port = 6379
	cfg.JWT.Secret = "${JWT_SECRET}"

	applyEnvOverrides(&cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "rental_test", cfg.Database.Name)
	assert.Equal(t, 6379, cfg.Redis.Port, "unparsable port keeps the configured value")
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestApplyEnvOverrides_KeepsExplicitSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	var cfg Config
	cfg.JWT.Secret = "from-file"
	applyEnvOverrides(&cfg)

	assert.Equal(t, "from-file", cfg.JWT.Secret)
}
