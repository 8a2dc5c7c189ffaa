package database

import (
	"testing"
	"testing/fstest"

	"rental-backend/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/002_bills.sql":       {Data: []byte("SELECT 2;")},
		"sql/001_users.sql":       {Data: []byte("SELECT 1;")},
		"sql/999_reset_all.sql":   {Data: []byte("DROP TABLE users;")},
		"sql/README.md":           {Data: []byte("notes")},
		"sql/003_payments.sql":    {Data: []byte("SELECT 3;")},
		"sql/archive/000_old.sql": {Data: []byte("SELECT 0;")},
	}

	got, err := PendingMigrations(fsys, "sql", map[string]bool{"002_bills.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "003_payments.sql"}, got)
}

func TestPendingMigrations_MissingDir(t *testing.T) {
	_, err := PendingMigrations(fstest.MapFS{}, "nope", nil)
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	got, err := PendingMigrations(migrations.FS, ".", nil)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001_create_users_rooms.sql", got[0])
}
