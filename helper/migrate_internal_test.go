package helper

import (
	"errors"
	"net/url"
	"testing"

	"hotel/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migrateConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "hotel"
	cfg.DB.Postgres.Write.Host = "primary"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "hotel"
	cfg.DB.Postgres.Write.Password = "secret"
	cfg.DB.Postgres.Write.Name = "hotel"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	return cfg
}

func TestMigrationDSN(t *testing.T) {
	cfg := migrateConfig()
	cfg.DB.Postgres.MigrationTable = "hotel_migrations"

	dsn, err := migrationDSN(cfg)
	require.NoError(t, err)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "primary:5432", parsed.Host)
	assert.Equal(t, "hotel_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestMigrationDSN_DefaultTable(t *testing.T) {
	dsn, err := migrationDSN(migrateConfig())
	require.NoError(t, err)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.False(t, parsed.Query().Has("x-migrations-table"))
}

func TestRunner_UnknownAction(t *testing.T) {
	err := Runner(migrateConfig(), "sideways")

	assert.True(t, errors.Is(err, ErrUnknownAction))
}
