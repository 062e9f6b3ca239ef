package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/flowshift/quoter/common/config"
	"github.com/flowshift/quoter/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{Name: "quoter-test"},
		Database: config.DatabaseConfig{
			Enabled:     true,
			Host:        "db.internal",
			Port:        5433,
			Database:    "quotes",
			User:        "svc",
			Password:    "secret",
			MaxConns:    7,
			MinConns:    1,
			MaxIdleTime: time.Minute,
			MaxLifetime: time.Hour,
		},
	}
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(7), poolConfig.MaxConns)
	assert.Equal(t, int32(1), poolConfig.MinConns)
	assert.Equal(t, time.Hour, poolConfig.MaxConnLifetime)
	assert.Equal(t, time.Minute, poolConfig.MaxConnIdleTime)
	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "quoter-test", poolConfig.ConnConfig.RuntimeParams["application_name"])
}

// TestEnsureSchema runs against a live database when POSTGRES_TEST_HOST is set
func TestEnsureSchema(t *testing.T) {
	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		t.Skip("Postgres not available")
	}

	cfg, err := config.Load("quoter-test")
	require.NoError(t, err)
	cfg.Database.Host = host

	ctx := context.Background()
	database, err := New(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.EnsureSchema(ctx))
	require.NoError(t, database.EnsureSchema(ctx), "schema creation is repeatable")
	require.NoError(t, database.Health(ctx))
}
