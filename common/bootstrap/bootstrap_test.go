package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/flowshift/quoter/common/config"
	"github.com/flowshift/quoter/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WithoutExternalDependencies(t *testing.T) {
	cfg, err := config.Load("quoter-test")
	require.NoError(t, err)

	ctx := context.Background()
	components, err := Setup(ctx, "quoter-test",
		WithCustomConfig(cfg),
		WithCustomLogger(logger.Discard()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Same(t, cfg, components.Config)
	assert.Nil(t, components.DB)
	assert.Nil(t, components.Redis)
	assert.Nil(t, components.Telemetry)
	assert.NoError(t, components.Health(ctx))

	var order []int
	components.AddCleanup(func() error { order = append(order, 1); return nil })
	components.AddCleanup(func() error { order = append(order, 2); return nil })

	require.NoError(t, components.Shutdown(ctx))
	assert.Equal(t, []int{2, 1}, order, "cleanup runs in reverse order")
}

func TestShutdown_CollectsErrors(t *testing.T) {
	components := &Components{Logger: logger.Discard()}
	components.AddCleanup(func() error { return errors.New("first") })
	components.AddCleanup(func() error { return nil })

	err := components.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
}
