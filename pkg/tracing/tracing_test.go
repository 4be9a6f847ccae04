package tracing

import (
	"context"
	"testing"

	"github.com/richxcame/order-fraud-guard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, "fraudcheck", "test")

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_Enabled(t *testing.T) {
	// The gRPC exporter dials lazily, so init succeeds without a collector.
	cfg := config.TracingConfig{Enabled: true, Endpoint: "127.0.0.1:4317"}

	shutdown, err := Init(context.Background(), cfg, "fraudcheck", "test")

	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
