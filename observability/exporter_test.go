package observability

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
)

func TestNewConsoleMetricsExporter(t *testing.T) {
	shutdown, err := NewConsoleMetricsExporter(
		100*time.Millisecond,
		50*time.Millisecond,
		stdoutmetric.WithWriter(os.Stdout),
	)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	InitAppStats(context.Background(), "exporter-test")
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, shutdown(context.Background()))
}

func TestNewPrometheusMetricsExporter(t *testing.T) {
	shutdown, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}
