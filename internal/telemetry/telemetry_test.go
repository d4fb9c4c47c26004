package telemetry_test

import (
	"context"
	"testing"

	"shopkart/internal/telemetry"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExposesCountersThroughRegistry(t *testing.T) {
	ctx := context.Background()
	telem, err := telemetry.New(ctx, telemetry.Config{ServiceName: "shopkart-test"}, hclog.NewNullLogger())
	require.NoError(t, err)
	defer telem.Shutdown(ctx)

	counter, err := telem.Meter("test").Int64Counter("products.operations")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	families, err := telem.Registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "products_operations_total")
}

func TestNew_TracerRecordsSpans(t *testing.T) {
	ctx := context.Background()
	telem, err := telemetry.New(ctx, telemetry.Config{ServiceName: "shopkart-test"}, hclog.NewNullLogger())
	require.NoError(t, err)

	_, span := telem.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, telem.Shutdown(ctx))
}
