package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan_NoTracer(t *testing.T) {
	SetTracer(nil)

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.Nil(t, GetActiveSpan(ctx))
	assert.Equal(t, "", GetTraceID(ctx))
	assert.Equal(t, "", GetSpanID(ctx))

	// must not panic without a tracer
	SetAttributes(ctx, attribute.String("k", "v"))
}

func TestInitStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitStdout("sapling-test", &buf)
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "ReadinessService.Apply")
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	SetAttributes(ctx, attribute.Int("rows", 3))
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "ReadinessService.Apply")
	assert.Nil(t, tracer)
}
