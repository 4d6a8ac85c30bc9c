package otel_test

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/infras/otel"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_WithoutEndpointIsNoop(t *testing.T) {
	o := otel.New(&config.Config{})

	ctx, scope := o.NewScope(context.Background(), "test", "test.span")
	require.NotNil(t, ctx)

	scope.SetAttribute("booking.id", "b-1")
	scope.TraceIfError(errors.New("ignored"))
	scope.End()

	assert.NoError(t, o.Shutdown(context.Background()))
}

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "booking.Create")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"room.id":    "r-1",
		"nights":     3,
		"has_offer":  true,
		"price":      1000.5,
		"room.types": []string{"Single", "Double"},
	})
	scope.AddEvent("room locked")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("room is already booked"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	got := spans[0]
	assert.Equal(t, "booking.Create", got.Name())
	assert.Equal(t, "room is already booked", got.Status().Description)
	assert.Len(t, got.Attributes(), 5)

	events := make([]string, 0, len(got.Events()))
	for _, e := range got.Events() {
		events = append(events, e.Name)
	}

	assert.Contains(t, events, "room locked")
	assert.Contains(t, events, "exception")
}
