package echo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestMiddlewareContinuesTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(MiddlewareWithConfig("mockapi", func(c echo.Context) bool { return c.Path() == "/health" }))

	var handlerTraceID string
	e.GET("/api/verify-user", func(c echo.Context) error {
		handlerTraceID = trace.SpanContextFromContext(c.Request().Context()).TraceID().String()
		return c.NoContent(http.StatusUnauthorized)
	})
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	ctx, parent := tp.Tracer("client").Start(context.Background(), "client")
	req := httptest.NewRequest(http.MethodGet, "/api/verify-user", nil)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	parent.End()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	server := spans[1]
	assert.Equal(t, "GET /api/verify-user", server.Name())
	assert.Equal(t, trace.SpanKindServer, server.SpanKind())
	assert.Equal(t, parent.SpanContext().TraceID(), server.SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().TraceID().String(), handlerTraceID)
}
