package otel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type finishKey struct{}

// StartHTTPSpan creates a span for HTTP client calls with standard attributes.
// The returned finish function is safe to call more than once; only the
// first call ends the span.
func StartHTTPSpan(ctx context.Context, tracerName, clientName, method, baseURL, path string) (context.Context, func(statusCode int, err error)) {
	tracer := otel.Tracer(tracerName)
	spanName := fmt.Sprintf("HTTP.%s %s %s", clientName, method, path)
	ctx, span := tracer.Start(ctx, spanName)

	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.URLFull(baseURL+path),
		attribute.String("http.target", path),
	)

	var once sync.Once
	return ctx, func(statusCode int, err error) {
		once.Do(func() {
			defer span.End()

			if statusCode > 0 {
				span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(statusCode))
			}

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case statusCode >= 400:
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
			default:
				span.SetStatus(codes.Ok, "success")
			}
		})
	}
}

// InjectTraceHeaders writes the propagation headers for ctx into headers,
// allocating the map when nil.
func InjectTraceHeaders(ctx context.Context, headers map[string]string) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

func InjectTraceHeadersIntoRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// InstrumentResty opens a client span for every request made through client,
// forwards the trace headers and ends the span once the call completes.
func InstrumentResty(client *resty.Client, tracerName, clientName string) *resty.Client {
	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		ctx, finish := StartHTTPSpan(req.Context(), tracerName, clientName, req.Method, c.BaseURL, req.URL)
		ctx = context.WithValue(ctx, finishKey{}, finish)
		req.SetContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if finish, ok := resp.Request.Context().Value(finishKey{}).(func(int, error)); ok {
			finish(resp.StatusCode(), nil)
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if finish, ok := req.Context().Value(finishKey{}).(func(int, error)); ok {
			status := 0
			var respErr *resty.ResponseError
			if errors.As(err, &respErr) && respErr.Response != nil {
				status = respErr.Response.StatusCode()
			}
			finish(status, err)
		}
	})

	return client
}
