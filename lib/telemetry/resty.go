package telemetry

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty wraps every request made by `client` in an
// "http <METHOD>" span carrying the request query, the headers of both
// sides and the retry attempt.
func InstrumentResty(client *resty.Client, tracerName string) {
	tracer := Tracer(tracerName)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), "http "+req.Method)
		req.SetContext(ctx)
		return nil
	})
	client.OnAfterResponse(endResponseSpan)
	client.OnError(endErrorSpan)
}

func headerAttributes(side string, headers http.Header) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(headers))
	for name, values := range headers {
		out = append(out, attribute.StringSlice(fmt.Sprintf("http.%s.header.%s", side, http.CanonicalHeaderKey(name)), values))
	}
	return out
}

// the showtime endpoint is addressed entirely through its query, so each
// parameter gets its own attribute.
func queryAttributes(rawUrl string) []attribute.KeyValue {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return nil
	}
	query := parsed.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, attribute.StringSlice("http.query."+k, query[k]))
	}
	return out
}

func requestAttributes(req *resty.Request) []attribute.KeyValue {
	out := []attribute.KeyValue{attribute.Int("http.attempt", req.Attempt)}
	out = append(out, queryAttributes(req.URL)...)
	out = append(out, headerAttributes("request", req.Header)...)
	// RawRequest is only built after the before-request hooks ran
	if req.RawRequest != nil {
		out = append(out, httpconv.ClientRequest(req.RawRequest)...)
	}
	return out
}

func endResponseSpan(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()

	span.SetAttributes(requestAttributes(res.Request)...)
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	span.SetAttributes(headerAttributes("response", res.Header())...)
	span.SetAttributes(attribute.Int("http.response.body_size", len(res.Body())))

	if !res.IsSuccess() {
		span.SetStatus(codes.Error, res.Status())
	}
	return nil
}

func endErrorSpan(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.SetAttributes(requestAttributes(req)...)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
