package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// maxBodySize caps a feed response.
const maxBodySize = 1 << 20

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	body       []byte
}

// Body returns the raw body.
func (r *Response) Body() []byte {
	return r.body
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if len(r.body) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(r.body, v)
}

// CallOption configures one request.
type CallOption func(*call)

type call struct {
	endpoint     string
	query        url.Values
	errorHandler ResponseErrorHandler
}

// Endpoint labels the request in metrics and spans.
func Endpoint(name string) CallOption {
	return func(c *call) { c.endpoint = name }
}

// Query adds a query parameter.
func Query(key, value string) CallOption {
	return func(c *call) { c.query.Set(key, value) }
}

// OnResponse installs a handler that turns a response into an error.
func OnResponse(h ResponseErrorHandler) CallOption {
	return func(c *call) { c.errorHandler = h }
}

// Get fetches path. A non-nil Response is returned whenever the server
// answered, even if the error handler rejected it.
func (c *Client) Get(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	cl := call{endpoint: path, query: url.Values{}}
	for _, opt := range opts {
		opt(&cl)
	}

	ctx, span := c.tracer.Start(ctx, c.name+".get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider", c.name),
			attribute.String("endpoint", cl.endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, span, path, cl)
	c.record(ctx, cl.endpoint, err == nil, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, span trace.Span, path string, cl call) (*Response, error) {
	full := c.resolve(path)
	if len(cl.query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + cl.query.Encode()
	}
	span.SetAttributes(attribute.String("http.url", full))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			span.SetAttributes(attribute.Bool("request.timeout", true))
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if c.traceBody {
		span.AddEvent("response.body", trace.WithAttributes(
			attribute.String("http.response_body", string(body))))
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, body: body}
	if cl.errorHandler != nil {
		if err := cl.errorHandler(resp.StatusCode, body); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (c *Client) resolve(path string) string {
	if c.baseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) record(ctx context.Context, endpoint string, ok bool, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", c.name),
		attribute.String("endpoint", endpoint),
		attribute.Bool("success", ok),
	)
	c.requests.Add(ctx, 1, attrs)
	c.latency.Record(ctx, d.Seconds(), attrs)
}
