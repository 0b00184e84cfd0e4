// Package httpclient provides the OTEL-instrumented HTTP client the spot
// feeds read their JSON endpoints with.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultDialKeepAlive   = 10 * time.Second
	defaultMaxConnsPerHost = 4
	defaultIdleConnTimeout = 2 * time.Minute

	meterName            = "optrack/httpclient"
	metricRequests       = "feed_http_requests_total"
	metricRequestLatency = "feed_http_request_duration_seconds"
)

// Client issues GET requests against one base URL.
type Client struct {
	http      *http.Client
	name      string
	baseURL   string
	headers   http.Header
	tracer    trace.Tracer
	traceBody bool

	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// Option configures a Client.
type Option func(*options)

type options struct {
	name          string
	baseURL       string
	timeout       time.Duration
	headers       http.Header
	transport     http.RoundTripper
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
	traceBody     bool
}

// WithName labels spans and metrics, e.g. "coingecko".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithBaseURL sets the URL request paths are joined to.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Set(key, value) }
}

// WithTransport replaces the pooled default transport. It is still wrapped
// with otelhttp.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithTracer sets the tracer and, when traceBody is true, records response
// bodies as span events.
func WithTracer(t trace.Tracer, traceBody bool) Option {
	return func(o *options) {
		o.tracer = t
		o.traceBody = traceBody
	}
}

// New builds a Client.
func New(opts ...Option) (*Client, error) {
	o := options{
		name:    "default",
		timeout: defaultTimeout,
		headers: http.Header{"Accept": {"application/json"}},
	}
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			DialContext:     (&net.Dialer{KeepAlive: defaultDialKeepAlive}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}

	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName,
		metric.WithInstrumentationAttributes(attribute.String("provider", o.name)))

	requests, err := meter.Int64Counter(metricRequests,
		metric.WithDescription("Feed HTTP requests by endpoint and outcome"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(metricRequestLatency,
		metric.WithDescription("Feed HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer(meterName)
	}

	return &Client{
		http: &http.Client{
			Timeout: o.timeout,
			Transport: otelhttp.NewTransport(transport,
				otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
					return otelhttptrace.NewClientTrace(ctx)
				}),
			),
		},
		name:      o.name,
		baseURL:   o.baseURL,
		headers:   o.headers,
		tracer:    tracer,
		traceBody: o.traceBody,
		requests:  requests,
		latency:   latency,
	}, nil
}

// Name returns the provider label.
func (c *Client) Name() string {
	return c.name
}
