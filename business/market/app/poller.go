package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/internal/logger"
)

const meterName = "market"

// Schedule pairs a feed with its polling interval.
type Schedule struct {
	Feed     Feed
	Interval time.Duration
}

type pollerMetrics struct {
	fetches metric.Int64Counter
	errors  metric.Int64Counter
}

// Poller fetches each feed immediately and then on its interval. A failed
// fetch is logged and the last good value is kept; the next tick retries.
type Poller struct {
	schedules []Schedule
	logger    logger.LoggerInterface
	now       func() time.Time
	metrics   *pollerMetrics

	mu        sync.RWMutex
	latest    map[domain.Kind]domain.Quote
	listeners []Listener

	wg sync.WaitGroup
}

// NewPoller creates a poller for the given schedules.
func NewPoller(log logger.LoggerInterface, schedules ...Schedule) (*Poller, error) {
	p := &Poller{
		schedules: schedules,
		logger:    log,
		now:       time.Now,
		latest:    make(map[domain.Kind]domain.Quote),
	}
	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return p, nil
}

func (p *Poller) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &pollerMetrics{}

	p.metrics.fetches, err = meter.Int64Counter(
		"market_feed_fetches_total",
		metric.WithDescription("Total spot feed fetches"),
	)
	if err != nil {
		return err
	}

	p.metrics.errors, err = meter.Int64Counter(
		"market_feed_errors_total",
		metric.WithDescription("Total failed spot feed fetches"),
	)
	return err
}

// Subscribe registers fn for every successful quote. If a value is already
// known it is delivered right away.
func (p *Poller) Subscribe(fn Listener) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	known := make([]domain.Quote, 0, len(p.latest))
	for _, q := range p.latest {
		known = append(known, q)
	}
	p.mu.Unlock()

	for _, q := range known {
		fn(q)
	}
}

// Latest returns the last good quote of kind.
func (p *Poller) Latest(kind domain.Kind) (domain.Quote, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	q, ok := p.latest[kind]
	return q, ok
}

// Start launches one goroutine per feed. They stop when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	for _, s := range p.schedules {
		p.wg.Add(1)
		go p.run(ctx, s)
	}
}

// Wait blocks until every feed goroutine has returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context, s Schedule) {
	defer p.wg.Done()

	p.Poll(ctx, s.Feed)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx, s.Feed)
		}
	}
}

// Poll fetches feed once and publishes the value on success.
func (p *Poller) Poll(ctx context.Context, feed Feed) {
	kind := feed.Kind()
	attrs := metric.WithAttributes(attribute.String("kind", string(kind)))
	p.metrics.fetches.Add(ctx, 1, attrs)

	value, err := feed.Fetch(ctx)
	if err != nil {
		p.metrics.errors.Add(ctx, 1, attrs)
		last, ok := p.Latest(kind)
		p.logger.Warn(ctx, "spot feed fetch failed, keeping last value",
			"kind", kind,
			"has_last", ok,
			"last", last.Value,
			"error", err)
		return
	}

	q := domain.Quote{Kind: kind, Value: value, At: p.now()}

	p.mu.Lock()
	p.latest[kind] = q
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	p.logger.Debug(ctx, "spot feed updated", "kind", kind, "value", value)

	for _, fn := range listeners {
		fn(q)
	}
}
