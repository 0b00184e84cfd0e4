package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/optrack/business/alerting/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/logger"
)

const (
	tracerName = "alerting"
	meterName  = "alerting"
)

// State is the lifecycle state of the monitor.
type State string

const (
	// StateColdStart records the first batch without notifying.
	StateColdStart State = "COLD_START"
	// StateRunning compares every batch against what was seen before.
	StateRunning State = "RUNNING"
)

// Config holds the monitor settings.
type Config struct {
	Threshold      float64
	CheckInterval  time.Duration
	DigestInterval time.Duration
}

// CheckResult summarizes one check cycle.
type CheckResult struct {
	Quotes    int
	Failed    int
	NewTokens int
	Alerts    int
}

// Stats is a point-in-time view of the monitor for health reporting.
type Stats struct {
	State       State     `json:"state"`
	KnownTokens []string  `json:"known_tokens"`
	Checks      int       `json:"checks"`
	LastCheck   time.Time `json:"last_check"`
	LastFailed  int       `json:"last_failed"`
	Sent        int       `json:"sent"`
	SendFailed  int       `json:"send_failed"`
}

type monitorMetrics struct {
	checks        metric.Int64Counter
	quoteErrors   metric.Int64Counter
	notifications metric.Int64Counter
	sendFailures  metric.Int64Counter
	checkLatency  metric.Float64Histogram
}

// Monitor detects new tokens and threshold price moves across check cycles
// and hands the resulting events to a notifier.
type Monitor struct {
	provider  TokenDataProvider
	notifier  Notifier
	scheduler *Scheduler
	logger    logger.LoggerInterface
	cfg       Config
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *monitorMetrics

	mu         sync.Mutex
	state      State
	history    domain.PriceHistory
	known      domain.KnownTokenSet
	checks     int
	lastCheck  time.Time
	lastFailed int
	sent       int
	sendFailed int
}

// NewMonitor creates a monitor in the cold start state.
func NewMonitor(provider TokenDataProvider, notifier Notifier, scheduler *Scheduler, log logger.LoggerInterface, cfg Config) (*Monitor, error) {
	m := &Monitor{
		provider:  provider,
		notifier:  notifier,
		scheduler: scheduler,
		logger:    log,
		cfg:       cfg,
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
		state:     StateColdStart,
		history:   make(domain.PriceHistory),
		known:     make(domain.KnownTokenSet),
	}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return m, nil
}

func (m *Monitor) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	m.metrics = &monitorMetrics{}

	m.metrics.checks, err = meter.Int64Counter(
		"alerting_checks_total",
		metric.WithDescription("Total alert check cycles"),
	)
	if err != nil {
		return err
	}

	m.metrics.quoteErrors, err = meter.Int64Counter(
		"alerting_quote_errors_total",
		metric.WithDescription("Total token quotes that failed to fetch"),
	)
	if err != nil {
		return err
	}

	m.metrics.notifications, err = meter.Int64Counter(
		"alerting_notifications_total",
		metric.WithDescription("Total notifications sent by kind"),
	)
	if err != nil {
		return err
	}

	m.metrics.sendFailures, err = meter.Int64Counter(
		"alerting_notification_failures_total",
		metric.WithDescription("Total notifications the notifier failed to deliver"),
	)
	if err != nil {
		return err
	}

	m.metrics.checkLatency, err = meter.Float64Histogram(
		"alerting_check_duration_ms",
		metric.WithDescription("Check cycle duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Start announces the monitor, runs an initial check and digest from the
// same batch, then schedules both on their intervals.
func (m *Monitor) Start(ctx context.Context) error {
	for _, d := range []time.Duration{m.cfg.CheckInterval, m.cfg.DigestInterval} {
		if d <= 0 {
			return apperror.New(apperror.CodeSchedulerJobInvalid,
				apperror.WithContext(fmt.Sprintf("monitor interval %s", d)))
		}
	}

	m.send(ctx, domain.NewEvent(domain.EventStartup, "", domain.StartupMessage(m.settings(), m.now()), m.now()))

	quotes, _ := m.check(ctx)
	m.digest(ctx, quotes)

	if err := m.scheduler.AddJob(m.cfg.CheckInterval, checkJob{m}); err != nil {
		return err
	}
	if err := m.scheduler.AddJob(m.cfg.DigestInterval, digestJob{m}); err != nil {
		return err
	}
	m.scheduler.Start(ctx)

	m.logger.Info(ctx, "alert monitor started",
		"threshold", m.cfg.Threshold,
		"check_interval", m.cfg.CheckInterval,
		"digest_interval", m.cfg.DigestInterval)
	return nil
}

// Stop stops the scheduled jobs.
func (m *Monitor) Stop() {
	m.scheduler.Stop()
}

// RunOnce runs one check and one digest from the same batch.
func (m *Monitor) RunOnce(ctx context.Context) CheckResult {
	quotes, res := m.check(ctx)
	m.digest(ctx, quotes)
	return res
}

// Check runs one cycle: fetch every quote, announce unseen tokens, alert on
// threshold moves, then record prices.
func (m *Monitor) Check(ctx context.Context) CheckResult {
	_, res := m.check(ctx)
	return res
}

func (m *Monitor) check(ctx context.Context) ([]domain.TokenQuote, CheckResult) {
	ctx, span := m.tracer.Start(ctx, "alerting.Check")
	defer span.End()

	start := time.Now()
	defer func() {
		m.metrics.checkLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	}()
	m.metrics.checks.Add(ctx, 1)

	quotes := m.provider.FetchAllTracked(ctx)
	at := m.now()

	m.mu.Lock()
	events, res := m.evaluate(ctx, quotes, at)
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Int("quotes", res.Quotes),
		attribute.Int("failed", res.Failed),
		attribute.Int("new_tokens", res.NewTokens),
		attribute.Int("alerts", res.Alerts),
	)
	if res.Failed > 0 {
		m.metrics.quoteErrors.Add(ctx, int64(res.Failed))
		if res.Failed == res.Quotes {
			span.SetStatus(codes.Error, "every quote failed")
		}
	}

	for _, ev := range events {
		m.send(ctx, ev)
	}

	m.logger.Info(ctx, "alert check completed",
		"quotes", res.Quotes,
		"failed", res.Failed,
		"new_tokens", res.NewTokens,
		"alerts", res.Alerts)
	return quotes, res
}

// evaluate applies one batch to the monitor state. m.mu must be held.
func (m *Monitor) evaluate(ctx context.Context, quotes []domain.TokenQuote, at time.Time) ([]domain.Event, CheckResult) {
	res := CheckResult{Quotes: len(quotes)}
	running := m.state == StateRunning

	var events []domain.Event

	for _, q := range quotes {
		if q.IsErr() {
			res.Failed++
			m.logger.Warn(ctx, "token quote failed", "symbol", q.Symbol, "reason", q.Reason())
			continue
		}
		if !m.known.Add(q.Symbol) || !running {
			continue
		}
		res.NewTokens++
		events = append(events, domain.NewEvent(domain.EventNewToken, q.Symbol, domain.NewTokenMessage(q, at), at))
	}

	if running {
		for _, q := range quotes {
			price, ok := q.Price()
			if !ok {
				continue
			}
			pct, prev, moved := m.history.Change(q.Symbol, price)
			if !moved || !domain.Crosses(pct, m.cfg.Threshold) {
				continue
			}
			res.Alerts++
			m.logger.Info(ctx, "price threshold crossed",
				"symbol", q.Symbol, "prev", prev, "price", price, "change_pct", pct)
			events = append(events, domain.NewEvent(domain.EventPriceAlert, q.Symbol,
				domain.PriceAlertMessage(q.Symbol, prev, price, pct, m.cfg.Threshold, at), at))
		}
	}

	for _, q := range quotes {
		if price, ok := q.Price(); ok {
			m.history[q.Symbol] = price
		}
	}

	if !running {
		m.state = StateRunning
		m.logger.Info(ctx, "cold start complete", "known_tokens", len(m.known))
	}

	m.checks++
	m.lastCheck = at
	m.lastFailed = res.Failed

	return events, res
}

// Digest fetches every quote and sends a status summary. It reports whether
// a digest was sent.
func (m *Monitor) Digest(ctx context.Context) bool {
	ctx, span := m.tracer.Start(ctx, "alerting.Digest")
	defer span.End()

	return m.digest(ctx, m.provider.FetchAllTracked(ctx))
}

func (m *Monitor) digest(ctx context.Context, quotes []domain.TokenQuote) bool {
	at := m.now()

	m.mu.Lock()
	text, ok := domain.DigestMessage(quotes, m.history, at)
	m.mu.Unlock()

	if !ok {
		m.logger.Info(ctx, "No valid tokens for status update")
		return false
	}
	return m.send(ctx, domain.NewEvent(domain.EventDigest, "", text, at))
}

// Stats returns the monitor state.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		State:       m.state,
		KnownTokens: m.known.Symbols(),
		Checks:      m.checks,
		LastCheck:   m.lastCheck,
		LastFailed:  m.lastFailed,
		Sent:        m.sent,
		SendFailed:  m.sendFailed,
	}
}

func (m *Monitor) send(ctx context.Context, ev domain.Event) bool {
	attrs := metric.WithAttributes(attribute.String("kind", string(ev.Kind)))

	ok := m.notifier.Send(ctx, ev)

	m.mu.Lock()
	if ok {
		m.sent++
	} else {
		m.sendFailed++
	}
	m.mu.Unlock()

	if !ok {
		m.metrics.sendFailures.Add(ctx, 1, attrs)
		m.logger.Warn(ctx, "notification not delivered", "kind", ev.Kind, "symbol", ev.Symbol, "event_id", ev.ID)
		return false
	}
	m.metrics.notifications.Add(ctx, 1, attrs)
	return true
}

func (m *Monitor) settings() domain.Settings {
	return domain.Settings{
		Threshold:      m.cfg.Threshold,
		CheckInterval:  m.cfg.CheckInterval,
		DigestInterval: m.cfg.DigestInterval,
	}
}

type checkJob struct{ m *Monitor }

func (j checkJob) Name() string { return "price_check" }

func (j checkJob) Run(ctx context.Context) error {
	res := j.m.Check(ctx)
	if res.Quotes > 0 && res.Failed == res.Quotes {
		return apperror.New(apperror.CodeTokenDataFailed,
			apperror.WithContext(fmt.Sprintf("all %d quotes failed", res.Quotes)))
	}
	return nil
}

type digestJob struct{ m *Monitor }

func (j digestJob) Name() string { return "status_digest" }

func (j digestJob) Run(ctx context.Context) error {
	j.m.Digest(ctx)
	return nil
}
