package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/internal/logger"
)

const meterName = "chain"

type headMetrics struct {
	height          metric.Int64Gauge
	connectionState metric.Int64Gauge
	pollErrors      metric.Int64Counter
	pollLatency     metric.Float64Histogram
}

// ChainService tracks the node head in the background and answers height
// queries for health checks.
type ChainService struct {
	caller   ContractCaller
	interval time.Duration
	logger   logger.LoggerInterface
	metrics  *headMetrics

	mu     sync.RWMutex
	status domain.ConnectionStatus

	heads chan uint64
	wg    sync.WaitGroup
}

// NewChainService creates a service polling caller every interval.
func NewChainService(caller ContractCaller, interval time.Duration, log logger.LoggerInterface) (*ChainService, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("head poll interval must be > 0, got %s", interval)
	}
	s := &ChainService{
		caller:   caller,
		interval: interval,
		logger:   log,
		status:   domain.ConnectionStatus{State: domain.StateDisconnected},
		heads:    make(chan uint64, 16),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return s, nil
}

func (s *ChainService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &headMetrics{}

	s.metrics.height, err = meter.Int64Gauge(
		"opnet_head_height",
		metric.WithDescription("Last observed OP_NET block height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return err
	}

	s.metrics.connectionState, err = meter.Int64Gauge(
		"opnet_connection_state",
		metric.WithDescription("Node connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	s.metrics.pollErrors, err = meter.Int64Counter(
		"opnet_head_poll_errors_total",
		metric.WithDescription("Total failed head polls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.pollLatency, err = meter.Float64Histogram(
		"opnet_head_poll_latency_ms",
		metric.WithDescription("Head poll latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// BlockNumber queries the node directly.
func (s *ChainService) BlockNumber(ctx context.Context) (uint64, error) {
	return s.caller.BlockNumber(ctx)
}

// Start polls the head until ctx is cancelled. The first poll is immediate.
func (s *ChainService) Start(ctx context.Context) {
	s.setState(ctx, domain.StateConnecting)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.heads)

		s.poll(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.setState(context.Background(), domain.StateDisconnected)
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

// Wait blocks until the poller has stopped.
func (s *ChainService) Wait() {
	s.wg.Wait()
}

// Heads delivers each new height. Heights are dropped if nobody reads.
func (s *ChainService) Heads() <-chan uint64 {
	return s.heads
}

// Status returns the connection status.
func (s *ChainService) Status() domain.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *ChainService) poll(ctx context.Context) {
	start := time.Now()
	height, err := s.caller.BlockNumber(ctx)
	latency := time.Since(start)
	s.metrics.pollLatency.Record(ctx, float64(latency.Milliseconds()))

	if err != nil {
		s.metrics.pollErrors.Add(ctx, 1)

		s.mu.Lock()
		s.status.Failures++
		next := domain.StateDisconnected
		if s.status.LastHeight > 0 {
			next = domain.StateReconnecting
		}
		s.mu.Unlock()

		s.setState(ctx, next)
		s.logger.Warn(ctx, "head poll failed", "error", err)
		return
	}

	s.mu.Lock()
	advanced := height > s.status.LastHeight
	s.status.LastHeight = height
	s.status.Latency = latency
	s.status.LastUpdate = time.Now()
	s.status.Failures = 0
	s.mu.Unlock()

	s.setState(ctx, domain.StateConnected)
	s.metrics.height.Record(ctx, int64(height))

	if !advanced {
		return
	}

	select {
	case s.heads <- height:
	default:
		s.logger.Debug(ctx, "head dropped, nobody reading", "height", height)
	}
	s.logger.Debug(ctx, "new head", "height", height, "latency_ms", latency.Milliseconds())
}

func (s *ChainService) setState(ctx context.Context, state domain.ConnectionState) {
	s.mu.Lock()
	s.status.State = state
	s.mu.Unlock()

	stateValue := int64(0)
	switch state {
	case domain.StateConnecting:
		stateValue = 1
	case domain.StateConnected:
		stateValue = 2
	case domain.StateReconnecting:
		stateValue = 3
	}
	s.metrics.connectionState.Record(ctx, stateValue)
}
