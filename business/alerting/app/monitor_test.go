package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/business/alerting/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/logger"
)

type scriptedProvider struct {
	mu      sync.Mutex
	batches [][]domain.TokenQuote
	calls   int
}

func (p *scriptedProvider) FetchAllTracked(context.Context) []domain.TokenQuote {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.calls
	if i >= len(p.batches) {
		i = len(p.batches) - 1
	}
	p.calls++
	return p.batches[i]
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
	fail   bool
}

func (n *recordingNotifier) Send(_ context.Context, ev domain.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return !n.fail
}

func (n *recordingNotifier) kinds(kind domain.EventKind) []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []domain.Event
	for _, ev := range n.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func priced(symbol string, price float64) domain.TokenQuote {
	return domain.NewOkQuote(symbol, domain.TokenData{Name: symbol, Price: &price})
}

func newTestMonitor(t *testing.T, threshold float64, batches ...[]domain.TokenQuote) (*Monitor, *recordingNotifier) {
	t.Helper()

	n := &recordingNotifier{}
	m, err := NewMonitor(&scriptedProvider{batches: batches}, n, NewScheduler(logger.Nop()), logger.Nop(), Config{
		Threshold:      threshold,
		CheckInterval:  time.Hour,
		DigestInterval: time.Hour,
	})
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC) }
	return m, n
}

func TestMonitor_ThresholdSequence(t *testing.T) {
	batches := [][]domain.TokenQuote{
		{priced("X", 10)},
		{priced("X", 10.5)},
		{priced("X", 12)},
	}

	tests := []struct {
		name      string
		threshold float64
		want      []string
	}{
		{"boundary_inclusive", 5, []string{"+5.00%", "+14.29%"}},
		{"above_first_step", 6, []string{"+14.29%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, n := newTestMonitor(t, tt.threshold, batches...)

			first := m.Check(context.Background())
			assert.Zero(t, first.Alerts, "cold start never alerts")
			m.Check(context.Background())
			m.Check(context.Background())

			alerts := n.kinds(domain.EventPriceAlert)
			require.Len(t, alerts, len(tt.want))
			for i, ev := range alerts {
				assert.Equal(t, "X", ev.Symbol)
				assert.Contains(t, ev.Text, tt.want[i])
			}
		})
	}
}

func TestMonitor_ColdStartSuppressesNewTokens(t *testing.T) {
	m, n := newTestMonitor(t, 5,
		[]domain.TokenQuote{priced("A", 1), priced("B", 2), priced("C", 3)},
		[]domain.TokenQuote{priced("A", 1), priced("B", 2), priced("C", 3), priced("D", 4)},
	)

	assert.Equal(t, StateColdStart, m.Stats().State)
	m.Check(context.Background())
	assert.Equal(t, StateRunning, m.Stats().State)
	assert.Empty(t, n.kinds(domain.EventNewToken))

	res := m.Check(context.Background())
	assert.Equal(t, 1, res.NewTokens)

	newTokens := n.kinds(domain.EventNewToken)
	require.Len(t, newTokens, 1)
	assert.Equal(t, "D", newTokens[0].Symbol)
	assert.Equal(t, []string{"A", "B", "C", "D"}, m.Stats().KnownTokens)
}

func TestMonitor_ErrQuotesAreExcluded(t *testing.T) {
	m, n := newTestMonitor(t, 5,
		[]domain.TokenQuote{priced("A", 10), domain.NewErrQuote("B", "rpc timeout")},
		[]domain.TokenQuote{domain.NewErrQuote("A", "rpc timeout"), domain.NewErrQuote("B", "rpc timeout")},
		[]domain.TokenQuote{priced("A", 20), priced("B", 5)},
	)

	res := m.Check(context.Background())
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"A"}, m.Stats().KnownTokens)

	res = m.Check(context.Background())
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Alerts)

	// B recovers and was never seen before, so it is new. A moves +100%
	// against the last price recorded before the failed cycle.
	res = m.Check(context.Background())
	assert.Equal(t, 1, res.NewTokens)
	assert.Equal(t, 1, res.Alerts)
	assert.Equal(t, "B", n.kinds(domain.EventNewToken)[0].Symbol)
	assert.Contains(t, n.kinds(domain.EventPriceAlert)[0].Text, "+100.00%")
}

func TestMonitor_UnpricedTokensNeverAlert(t *testing.T) {
	m, n := newTestMonitor(t, 1,
		[]domain.TokenQuote{priced("A", 10)},
		[]domain.TokenQuote{domain.NewOkQuote("A", domain.TokenData{Name: "A"})},
		[]domain.TokenQuote{priced("A", 10)},
	)

	m.Check(context.Background())
	m.Check(context.Background())
	m.Check(context.Background())

	assert.Empty(t, n.kinds(domain.EventPriceAlert))
}

func TestMonitor_NotifierFailureIsSwallowed(t *testing.T) {
	m, n := newTestMonitor(t, 5,
		[]domain.TokenQuote{priced("A", 10)},
		[]domain.TokenQuote{priced("A", 20)},
		[]domain.TokenQuote{priced("A", 40)},
	)
	n.fail = true

	m.Check(context.Background())
	m.Check(context.Background())
	res := m.Check(context.Background())

	assert.Equal(t, 1, res.Alerts, "history advances even when delivery fails")
	stats := m.Stats()
	assert.Equal(t, 0, stats.Sent)
	assert.Equal(t, 2, stats.SendFailed)
	assert.Equal(t, 3, stats.Checks)
}

func TestMonitor_DigestReadsButDoesNotMutate(t *testing.T) {
	m, n := newTestMonitor(t, 5,
		[]domain.TokenQuote{priced("A", 10)},
		[]domain.TokenQuote{priced("A", 12), priced("B", 1)},
		[]domain.TokenQuote{priced("A", 12), priced("B", 1)},
	)

	m.Check(context.Background())
	require.True(t, m.Digest(context.Background()))

	digests := n.kinds(domain.EventDigest)
	require.Len(t, digests, 1)
	assert.Contains(t, digests[0].Text, "<b>A</b>: 12.00 sats ↗️ +20.0%")
	assert.Equal(t, []string{"A"}, m.Stats().KnownTokens, "digest must not add tokens")

	res := m.Check(context.Background())
	assert.Equal(t, 1, res.NewTokens)
	assert.Equal(t, 1, res.Alerts, "digest must not overwrite history")
}

func TestMonitor_DigestWithoutPricesSendsNothing(t *testing.T) {
	m, n := newTestMonitor(t, 5, []domain.TokenQuote{domain.NewErrQuote("A", "down")})

	assert.False(t, m.Digest(context.Background()))
	assert.Empty(t, n.events)
}

func TestMonitor_RunOnce(t *testing.T) {
	m, n := newTestMonitor(t, 5, []domain.TokenQuote{priced("A", 10)})

	res := m.RunOnce(context.Background())
	assert.Equal(t, 1, res.Quotes)
	require.Len(t, n.events, 1)
	assert.Equal(t, domain.EventDigest, n.events[0].Kind)
}

func TestMonitor_StartSendsStartupCheckAndDigest(t *testing.T) {
	m, n := newTestMonitor(t, 5, []domain.TokenQuote{priced("A", 10)})

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	require.Len(t, n.events, 2)
	assert.Equal(t, domain.EventStartup, n.events[0].Kind)
	assert.Contains(t, n.events[0].Text, "• Price threshold: 5%")
	assert.Equal(t, domain.EventDigest, n.events[1].Kind)
	assert.Equal(t, StateRunning, m.Stats().State)
}

func TestMonitor_StartRejectsZeroInterval(t *testing.T) {
	m, n := newTestMonitor(t, 5, []domain.TokenQuote{priced("A", 10)})
	m.cfg.DigestInterval = 0

	err := m.Start(context.Background())
	assert.True(t, apperror.IsCode(err, apperror.CodeSchedulerJobInvalid))
	assert.Empty(t, n.events, "nothing is sent before the intervals are checked")
	assert.Empty(t, m.scheduler.cron.Entries())
	assert.Equal(t, StateColdStart, m.Stats().State)
}
