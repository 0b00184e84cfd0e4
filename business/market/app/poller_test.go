package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/internal/logger"
)

type scriptedFeed struct {
	mu     sync.Mutex
	kind   domain.Kind
	values []float64
	errs   []error
	calls  int
}

func (f *scriptedFeed) Kind() domain.Kind { return f.kind }

func (f *scriptedFeed) Fetch(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.values) {
		i = len(f.values) - 1
	}
	return f.values[i], f.errs[i]
}

func TestPoller_KeepsLastGoodValue(t *testing.T) {
	feed := &scriptedFeed{
		kind:   domain.KindBTCUSD,
		values: []float64{97_000, 0, 98_000},
		errs:   []error{nil, errors.New("timeout"), nil},
	}

	p, err := NewPoller(logger.Nop())
	require.NoError(t, err)

	var got []float64
	p.Subscribe(func(q domain.Quote) { got = append(got, q.Value) })

	ctx := context.Background()
	p.Poll(ctx, feed)
	p.Poll(ctx, feed)

	q, ok := p.Latest(domain.KindBTCUSD)
	require.True(t, ok)
	assert.Equal(t, 97_000.0, q.Value, "failure must keep the previous value")

	p.Poll(ctx, feed)
	q, _ = p.Latest(domain.KindBTCUSD)
	assert.Equal(t, 98_000.0, q.Value)
	assert.Equal(t, []float64{97_000, 98_000}, got, "failures are not published")
}

func TestPoller_SubscribeReplaysKnownValues(t *testing.T) {
	p, err := NewPoller(logger.Nop())
	require.NoError(t, err)

	p.Poll(context.Background(), &scriptedFeed{
		kind:   domain.KindFloorSats,
		values: []float64{344_000},
		errs:   []error{nil},
	})

	var got domain.Quote
	p.Subscribe(func(q domain.Quote) { got = q })
	assert.Equal(t, domain.KindFloorSats, got.Kind)
	assert.Equal(t, 344_000.0, got.Value)
}

func TestPoller_StartFetchesImmediately(t *testing.T) {
	feed := &scriptedFeed{
		kind:   domain.KindBTCUSD,
		values: []float64{100_000},
		errs:   []error{nil},
	}

	p, err := NewPoller(logger.Nop(), Schedule{Feed: feed, Interval: time.Hour})
	require.NoError(t, err)

	updated := make(chan struct{}, 1)
	p.Subscribe(func(domain.Quote) {
		select {
		case updated <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch did not happen before the first tick")
	}

	cancel()
	p.Wait()
	_, ok := p.Latest(domain.KindBTCUSD)
	assert.True(t, ok)
}
