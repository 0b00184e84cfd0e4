package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/internal/logger"
)

type scriptedHeads struct {
	mu      sync.Mutex
	heights []uint64
	errs    []error
	i       int
}

func (s *scriptedHeads) Call(context.Context, common.Hash, []byte) ([]byte, error) {
	return nil, errors.New("not used")
}

func (s *scriptedHeads) BlockNumber(context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.i
	if i >= len(s.heights) {
		i = len(s.heights) - 1
	}
	s.i++
	return s.heights[i], s.errs[i]
}

func TestChainService_TracksHead(t *testing.T) {
	down := errors.New("node down")
	caller := &scriptedHeads{
		heights: []uint64{0, 100, 100, 0, 101},
		errs:    []error{down, nil, nil, down, nil},
	}
	svc, err := NewChainService(caller, time.Hour, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	svc.poll(ctx)
	assert.Equal(t, domain.StateDisconnected, svc.Status().State)
	assert.Equal(t, 1, svc.Status().Failures)

	svc.poll(ctx)
	assert.Equal(t, domain.StateConnected, svc.Status().State)
	assert.Equal(t, uint64(100), svc.Status().LastHeight)
	assert.Zero(t, svc.Status().Failures)

	svc.poll(ctx)
	svc.poll(ctx)
	assert.Equal(t, domain.StateReconnecting, svc.Status().State, "known head then failure")

	svc.poll(ctx)
	assert.Equal(t, uint64(101), svc.Status().LastHeight)

	assert.Equal(t, uint64(100), <-svc.Heads())
	assert.Equal(t, uint64(101), <-svc.Heads(), "repeated heights are not re-delivered")
}

func TestChainService_StartStops(t *testing.T) {
	caller := &scriptedHeads{heights: []uint64{7}, errs: []error{nil}}
	svc, err := NewChainService(caller, time.Hour, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	assert.Equal(t, uint64(7), <-svc.Heads())
	cancel()
	svc.Wait()

	_, open := <-svc.Heads()
	assert.False(t, open)
	assert.Equal(t, domain.StateDisconnected, svc.Status().State)
}

func TestNewChainService_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewChainService(&scriptedHeads{}, 0, logger.Nop())
	assert.Error(t, err)
}
