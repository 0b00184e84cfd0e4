package monolith

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/internal/asset"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/logger"
)

type recordingModule struct {
	name     string
	calls    *[]string
	startErr error
}

func (m recordingModule) RegisterServices(c di.Container) error {
	*m.calls = append(*m.calls, "register "+m.name)
	return nil
}

func (m recordingModule) Startup(_ context.Context, mono Monolith) error {
	*m.calls = append(*m.calls, "start "+m.name)
	return m.startErr
}

func testConfig() *config.Config {
	return &config.Config{Tokens: config.DefaultTokens()}
}

func TestNewWithClient_RegistersGlobals(t *testing.T) {
	cfg := testConfig()
	mono := NewWithClient(cfg, logger.Nop(), nil)

	sr := mono.Services()
	assert.Same(t, cfg, sr.Get("config").(*config.Config))
	assert.NotNil(t, sr.Get("logger"))

	reg := sr.Get("assetRegistry").(*asset.Registry)
	assert.Same(t, mono.AssetRegistry(), reg)
	assert.Equal(t, 2, reg.Count())
	assert.NoError(t, mono.Close())
}

func TestModules_RunInOrder(t *testing.T) {
	var calls []string
	mono := NewWithClient(testConfig(), logger.Nop(), nil)
	a := recordingModule{name: "chain", calls: &calls}
	b := recordingModule{name: "alerting", calls: &calls}

	require.NoError(t, mono.RegisterModules(a, b))
	require.NoError(t, mono.StartModules(context.Background(), a, b))

	assert.Equal(t, []string{"register chain", "register alerting", "start chain", "start alerting"}, calls)
}

func TestStartModules_StopsAtFirstError(t *testing.T) {
	var calls []string
	mono := NewWithClient(testConfig(), logger.Nop(), nil)
	boom := errors.New("boom")

	err := mono.StartModules(context.Background(),
		recordingModule{name: "a", calls: &calls, startErr: boom},
		recordingModule{name: "b", calls: &calls},
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start a"}, calls)
}
