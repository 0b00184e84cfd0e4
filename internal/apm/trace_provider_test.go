package apm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("x-honeycomb-team=abc, api-key = k ,broken,=v")
	assert.Equal(t, map[string]string{"x-honeycomb-team": "abc", "api-key": "k"}, got)
	assert.Empty(t, ParseHeaders(""))
}

func TestNewTraceProvider_DisabledIsNoop(t *testing.T) {
	tp, err := NewTraceProvider(config.TelemetryConfig{Enabled: false, TraceProvider: "zipkin"}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, emptyProvider{}, tp)
	assert.NoError(t, tp.Stop())

	tp, err = NewTraceProvider(config.TelemetryConfig{Enabled: true, TraceProvider: "none"}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, emptyProvider{}, tp)
}

func TestNewTraceProvider_UnknownProvider(t *testing.T) {
	_, err := NewTraceProvider(config.TelemetryConfig{Enabled: true, TraceProvider: "jaeger"}, logger.Nop())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConfigurationError))
}

func TestNewTraceProvider_Console(t *testing.T) {
	tp, err := NewTraceProvider(config.TelemetryConfig{Enabled: true, TraceProvider: "console", ServiceName: "optrack"}, logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}
