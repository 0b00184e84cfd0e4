package metrics

import (
	"strconv"

	"github.com/fd1az/optrack/internal/apm"
	"github.com/fd1az/optrack/internal/config"
)

type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "customOtelCollector"
	InsecureOtel                = false
	SecureOtel                  = true
)

func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	provider := ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}

	return provider
}

// FromTelemetry maps telemetry settings to provider options. Prometheus is
// always attached so the scrape handler has data; an OTLP endpoint adds a
// collector push.
func FromTelemetry(cfg config.TelemetryConfig) []OptionFn {
	opts := []OptionFn{
		WithServiceName(cfg.ServiceName),
		WithProviderConfig(ProviderCfg{Provider: PrometheusProvider}),
	}
	if cfg.Enabled && cfg.OTLPEndpoint != "" && cfg.TraceProvider != string(apm.ZipkinProvider) {
		opts = append(opts, WithProviderConfig(
			NewOtelCollectorConfig(cfg.OTLPEndpoint, apm.ParseHeaders(cfg.OTLPHeaders), SecureOtel)))
	}
	return opts
}

type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

type OptionFn func(config Config) Config

func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)

		return config
	}
}

type PromServerConfig struct {
	port string
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

func WithPort(port int) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = strconv.Itoa(port)
		return config
	}
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName

		return config
	}
}
