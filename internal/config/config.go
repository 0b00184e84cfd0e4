// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	OPNet     OPNetConfig     `mapstructure:"opnet"`
	Tokens    []TokenConfig   `mapstructure:"tokens"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Feeds     FeedsConfig     `mapstructure:"feeds"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	TUIMode   bool            `mapstructure:"-"` // Set at runtime, not from config file
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// OPNetConfig holds OP_NET node configuration.
type OPNetConfig struct {
	RPCURL           string        `mapstructure:"rpc_url"`
	Network          string        `mapstructure:"network"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	HeadPollInterval time.Duration `mapstructure:"head_poll_interval"`
}

// TokenConfig describes one tracked OP20 token.
type TokenConfig struct {
	Key        string `mapstructure:"key"`
	Address    string `mapstructure:"address"`     // bech32 p2op address, display only
	ContractID string `mapstructure:"contract_id"` // 32-byte hex contract id
	PoolID     string `mapstructure:"pool_id"`     // 32-byte hex MotoSwap pool id, optional
	Decimals   uint8  `mapstructure:"decimals"`
}

// AlertsConfig holds alert monitor settings. Intervals are whole seconds in
// the environment, as the original bot read them.
type AlertsConfig struct {
	Threshold      float64 `mapstructure:"threshold"`
	Interval       int     `mapstructure:"interval"`
	StatusInterval int     `mapstructure:"status_interval"`
}

// CheckInterval returns the poll interval.
func (c AlertsConfig) CheckInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// DigestInterval returns the status digest interval.
func (c AlertsConfig) DigestInterval() time.Duration {
	return time.Duration(c.StatusInterval) * time.Second
}

// TelegramConfig holds bot credentials.
type TelegramConfig struct {
	BotToken          string `mapstructure:"bot_token"`
	ChatID            int64  `mapstructure:"chat_id"`
	APIEndpoint       string `mapstructure:"api_endpoint"`
	MessagesPerMinute int    `mapstructure:"messages_per_minute"`
}

// Enabled reports whether both token and chat id are set.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

// FeedsConfig holds the spot price feed settings.
type FeedsConfig struct {
	BTCInterval   time.Duration `mapstructure:"btc_interval"`
	FloorInterval time.Duration `mapstructure:"floor_interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CoinGeckoURL  string        `mapstructure:"coingecko_url"`
	MagicEdenURL  string        `mapstructure:"magiceden_url"`
	Collection    string        `mapstructure:"collection"`
}

// ServerConfig holds the status server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	TraceProvider  string `mapstructure:"trace_provider"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// DefaultTokens are the OP_NET regtest tokens tracked out of the box.
func DefaultTokens() []TokenConfig {
	return []TokenConfig{
		{
			Key:        "MOTO",
			Address:    "opr1sqp5pkzs9w8ktx020jymxvs05ekc7jahl45r5t9pz",
			ContractID: "0x0a6732489a31e6de07917a28ff7df311fc5f98f6e1664943ac1c3fe7893bdab5",
			PoolID:     "0x1c95032e05257bb66e71434b82440801983069055e89498479b9ebfa3442a336",
			Decimals:   18,
		},
		{
			Key:        "PILL",
			Address:    "opr1sqq2quumshz8tvr78n3f69fqxsxkqjycc8yz9vzyg",
			ContractID: "0xfb7df2f08d8042d4df0506c0d4cee3cfa5f2d7b02ef01ec76dd699551393a438",
			PoolID:     "0xc81087dd127d3d3fed8f198b3da6f36064ca359d3179ef6fa61bb61ddb1b5bfa",
			Decimals:   18,
		},
	}
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("OPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Tokens) == 0 {
		cfg.Tokens = DefaultTokens()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "OPT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "OPT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "OPT_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_file", "OPT_LOG_FILE")

	// OP_NET
	v.BindEnv("opnet.rpc_url", "OPT_RPC_URL", "OPNET_RPC_URL")
	v.BindEnv("opnet.network", "OPT_NETWORK")
	v.BindEnv("opnet.request_timeout", "OPT_RPC_TIMEOUT")

	// Alerts, same names the original bot used
	v.BindEnv("alerts.threshold", "OPT_ALERT_THRESHOLD", "ALERT_THRESHOLD")
	v.BindEnv("alerts.interval", "OPT_ALERT_INTERVAL", "ALERT_INTERVAL")
	v.BindEnv("alerts.status_interval", "OPT_STATUS_INTERVAL", "STATUS_INTERVAL")

	// Telegram
	v.BindEnv("telegram.bot_token", "OPT_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "OPT_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")

	// Server
	v.BindEnv("server.port", "OPT_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "OPT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "OPT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "OPT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "OPT_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "optrack")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "")

	// OP_NET defaults
	v.SetDefault("opnet.rpc_url", "https://regtest.opnet.org")
	v.SetDefault("opnet.network", "regtest")
	v.SetDefault("opnet.request_timeout", "10s")
	v.SetDefault("opnet.head_poll_interval", "30s")

	// Alert defaults
	v.SetDefault("alerts.threshold", 5)
	v.SetDefault("alerts.interval", 300)
	v.SetDefault("alerts.status_interval", 3600)

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.api_endpoint", "")
	v.SetDefault("telegram.messages_per_minute", 20)

	// Feed defaults
	v.SetDefault("feeds.btc_interval", "30s")
	v.SetDefault("feeds.floor_interval", "60s")
	v.SetDefault("feeds.timeout", "10s")
	v.SetDefault("feeds.coingecko_url", "https://api.coingecko.com")
	v.SetDefault("feeds.magiceden_url", "https://api-mainnet.magiceden.dev")
	v.SetDefault("feeds.collection", "motocats")

	// Server defaults
	v.SetDefault("server.port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.service_name", "optrack")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.OPNet.RPCURL == "" {
		return fmt.Errorf("opnet.rpc_url is required")
	}
	if c.OPNet.RequestTimeout <= 0 {
		return fmt.Errorf("opnet.request_timeout must be > 0, got %s", c.OPNet.RequestTimeout)
	}
	if c.OPNet.HeadPollInterval <= 0 {
		return fmt.Errorf("opnet.head_poll_interval must be > 0, got %s", c.OPNet.HeadPollInterval)
	}
	if c.Alerts.Threshold < 0 {
		return fmt.Errorf("alerts.threshold must be >= 0, got %v", c.Alerts.Threshold)
	}
	if c.Alerts.Interval <= 0 {
		return fmt.Errorf("alerts.interval must be > 0, got %d", c.Alerts.Interval)
	}
	if c.Alerts.StatusInterval <= 0 {
		return fmt.Errorf("alerts.status_interval must be > 0, got %d", c.Alerts.StatusInterval)
	}
	if c.Feeds.BTCInterval <= 0 || c.Feeds.FloorInterval <= 0 {
		return fmt.Errorf("feed intervals must be > 0")
	}

	seen := make(map[string]bool, len(c.Tokens))
	contracts := make(map[string]string, len(c.Tokens))
	for _, t := range c.Tokens {
		if t.Key == "" {
			return fmt.Errorf("token key is required")
		}
		if seen[t.Key] {
			return fmt.Errorf("duplicate token key %s", t.Key)
		}
		seen[t.Key] = true

		if !isHash(t.ContractID) {
			return fmt.Errorf("invalid contract_id for %s: %s", t.Key, t.ContractID)
		}
		id := strings.ToLower(t.ContractID)
		if other, dup := contracts[id]; dup {
			return fmt.Errorf("tokens %s and %s share contract_id %s", other, t.Key, t.ContractID)
		}
		contracts[id] = t.Key
		if t.PoolID != "" && !isHash(t.PoolID) {
			return fmt.Errorf("invalid pool_id for %s: %s", t.Key, t.PoolID)
		}
	}
	return nil
}

// isHash reports whether s is 0x-prefixed hex of exactly 32 bytes.
func isHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == 32
}
