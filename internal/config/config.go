// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Pool        PoolConfig        `mapstructure:"pool"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Feed        FeedConfig        `mapstructure:"feed"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// PoolConfig holds the pool's economic parameters.
type PoolConfig struct {
	FeeRate          uint64 `mapstructure:"fee_rate"` // per-mille, 0..999
	Asset1Symbol     string `mapstructure:"asset1_symbol"`
	Asset2Symbol     string `mapstructure:"asset2_symbol"`
	DepositPerMinute int    `mapstructure:"deposit_per_minute"` // faucet credits per minute, 0 = unlimited
	Operator         string `mapstructure:"operator"`           // optional, hex address for demo/seed flows
	TUIMode          bool   `mapstructure:"-"`                  // Set at runtime, not from config file
}

// OperatorAddress returns the operator as common.Address.
func (c *PoolConfig) OperatorAddress() common.Address {
	return common.HexToAddress(c.Operator)
}

// PersistenceConfig holds snapshot storage configuration.
type PersistenceConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "memory"
	Path    string `mapstructure:"path"`
}

// FeedConfig holds the WebSocket event feed configuration.
type FeedConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	ListenAddr   string        `mapstructure:"listen_addr"`
	Path         string        `mapstructure:"path"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
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
	v.SetEnvPrefix("POOL")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "POOL_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "POOL_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "POOL_LOG_LEVEL", "LOG_LEVEL")

	// Pool
	v.BindEnv("pool.fee_rate", "POOL_FEE_RATE")
	v.BindEnv("pool.asset1_symbol", "POOL_ASSET1_SYMBOL")
	v.BindEnv("pool.asset2_symbol", "POOL_ASSET2_SYMBOL")
	v.BindEnv("pool.deposit_per_minute", "POOL_DEPOSIT_PER_MINUTE")
	v.BindEnv("pool.operator", "POOL_OPERATOR")

	// Persistence
	v.BindEnv("persistence.backend", "POOL_PERSISTENCE_BACKEND")
	v.BindEnv("persistence.path", "POOL_PERSISTENCE_PATH")

	// Feed
	v.BindEnv("feed.enabled", "POOL_FEED_ENABLED")
	v.BindEnv("feed.listen_addr", "POOL_FEED_LISTEN_ADDR")

	// Telemetry
	v.BindEnv("telemetry.enabled", "POOL_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "POOL_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "POOL_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "swappool")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Pool defaults
	v.SetDefault("pool.fee_rate", 3) // 0.3%
	v.SetDefault("pool.asset1_symbol", "GOLD")
	v.SetDefault("pool.asset2_symbol", "SILVER")
	v.SetDefault("pool.deposit_per_minute", 0)

	// Persistence defaults
	v.SetDefault("persistence.backend", "file")
	v.SetDefault("persistence.path", "data/pool.json")

	// Feed defaults
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.listen_addr", ":8080")
	v.SetDefault("feed.path", "/feed")
	v.SetDefault("feed.send_buffer", 64)
	v.SetDefault("feed.write_timeout", "5s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "swappool")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pool.FeeRate >= 1000 {
		return fmt.Errorf("pool.fee_rate must be below 1000 per-mille, got %d", c.Pool.FeeRate)
	}
	if c.Pool.Asset1Symbol == "" || c.Pool.Asset2Symbol == "" {
		return fmt.Errorf("pool.asset1_symbol and pool.asset2_symbol are required")
	}
	if c.Pool.Asset1Symbol == c.Pool.Asset2Symbol {
		return fmt.Errorf("pool assets must differ, both are %s", c.Pool.Asset1Symbol)
	}
	if c.Pool.Operator != "" && !common.IsHexAddress(c.Pool.Operator) {
		return fmt.Errorf("invalid pool.operator address: %s", c.Pool.Operator)
	}
	switch c.Persistence.Backend {
	case "file":
		if c.Persistence.Path == "" {
			return fmt.Errorf("persistence.path is required for the file backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown persistence.backend: %s", c.Persistence.Backend)
	}
	if c.Feed.Enabled && c.Feed.ListenAddr == "" {
		return fmt.Errorf("feed.listen_addr is required when the feed is enabled")
	}
	return nil
}
