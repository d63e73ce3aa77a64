package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Log           LogConfig
	Batch         BatchConfig
	Invoice       InvoiceConfig
	Redis         RedisConfig
	WarehouseRemap map[string]string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// BatchConfig holds batch-processing configuration
type BatchConfig struct {
	// FanOutLimit bounds concurrent upstream fan-out across orders.
	FanOutLimit int
}

// InvoiceConfig holds invoice-assembly settings
type InvoiceConfig struct {
	Currency         string
	ExchangeRate     float64
	OutboundPrefixes []string // stock-out document-code prefixes
	InboundPrefixes  []string // stock-in document-code prefixes
}

// RedisConfig holds the optional Redis product-cache backend settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address for the Redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICING_ prefix (e.g., INVOICING_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("INVOICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Batch: BatchConfig{
			FanOutLimit: v.GetInt("batch.fan_out_limit"),
		},
		Invoice: InvoiceConfig{
			Currency:         v.GetString("invoice.currency"),
			ExchangeRate:     v.GetFloat64("invoice.exchange_rate"),
			OutboundPrefixes: v.GetStringSlice("invoice.outbound_prefixes"),
			InboundPrefixes:  v.GetStringSlice("invoice.inbound_prefixes"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		WarehouseRemap: v.GetStringMapString("warehouse_remap"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "invoicing")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("batch.fan_out_limit", 5)
	v.SetDefault("invoice.currency", "VND")
	v.SetDefault("invoice.exchange_rate", 1.0)
	v.SetDefault("invoice.outbound_prefixes", []string{"PX"})
	v.SetDefault("invoice.inbound_prefixes", []string{"PN"})
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Batch.FanOutLimit <= 0 {
		return fmt.Errorf("batch.fan_out_limit must be positive, got %d", c.Batch.FanOutLimit)
	}
	if c.Invoice.Currency == "" {
		return fmt.Errorf("invoice.currency must not be empty")
	}
	if c.Invoice.ExchangeRate <= 0 {
		return fmt.Errorf("invoice.exchange_rate must be positive, got %v", c.Invoice.ExchangeRate)
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis.host must be set when redis is enabled")
	}
	return nil
}
