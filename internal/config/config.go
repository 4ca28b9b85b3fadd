package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the gateway.
type Config struct {
	HTTPPort      string
	Gateway       GatewayConfig
	Providers     ProvidersConfig
	Database      DatabaseConfig
	EncryptionKey string
	Cache         CacheConfig
	Redis         RedisConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	AppProxy      AppProxyConfig
	Attribution   AttributionConfig
}

// GatewayConfig holds settings for the proxy surface
type GatewayConfig struct {
	PathPrefix string // e.g. "/ai-gateway"
	PublicURL  string // address external processes use to reach this server
	// DefaultConfigID is the provider config preferred when a chat request
	// names no known model and by `gateway select` capability fallback.
	DefaultConfigID string
	FanOutLimit     int
	MaxBodyBytes    int64
	// EnvFile receives the SDK env contract of the serving process.
	EnvFile string
}

// ProvidersConfig holds provider-config source settings
type ProvidersConfig struct {
	File           string        // YAML file with provider configs
	ReloadInterval time.Duration // How often to reload provider configs from their source
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// CacheConfig holds the outbound JSON cache settings
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// RedisConfig holds Redis connection settings. An empty Address disables Redis.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	KeyPrefix    string
}

// LoggingConfig holds structured logger settings
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// ObservabilityConfig selects where unmatched routes and exceptions are reported
type ObservabilityConfig struct {
	Sink     string // log, redis or none
	QueueKey string
	MaxSize  int64
}

// AppProxyConfig holds the host application proxy settings
type AppProxyConfig struct {
	Target       string // empty disables the proxy
	InjectScript string // HTML inserted before </head>
}

// AttributionConfig holds the headers sent to aggregator providers
type AttributionConfig struct {
	Referer string
	Title   string
}

const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkNone  = "none"
)

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := getEnvString("HTTP_PORT", "8080")

	cfg := &Config{
		HTTPPort: port,
		Gateway: GatewayConfig{
			PathPrefix:      normalizePrefix(getEnvString("GATEWAY_PATH_PREFIX", "/ai-gateway")),
			PublicURL:       strings.TrimSuffix(getEnvString("GATEWAY_PUBLIC_URL", "http://localhost:"+port), "/"),
			DefaultConfigID: getEnvString("DEFAULT_PROVIDER_CONFIG_ID", ""),
			FanOutLimit:     getEnvInt("FANOUT_LIMIT", 10),
			MaxBodyBytes:    getEnvInt64("MAX_BODY_BYTES", 32<<20), // default 32 MB
			EnvFile:         getEnvString("GATEWAY_ENV_FILE", ""),
		},
		Providers: ProvidersConfig{
			File:           getEnvString("PROVIDERS_FILE", ""),
			ReloadInterval: getEnvDuration("PROVIDER_RELOAD_INTERVAL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			URL:             getEnvString("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		EncryptionKey: getEnvString("ENCRYPTION_KEY", ""),
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 512),
			TTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", ""),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			KeyPrefix:    getEnvString("REDIS_KEY_PREFIX", "gateway:fetch:"),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "console"),
		},
		Observability: ObservabilityConfig{
			Sink:     getEnvString("OBSERVABILITY_SINK", SinkLog),
			QueueKey: getEnvString("OBSERVABILITY_QUEUE_KEY", "gateway:events"),
			MaxSize:  getEnvInt64("OBSERVABILITY_QUEUE_MAX_SIZE", 10000),
		},
		AppProxy: AppProxyConfig{
			Target:       getEnvString("APP_PROXY_TARGET", ""),
			InjectScript: getEnvString("APP_PROXY_INJECT_SCRIPT", ""),
		},
		Attribution: AttributionConfig{
			Referer: getEnvString("ATTRIBUTION_REFERER", ""),
			Title:   getEnvString("ATTRIBUTION_TITLE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Providers.File == "" && c.Database.URL == "" {
		return fmt.Errorf("either PROVIDERS_FILE or DATABASE_URL is required")
	}
	if c.Database.URL != "" && c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required when DATABASE_URL is set")
	}
	switch c.Observability.Sink {
	case SinkLog, SinkNone:
	case SinkRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("OBSERVABILITY_SINK=redis requires REDIS_ADDRESS")
		}
	default:
		return fmt.Errorf("unknown OBSERVABILITY_SINK %q", c.Observability.Sink)
	}
	return nil
}

// GatewayBaseURL is the public address of the proxy surface, without a
// trailing slash.
func (c *Config) GatewayBaseURL() string {
	return c.Gateway.PublicURL + c.Gateway.PathPrefix
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
