package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"model_gateway/internal/catalog"
	"model_gateway/internal/config"
	"model_gateway/internal/fetch"
	"model_gateway/internal/logging"
	"model_gateway/internal/metrics"
	"model_gateway/internal/providers"
	"model_gateway/internal/resolver"
	"model_gateway/internal/storage"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Registry *providers.Registry
	Configs  providers.ConfigSource
	Resolver *resolver.Service
	Sink     logging.Sink
	Metrics  metrics.Metrics

	PathPrefix      string
	DefaultConfigID string
	MaxBodyBytes    int64
	Attribution     config.AttributionConfig

	// AppProxy serves the host application under /app/. Nil disables it.
	AppProxy http.Handler
	// Transport carries proxied vendor calls. Nil means http.DefaultTransport.
	Transport http.RoundTripper
	// HealthChecks run on every GET /health.
	HealthChecks []HealthCheck

	reloader     *providers.ReloadingSource
	localCache   *storage.LRUCache
	cacheCleanup time.Duration
	closers      []func() error
}

// HealthCheck probes one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewDependencies builds every service from cfg.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	d := &Dependencies{
		PathPrefix:      cfg.Gateway.PathPrefix,
		DefaultConfigID: cfg.Gateway.DefaultConfigID,
		MaxBodyBytes:    cfg.Gateway.MaxBodyBytes,
		Attribution:     cfg.Attribution,
	}

	promMetrics := metrics.NewPrometheusMetrics()
	d.Metrics = promMetrics

	// Initialize Redis client when configured; it backs the shared cache
	// and, optionally, the observability queue
	var redisClient *storage.RedisClient
	if cfg.Redis.Address != "" {
		redisCfg := storage.DefaultRedisConfig()
		redisCfg.Address = cfg.Redis.Address
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		client, err := storage.NewRedisClient(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		redisClient = client
		d.closers = append(d.closers, client.Close)
		d.HealthChecks = append(d.HealthChecks, HealthCheck{Name: "redis", Check: client.Health})
	}

	var cache storage.BodyCache
	if redisClient != nil {
		cache = storage.NewRedisCache(redisClient.Client(), cfg.Redis.KeyPrefix, cfg.Cache.TTL)
	} else {
		d.localCache = storage.NewLRUCache(cfg.Cache.Size, cfg.Cache.TTL)
		d.cacheCleanup = cfg.Cache.TTL
		cache = d.localCache
	}

	switch cfg.Observability.Sink {
	case config.SinkRedis:
		d.Sink = logging.NewRedisSink(redisClient.Client(), logging.RedisSinkConfig{
			QueueKey: cfg.Observability.QueueKey,
			MaxSize:  cfg.Observability.MaxSize,
		})
	case config.SinkNone:
		d.Sink = logging.NewNoopSink()
	default:
		d.Sink = logging.NewLoggerSink()
	}

	source, err := d.newConfigSource(cfg)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.reloader = providers.NewReloadingSource(source, cfg.Providers.ReloadInterval)
	d.Configs = d.reloader

	// Fail fast on a broken provider source
	if err := d.reloader.Refresh(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to load provider configs: %w", err)
	}

	d.Registry = providers.NewRegistry(fetch.NewClient(cache, promMetrics), catalog.NewBuilder())
	d.Resolver = resolver.NewService(d.Registry, resolver.Options{
		FanOutLimit: cfg.Gateway.FanOutLimit,
		Metrics:     promMetrics,
		Sink:        d.Sink,
	})

	if cfg.AppProxy.Target != "" {
		target, err := url.Parse(cfg.AppProxy.Target)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("invalid APP_PROXY_TARGET: %w", err)
		}
		d.AppProxy = NewAppProxy(target, d.PathPrefix+"/app", cfg.AppProxy.InjectScript)
	}

	return d, nil
}

func (d *Dependencies) newConfigSource(cfg *config.Config) (providers.ConfigSource, error) {
	if cfg.Providers.File != "" {
		return config.FileSource{Path: cfg.Providers.File}, nil
	}

	db, err := storage.NewDB(storage.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	d.closers = append(d.closers, db.Close)
	d.HealthChecks = append(d.HealthChecks, HealthCheck{Name: "database", Check: db.Health})

	encryption, err := storage.NewEncryptionFromHex(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	return storage.NewProviderConfigRepository(db, encryption), nil
}

// Start runs background work until ctx is cancelled.
func (d *Dependencies) Start(ctx context.Context) {
	if d.reloader != nil {
		go d.reloader.Run(ctx)
	}
	if d.localCache != nil {
		go d.localCache.RunCleanup(ctx, d.cacheCleanup)
	}
}

// Close releases database and Redis connections.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
