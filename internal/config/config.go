package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	GatewayAddress    string
	NotifyAddress     string
	StockAddress      string
	CatalogAddress    string
	RedisAddress      string
	JWTSecret         string
	EventPollInterval time.Duration
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration
	MaxEventsBatch    int
	UpdateRetries     int
	CacheTTL          time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultEventPollInterval = 2 * time.Second
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultMaxEventsBatch    = 32
	defaultUpdateRetries     = 3
	defaultCacheTTL          = 5 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:    getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		NotifyAddress:     getString(lookup, "NOTIFY_ADDRESS", ""),
		StockAddress:      getString(lookup, "STOCK_ADDRESS", ""),
		CatalogAddress:    getString(lookup, "CATALOG_ADDRESS", ""),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		EventPollInterval: getDuration(lookup, "EVENT_POLL_INTERVAL", defaultEventPollInterval),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxEventsBatch:    getInt(lookup, "POLL_BATCH_SIZE", defaultMaxEventsBatch),
		UpdateRetries:     getInt(lookup, "UPDATE_RETRIES", defaultUpdateRetries),
		CacheTTL:          getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
	}

	fs := flag.NewFlagSet("orderflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.EventPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.NotifyAddress, "notify", cfg.NotifyAddress, "Notification service base URL")
	fs.StringVar(&cfg.StockAddress, "stock", cfg.StockAddress, "Stock reservation service base URL")
	fs.StringVar(&cfg.CatalogAddress, "catalog", cfg.CatalogAddress, "Catalog service base URL")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the order read cache")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent event dispatch workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxEventsBatch, "poll-batch", cfg.MaxEventsBatch, "Maximum events per dispatch batch")
	fs.IntVar(&cfg.UpdateRetries, "update-retries", cfg.UpdateRetries, "Optimistic update retry bound")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.EventPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxEventsBatch <= 0 {
		cfg.MaxEventsBatch = defaultMaxEventsBatch
	}

	if cfg.UpdateRetries <= 0 {
		cfg.UpdateRetries = defaultUpdateRetries
	}

	if cfg.EventPollInterval <= 0 {
		cfg.EventPollInterval = defaultEventPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
