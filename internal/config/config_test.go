package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadRequiresDatabaseURI(t *testing.T) {
	_, err := load(nil, lookupFrom(map[string]string{
		"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
	}))
	if err == nil {
		t.Fatal("expected error for missing database URI")
	}
}

func TestLoadRequiresGatewayAddress(t *testing.T) {
	_, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI": "postgres://localhost/orders",
	}))
	if err == nil {
		t.Fatal("expected error for missing gateway address")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI":            "postgres://localhost/orders",
		"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != defaultRunAddress {
		t.Fatalf("unexpected run address: %s", cfg.RunAddress)
	}
	if cfg.EventPollInterval != defaultEventPollInterval {
		t.Fatalf("unexpected poll interval: %s", cfg.EventPollInterval)
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Fatalf("unexpected worker pool size: %d", cfg.WorkerPoolSize)
	}
	if cfg.UpdateRetries != defaultUpdateRetries {
		t.Fatalf("unexpected update retries: %d", cfg.UpdateRetries)
	}
	if cfg.CacheTTL != defaultCacheTTL {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	cfg, err := load(
		[]string{"-a", ":9090", "-poll-interval", "7s", "-update-retries", "5"},
		lookupFrom(map[string]string{
			"DATABASE_URI":            "postgres://localhost/orders",
			"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
			"RUN_ADDRESS":             ":8081",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != ":9090" {
		t.Fatalf("unexpected run address: %s", cfg.RunAddress)
	}
	if cfg.EventPollInterval != 7*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.EventPollInterval)
	}
	if cfg.UpdateRetries != 5 {
		t.Fatalf("unexpected update retries: %d", cfg.UpdateRetries)
	}
}

func TestLoadInvalidPollInterval(t *testing.T) {
	_, err := load([]string{"-poll-interval", "bogus"}, lookupFrom(map[string]string{
		"DATABASE_URI":            "postgres://localhost/orders",
		"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
	}))
	if err == nil {
		t.Fatal("expected error for invalid poll interval")
	}
}

func TestLoadJWTSecretFile(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretFile, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}

	cfg, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI":            "postgres://localhost/orders",
		"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
		"JWT_SECRET_FILE":         secretFile,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "from-file" {
		t.Fatalf("unexpected jwt secret: %q", cfg.JWTSecret)
	}
}

func TestLoadNegativeValuesFallBack(t *testing.T) {
	cfg, err := load([]string{"-worker-pool", "-1", "-poll-batch", "0"}, lookupFrom(map[string]string{
		"DATABASE_URI":            "postgres://localhost/orders",
		"PAYMENT_GATEWAY_ADDRESS": "http://gateway",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Fatalf("unexpected worker pool size: %d", cfg.WorkerPoolSize)
	}
	if cfg.MaxEventsBatch != defaultMaxEventsBatch {
		t.Fatalf("unexpected batch size: %d", cfg.MaxEventsBatch)
	}
}
