package stock

import (
	"io"
	"log/slog"
	"testing"

	"github.com/merchkit/orderflow/internal/config"
)

func TestNewClientFallsBackToNoop(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: &config.Config{}, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(NoopClient); !ok {
		t.Fatalf("expected noop client, got %T", client)
	}
}

func TestNewClientUsesConfig(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: &config.Config{StockAddress: "http://example.com"}, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(*HTTPClient); !ok {
		t.Fatalf("expected http client, got %T", client)
	}
}
