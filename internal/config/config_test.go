package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OUTBOUND_WEBHOOK_URL", "https://receiver.example.com/hook")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreType != StoreMemory {
		t.Errorf("port/store = %s/%s, want 8080/memory", cfg.Port, cfg.StoreType)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 15s", cfg.UpstreamTimeout)
	}
	if cfg.OutboundTimeout != 30*time.Second {
		t.Errorf("OutboundTimeout = %v, want 30s", cfg.OutboundTimeout)
	}
	if cfg.RelayConcurrency != 3 || cfg.RelayInterval != 0 || cfg.OutboundMaxRetries != 0 {
		t.Errorf("relay settings = %d/%v/%d, want 3/0s/0",
			cfg.RelayConcurrency, cfg.RelayInterval, cfg.OutboundMaxRetries)
	}
	if cfg.RelayNumOfRows != 10 {
		t.Errorf("RelayNumOfRows = %d, want 10", cfg.RelayNumOfRows)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OUTBOUND_WEBHOOK_URL", "http://localhost:9000/hook")
	t.Setenv("OUTBOUND_API_KEY", "secret")
	t.Setenv("UPSTREAM_SERVICE_KEY", "svc")
	t.Setenv("UPSTREAM_RATE_PER_SECOND", "2.5")
	t.Setenv("RELAY_CONCURRENCY", "1")
	t.Setenv("RELAY_INTERVAL_SECONDS", "600")
	t.Setenv("STORE_TYPE", "mongo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.OutboundAPIKey != "secret" || cfg.UpstreamServiceKey != "svc" {
		t.Errorf("keys = %q/%q", cfg.OutboundAPIKey, cfg.UpstreamServiceKey)
	}
	if cfg.UpstreamRatePerSecond != 2.5 {
		t.Errorf("UpstreamRatePerSecond = %v, want 2.5", cfg.UpstreamRatePerSecond)
	}
	if cfg.RelayConcurrency != 1 || cfg.RelayInterval != 10*time.Minute {
		t.Errorf("concurrency/interval = %d/%v, want 1/10m", cfg.RelayConcurrency, cfg.RelayInterval)
	}
	if cfg.StoreType != StoreMongo {
		t.Errorf("StoreType = %s, want mongo", cfg.StoreType)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing outbound url",
			env:     map[string]string{},
			wantMsg: "OUTBOUND_WEBHOOK_URL is required",
		},
		{
			name:    "relative outbound url",
			env:     map[string]string{"OUTBOUND_WEBHOOK_URL": "/hook"},
			wantMsg: "not an absolute http(s) url",
		},
		{
			name: "bad integer",
			env: map[string]string{
				"OUTBOUND_WEBHOOK_URL":     "https://receiver.example.com",
				"UPSTREAM_TIMEOUT_SECONDS": "fifteen",
			},
			wantMsg: "UPSTREAM_TIMEOUT_SECONDS",
		},
		{
			name: "zero concurrency",
			env: map[string]string{
				"OUTBOUND_WEBHOOK_URL": "https://receiver.example.com",
				"RELAY_CONCURRENCY":    "0",
			},
			wantMsg: "RELAY_CONCURRENCY",
		},
		{
			name: "unknown store",
			env: map[string]string{
				"OUTBOUND_WEBHOOK_URL": "https://receiver.example.com",
				"STORE_TYPE":           "redis",
			},
			wantMsg: "STORE_TYPE",
		},
		{
			name: "firestore in production without project",
			env: map[string]string{
				"OUTBOUND_WEBHOOK_URL": "https://receiver.example.com",
				"STORE_TYPE":           "firestore",
				"ENVIRONMENT":          "production",
			},
			wantMsg: "FIRESTORE_PROJECT_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OUTBOUND_WEBHOOK_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Load() error = %v, want ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}
