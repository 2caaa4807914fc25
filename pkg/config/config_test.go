package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 10s
backend:
  type: clickhouse
engine:
  weights:
    cascade: 0.4
    vote: 0.3
    layered: 0.3
  home_advantage_boost: 0.1
clickhouse:
  host: localhost
  port: 9000
  database: matchcast
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.Type != "clickhouse" {
		t.Fatalf("backend = %s", cfg.Backend.Type)
	}
	if cfg.Engine.Weights.Cascade != 0.4 {
		t.Fatalf("cascade weight = %v", cfg.Engine.Weights.Cascade)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	body := `
environment: test
backend:
  type: postgres
engine:
  weights:
    cascade: 0.4
    vote: 0.3
    layered: 0.3
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	body := `
environment: test
backend:
  type: kafka
engine:
  weights:
    cascade: 0.5
    vote: 0.5
    layered: 0.3
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for weights not summing to 1")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.Type != "kafka" {
		t.Fatalf("backend = %s, want kafka", cfg.Backend.Type)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
}
