package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIBase {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Poll.Interval != DefaultPollInterval || cfg.Poll.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("poll = %+v", cfg.Poll)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MQTT.Broker != "" || len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("publishers should be disabled by default: %+v %+v", cfg.MQTT, cfg.Kafka)
	}
}

func TestLoad_FileValues(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
api:
  base_url: http://sensors.local:5000/
  timeout: 3s
poll:
  interval: 500ms
  history_limit: 10
kafka:
  brokers: ["k1:9092", "k2:9092"]
sim:
  null_probability: 0.25
  tick: 1s
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.API.BaseURL != "http://sensors.local:5000" {
		t.Errorf("trailing slash not trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second || cfg.Poll.Interval != 500*time.Millisecond || cfg.Poll.HistoryLimit != 10 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Sim.NullProbability != 0.25 || cfg.Sim.Tick != time.Second || cfg.Sim.Port != DefaultSimPort {
		t.Errorf("sim = %+v", cfg.Sim)
	}
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("SENSOR_API_BASE", "http://pi.local:5000")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://pi.local:5000" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
}

func TestLoad_InvalidHistoryLimit(t *testing.T) {
	dir := writeConfig(t, "poll:\n  history_limit: 0\n")
	_, err := Load(dir)
	if !errors.Is(err, errBadHistory) {
		t.Fatalf("expected errBadHistory, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	ok := Config{
		API:  APIConfig{BaseURL: "http://x", Timeout: time.Second},
		Poll: PollConfig{Interval: time.Second, HistoryLimit: 1},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	bad := ok
	bad.Poll.Interval = 0
	if !errors.Is(bad.Validate(), errBadInterval) {
		t.Fatalf("expected errBadInterval")
	}
	bad = ok
	bad.API.BaseURL = ""
	if !errors.Is(bad.Validate(), errNoBaseURL) {
		t.Fatalf("expected errNoBaseURL")
	}
	bad = ok
	bad.API.Timeout = 0
	if !errors.Is(bad.Validate(), errBadTimeout) {
		t.Fatalf("expected errBadTimeout")
	}
}

func TestLoad_EnvKafkaBrokersCommaSeparated(t *testing.T) {
	t.Setenv("DASHBOARD_KAFKA_BROKERS", "k1:9092, k2:9092,")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers = %q", cfg.Kafka.Brokers)
	}
}
