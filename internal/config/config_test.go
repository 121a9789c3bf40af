package config

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "PORT", "DATA_DIR", "STORE_PATH",
		"GOOGLE_JSON_PATH", "GOOGLE_CSV_PATH", "MS_JSON_PATH", "ICS_PATH",
		"REFRESH_SCHEDULE", "WEIGHTS_FILE", "METRICS_ENABLED", "METRICS_PATH",
		"REDIS_ADDR", "HTTP_SHUTDOWN_TIMEOUT", "GOOGLE_API_KEY",
		"GOOGLE_CALENDAR_ID", "FETCH_WINDOW_DAYS", "TOP_N_DEFAULT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr: expected :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir: expected data, got %q", cfg.DataDir)
	}
	if cfg.StorePath != "data/teampulse.json" {
		t.Errorf("StorePath: expected data/teampulse.json, got %q", cfg.StorePath)
	}
	if cfg.GoogleCSVPath != "data/google_calendar_events.csv" {
		t.Errorf("GoogleCSVPath: got %q", cfg.GoogleCSVPath)
	}
	if cfg.RefreshSchedule != "*/15 * * * *" {
		t.Errorf("RefreshSchedule: got %q", cfg.RefreshSchedule)
	}
	if cfg.MetricsPath != "/metrics" {
		t.Errorf("MetricsPath: expected /metrics, got %q", cfg.MetricsPath)
	}
	if cfg.HTTPShutdownTimeout != 10*time.Second {
		t.Errorf("HTTPShutdownTimeout: expected 10s, got %v", cfg.HTTPShutdownTimeout)
	}
	if cfg.FetchWindowDays != 60 {
		t.Errorf("FetchWindowDays: expected 60, got %d", cfg.FetchWindowDays)
	}
	if cfg.TopNDefault != 3 {
		t.Errorf("TopNDefault: expected 3, got %d", cfg.TopNDefault)
	}
	if cfg.ICSPath != "" {
		t.Errorf("ICSPath: expected empty, got %q", cfg.ICSPath)
	}
}

func TestLoad_DataDirPropagatesToFeedPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_DIR", "/var/lib/teampulse")

	cfg := Load()

	if cfg.StorePath != "/var/lib/teampulse/teampulse.json" {
		t.Errorf("StorePath: got %q", cfg.StorePath)
	}
	if cfg.MSJSONPath != "/var/lib/teampulse/microsoft_calendar_events.json" {
		t.Errorf("MSJSONPath: got %q", cfg.MSJSONPath)
	}
}

func TestLoad_ExplicitPathBeatsDataDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_DIR", "/var/lib/teampulse")
	t.Setenv("STORE_PATH", "/srv/shared/db.json")

	cfg := Load()
	if cfg.StorePath != "/srv/shared/db.json" {
		t.Errorf("StorePath: got %q", cfg.StorePath)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("REFRESH_SCHEDULE", "0 * * * *")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "20s")
	t.Setenv("FETCH_WINDOW_DAYS", "14")
	t.Setenv("TOP_N_DEFAULT", "5")

	cfg := Load()

	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr: expected :9000, got %q", cfg.HTTPAddr)
	}
	if cfg.RefreshSchedule != "0 * * * *" {
		t.Errorf("RefreshSchedule: got %q", cfg.RefreshSchedule)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled: expected true")
	}
	if cfg.HTTPShutdownTimeout != 20*time.Second {
		t.Errorf("HTTPShutdownTimeout: expected 20s, got %v", cfg.HTTPShutdownTimeout)
	}
	if cfg.FetchWindowDays != 14 {
		t.Errorf("FetchWindowDays: expected 14, got %d", cfg.FetchWindowDays)
	}
	if cfg.TopNDefault != 5 {
		t.Errorf("TopNDefault: expected 5, got %d", cfg.TopNDefault)
	}
}

func TestLoad_PortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")

	cfg := Load()
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr: expected :3000, got %q", cfg.HTTPAddr)
	}
}

func TestLoad_InvalidIntegersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_WINDOW_DAYS", "soon")
	t.Setenv("TOP_N_DEFAULT", "-2")

	cfg := Load()
	if cfg.FetchWindowDays != 60 {
		t.Errorf("FetchWindowDays: expected default 60, got %d", cfg.FetchWindowDays)
	}
	if cfg.TopNDefault != 3 {
		t.Errorf("TopNDefault: expected default 3, got %d", cfg.TopNDefault)
	}
}

func TestMaskedJSON_MasksAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "AIzaSyA-SECRETKEY1234567890")
	t.Setenv("GOOGLE_CALENDAR_ID", "team@group.calendar.google.com")

	cfg := Load()
	data, err := cfg.MaskedJSON()
	if err != nil {
		t.Fatalf("MaskedJSON failed: %v", err)
	}

	if strings.Contains(string(data), "SECRETKEY") {
		t.Error("MaskedJSON leaked the API key")
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("MaskedJSON produced invalid JSON: %v", err)
	}
	if got, _ := out["google_api_key"].(string); got != "AIza***" {
		t.Errorf("google_api_key = %q, want AIza***", got)
	}
	// Non-secrets pass through untouched.
	if got, _ := out["google_calendar_id"].(string); got != "team@group.calendar.google.com" {
		t.Errorf("google_calendar_id = %q", got)
	}
}
