package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTPAddr:               ":8080",
		DataDir:                "data",
		StorePath:              "data/teampulse.json",
		RefreshSchedule:        "*/15 * * * *",
		MetricsPath:            "/metrics",
		HTTPShutdownTimeout:    10 * time.Second,
		HTTPShutdownTimeoutStr: "10s",
		FetchWindowDays:        60,
		TopNDefault:            3,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_MissingStorePath(t *testing.T) {
	cfg := validConfig()
	cfg.StorePath = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for empty STORE_PATH")
	}
	if !strings.Contains(err.Error(), "STORE_PATH") {
		t.Errorf("error should mention STORE_PATH: %v", err)
	}
}

func TestValidate_BadRefreshSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"six fields", "0 */15 * * * *"},
		{"garbage", "every fifteen minutes"},
		{"out of range", "99 * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RefreshSchedule = tt.schedule
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error for schedule %q", tt.schedule)
			}
			if !strings.Contains(err.Error(), "REFRESH_SCHEDULE") {
				t.Errorf("error should mention REFRESH_SCHEDULE: %v", err)
			}
		})
	}
}

func TestValidate_BadShutdownTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
	}{
		{"not a duration", "ten seconds"},
		{"negative", "-5s"},
		{"zero", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.HTTPShutdownTimeoutStr = tt.timeout
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error for timeout %q", tt.timeout)
			}
			if !strings.Contains(err.Error(), "HTTP_SHUTDOWN_TIMEOUT") {
				t.Errorf("error should mention HTTP_SHUTDOWN_TIMEOUT: %v", err)
			}
		})
	}
}

func TestValidate_APIKeyRequiresCalendarID(t *testing.T) {
	cfg := validConfig()
	cfg.GoogleAPIKey = "AIzaSyA-test"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error when GOOGLE_API_KEY is set without GOOGLE_CALENDAR_ID")
	}
	if !strings.Contains(err.Error(), "GOOGLE_CALENDAR_ID") {
		t.Errorf("error should mention GOOGLE_CALENDAR_ID: %v", err)
	}

	cfg.GoogleCalendarID = "team@group.calendar.google.com"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config with both set, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.StorePath = ""
	cfg.RefreshSchedule = "bogus"
	cfg.HTTPShutdownTimeoutStr = "-1s"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(err.Error(), "3 validation errors:") {
		t.Errorf("multi-error message should carry a count header: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "STORE_PATH", Message: "required"}
	if got := err.Error(); got != "STORE_PATH: required" {
		t.Errorf("Error() = %q", got)
	}
}
