package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the teampulse application.
// Values are loaded from environment variables; feed paths default to
// well-known names under DATA_DIR.
type Config struct {
	HTTPAddr string `json:"http_addr"`
	DataDir  string `json:"data_dir"`

	StorePath      string `json:"store_path"`
	GoogleJSONPath string `json:"google_json_path"`
	GoogleCSVPath  string `json:"google_csv_path"`
	MSJSONPath     string `json:"ms_json_path"`
	ICSPath        string `json:"ics_path,omitempty"`

	RefreshSchedule string `json:"refresh_schedule"`
	WeightsFile     string `json:"weights_file,omitempty"`

	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsPath    string `json:"metrics_path"`
	RedisAddr      string `json:"redis_addr,omitempty"`

	HTTPShutdownTimeout    time.Duration `json:"-"`
	HTTPShutdownTimeoutStr string        `json:"http_shutdown_timeout"`

	GoogleAPIKey     string `json:"google_api_key,omitempty"`
	GoogleCalendarID string `json:"google_calendar_id,omitempty"`
	FetchWindowDays  int    `json:"fetch_window_days"`

	TopNDefault int `json:"top_n_default"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	cfg := Config{
		HTTPAddr:               os.Getenv("HTTP_ADDR"),
		DataDir:                os.Getenv("DATA_DIR"),
		StorePath:              os.Getenv("STORE_PATH"),
		GoogleJSONPath:         os.Getenv("GOOGLE_JSON_PATH"),
		GoogleCSVPath:          os.Getenv("GOOGLE_CSV_PATH"),
		MSJSONPath:             os.Getenv("MS_JSON_PATH"),
		ICSPath:                os.Getenv("ICS_PATH"),
		RefreshSchedule:        os.Getenv("REFRESH_SCHEDULE"),
		WeightsFile:            os.Getenv("WEIGHTS_FILE"),
		MetricsEnabled:         os.Getenv("METRICS_ENABLED") == "true",
		MetricsPath:            os.Getenv("METRICS_PATH"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		HTTPShutdownTimeoutStr: os.Getenv("HTTP_SHUTDOWN_TIMEOUT"),
		GoogleAPIKey:           os.Getenv("GOOGLE_API_KEY"),
		GoogleCalendarID:       os.Getenv("GOOGLE_CALENDAR_ID"),
	}

	// Support Railway's PORT variable as fallback for HTTP_ADDR.
	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(cfg.DataDir, "teampulse.json")
	}
	if cfg.GoogleJSONPath == "" {
		cfg.GoogleJSONPath = filepath.Join(cfg.DataDir, "google_calendar_events.json")
	}
	if cfg.GoogleCSVPath == "" {
		cfg.GoogleCSVPath = filepath.Join(cfg.DataDir, "google_calendar_events.csv")
	}
	if cfg.MSJSONPath == "" {
		cfg.MSJSONPath = filepath.Join(cfg.DataDir, "microsoft_calendar_events.json")
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "*/15 * * * *"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.HTTPShutdownTimeoutStr == "" {
		cfg.HTTPShutdownTimeoutStr = "10s"
	}

	if windowStr := os.Getenv("FETCH_WINDOW_DAYS"); windowStr != "" {
		if n, err := parseInt(windowStr); err == nil && n > 0 {
			cfg.FetchWindowDays = n
		} else {
			log.Printf("config: invalid FETCH_WINDOW_DAYS %q (must be a positive integer), using default 60", windowStr)
		}
	}
	if cfg.FetchWindowDays == 0 {
		cfg.FetchWindowDays = 60
	}

	if topNStr := os.Getenv("TOP_N_DEFAULT"); topNStr != "" {
		if n, err := parseInt(topNStr); err == nil && n > 0 {
			cfg.TopNDefault = n
		} else {
			log.Printf("config: invalid TOP_N_DEFAULT %q (must be a positive integer), using default 3", topNStr)
		}
	}
	if cfg.TopNDefault == 0 {
		cfg.TopNDefault = 3
	}

	// Parse durations; validation is handled separately by Validate().
	if d, err := time.ParseDuration(cfg.HTTPShutdownTimeoutStr); err == nil {
		cfg.HTTPShutdownTimeout = d
	}

	return cfg
}

// parseInt parses a string as an integer.
func parseInt(s string) (int, error) {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// MaskedJSON returns the configuration as JSON with secrets masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := c
	masked.GoogleAPIKey = maskSecret(c.GoogleAPIKey)
	return json.MarshalIndent(masked, "", "  ")
}

// maskSecret masks a secret value, keeping a short prefix so two keys
// can be told apart in logs.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > 6 {
		return s[:4] + "***"
	}
	return "***"
}
