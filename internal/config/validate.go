package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.StorePath == "" {
		errs = append(errs, ValidationError{
			Field:   "STORE_PATH",
			Message: "required",
		})
	}

	// REFRESH_SCHEDULE must be a five-field cron expression.
	if cfg.RefreshSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.RefreshSchedule); err != nil {
			errs = append(errs, ValidationError{
				Field:   "REFRESH_SCHEDULE",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	if cfg.HTTPShutdownTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.HTTPShutdownTimeoutStr)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "HTTP_SHUTDOWN_TIMEOUT",
				Message: fmt.Sprintf("invalid duration: %v", err),
			})
		} else if d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "HTTP_SHUTDOWN_TIMEOUT",
				Message: "must be positive",
			})
		}
	}

	// The Google fetcher needs both halves of its credential pair.
	if cfg.GoogleAPIKey != "" && cfg.GoogleCalendarID == "" {
		errs = append(errs, ValidationError{
			Field:   "GOOGLE_CALENDAR_ID",
			Message: "required when GOOGLE_API_KEY is set",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
