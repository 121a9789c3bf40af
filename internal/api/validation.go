package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// MaxTopN caps how many candidates a single query may ask for.
const MaxTopN = 50

func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// parseTopN extracts the optional top_n query parameter.
func parseTopN(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("top_n")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid top_n %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("top_n must be positive")
	}
	if n > MaxTopN {
		return 0, fmt.Errorf("top_n exceeds maximum of %d", MaxTopN)
	}
	return n, nil
}

func validateReassign(req ReassignRequest) error {
	if req.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if req.NewAssigneeID == "" {
		return fmt.Errorf("new_assignee_id is required")
	}
	return nil
}
