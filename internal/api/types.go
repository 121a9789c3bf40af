package api

import (
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
)

type StatusResponse struct {
	OK            bool   `json:"ok"`
	EmployeeCount int    `json:"employee_count"`
	TaskCount     int    `json:"task_count"`
	EventCount    int    `json:"event_count"`
	LastRefresh   string `json:"last_refresh,omitempty"`
}

type EmployeesResponse struct {
	Employees []domain.Employee `json:"employees"`
	Count     int               `json:"count"`
}

type TasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Count int           `json:"count"`
}

type NormalizeResponse struct {
	Events          []domain.CanonicalEvent `json:"events"`
	Count           int                     `json:"count"`
	TotalNormalized int                     `json:"total_normalized"`
	BySource        map[string]int          `json:"by_source"`
	ByAvailability  map[string]int          `json:"by_availability"`
}

type UtilizationResponse struct {
	Date        string                       `json:"date"`
	Utilization []domain.EmployeeUtilization `json:"utilization"`
}

type ReassignRequest struct {
	TaskID        string `json:"task_id"`
	NewAssigneeID string `json:"new_assignee_id"`
	Reason        string `json:"reason,omitempty"`
}

type ReassignResponse struct {
	Success bool                     `json:"success"`
	Audit   domain.ReassignmentAudit `json:"audit"`
}

type RefreshResponse struct {
	Message     string `json:"message"`
	EventCount  int    `json:"event_count"`
	LastRefresh string `json:"last_refresh"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
