package domain

import "time"

// ReassignmentAudit records an executed reassignment: who held the
// task, who holds it now, and why.
type ReassignmentAudit struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"task_id"`
	TaskTitle        string    `json:"task_title"`
	FromEmployeeID   string    `json:"from_employee_id"`
	FromEmployeeName string    `json:"from_employee_name"`
	ToEmployeeID     string    `json:"to_employee_id"`
	ToEmployeeName   string    `json:"to_employee_name"`
	Reason           string    `json:"reason"`
	ExecutedAt       time.Time `json:"executed_at"`
}
