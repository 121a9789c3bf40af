package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Active reports whether the task counts toward its assignee's
// workload. Terminal states do not.
func (s TaskStatus) Active() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities for sorting: critical first, unknown values
// last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 9
	}
}

// Task is a work item from the shared store. Only the reassignment
// commit mutates it, rewriting the assignee and stamping an audit
// reason and timestamp.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	RequiredSkills []string   `json:"required_skills"`
	EffortHours    float64    `json:"effort_hours"`
	DueDate        string     `json:"due_date,omitempty"`
	AssignedToID   string     `json:"assigned_to_id"`

	LastReassigned     *time.Time `json:"last_reassigned,omitempty"`
	ReassignmentReason string     `json:"reassignment_reason,omitempty"`
}
