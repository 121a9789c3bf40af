package domain

// Candidate is a scored replacement candidate for one task.
type Candidate struct {
	EmployeeUtilization

	SkillMatchCount int      `json:"skill_match_count"`
	SkillMatchPct   int      `json:"skill_match_pct"`
	SkillGap        []string `json:"skill_gap"`
	Score           float64  `json:"score"`
}

// TaskSuggestion is the per-task entry in a suggestion report. Tasks
// whose assignee is available are included with NeedsReassignment
// false and no recommendations, so the report covers the full active
// task list.
type TaskSuggestion struct {
	Task              Task                 `json:"task"`
	CurrentAssignee   *EmployeeUtilization `json:"current_assignee"`
	NeedsReassignment bool                 `json:"needs_reassignment"`
	Reason            string               `json:"reason,omitempty"`
	Recommendations   []Candidate          `json:"recommendations"`
}

// SuggestionReport is the full ranked output for a target date.
type SuggestionReport struct {
	Date                string                `json:"date"`
	TotalTasksChecked   int                   `json:"total_tasks_checked"`
	NeedsReassignment   int                   `json:"needs_reassignment"`
	Suggestions         []TaskSuggestion      `json:"suggestions"`
	UtilizationSnapshot []EmployeeUtilization `json:"utilization_snapshot"`
}
