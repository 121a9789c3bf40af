package domain

// DefaultMaxTasksPerDay is assumed for roster entries that do not
// declare a daily capacity.
const DefaultMaxTasksPerDay = 4

// Employee is a roster record. The core consumes it read-only; derived
// workload fields live on EmployeeUtilization, never here.
type Employee struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Role           string   `json:"role,omitempty"`
	Skills         []string `json:"skills"`
	MaxTasksPerDay int      `json:"max_tasks_per_day"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Capacity returns the declared daily task capacity, falling back to
// DefaultMaxTasksPerDay when unset.
func (e Employee) Capacity() int {
	if e.MaxTasksPerDay <= 0 {
		return DefaultMaxTasksPerDay
	}
	return e.MaxTasksPerDay
}

// HasSkill reports whether the employee lists the given skill.
func (e Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// EmployeeUtilization is a roster entry enriched with workload metrics
// for a specific day. It is computed from an immutable snapshot of
// events and tasks; the underlying roster record is never mutated.
type EmployeeUtilization struct {
	Employee

	IsAvailable        bool    `json:"is_available"`
	ActiveTaskCount    int     `json:"active_task_count"`
	ActiveTaskHours    float64 `json:"active_task_hours"`
	ActiveTasks        []Task  `json:"active_tasks,omitempty"`
	CalendarEventCount int     `json:"calendar_event_count"`
	UtilizationPct     int     `json:"utilization_pct"`
	FreeCapacity       int     `json:"free_capacity"`
}
