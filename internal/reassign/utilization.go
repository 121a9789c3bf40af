// Package reassign computes per-day workload metrics for a roster and
// ranks replacement candidates for tasks whose owner is unavailable.
// Everything here is a pure function of (events, roster, tasks, date);
// inputs are never mutated.
package reassign

import (
	"math"
	"sort"
	"time"

	"github.com/teampulse-io/teampulse/internal/availability"
	"github.com/teampulse-io/teampulse/internal/domain"
)

// Utilization annotates every roster member with workload metrics for
// the target date, ordered from best candidate to worst: available
// members first, then ascending utilization, then descending free
// capacity. Ties beyond that keep input order.
func Utilization(events []domain.CanonicalEvent, roster []domain.Employee, tasks []domain.Task, target time.Time) []domain.EmployeeUtilization {
	partition := availability.ForDate(events, roster, target)
	availableIDs := make(map[string]struct{}, len(partition.Available))
	for _, emp := range partition.Available {
		availableIDs[emp.ID] = struct{}{}
	}

	dayEvents := availability.EventsForDate(events, target)

	out := make([]domain.EmployeeUtilization, 0, len(roster))
	for _, emp := range roster {
		var active []domain.Task
		var hours float64
		for _, task := range tasks {
			if task.AssignedToID == emp.ID && task.Status.Active() {
				active = append(active, task)
				hours += task.EffortHours
			}
		}

		calendarCount := 0
		for _, ev := range dayEvents {
			if !ev.IsAllDay && ev.Matches(emp.ID, emp.Email) {
				calendarCount++
			}
		}

		capacity := emp.Capacity()
		pct := int(math.Round(float64(len(active)) / float64(capacity) * 100))
		if pct > 100 {
			pct = 100
		}
		free := capacity - len(active)
		if free < 0 {
			free = 0
		}

		_, isAvailable := availableIDs[emp.ID]
		out = append(out, domain.EmployeeUtilization{
			Employee:           emp,
			IsAvailable:        isAvailable,
			ActiveTaskCount:    len(active),
			ActiveTaskHours:    hours,
			ActiveTasks:        active,
			CalendarEventCount: calendarCount,
			UtilizationPct:     pct,
			FreeCapacity:       free,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsAvailable != b.IsAvailable {
			return a.IsAvailable
		}
		if a.UtilizationPct != b.UtilizationPct {
			return a.UtilizationPct < b.UtilizationPct
		}
		return a.FreeCapacity > b.FreeCapacity
	})
	return out
}
