package reassign

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
)

// DefaultTopN is the number of candidates returned per task when the
// caller does not say otherwise.
const DefaultTopN = 3

// Suggest builds the ranked reassignment report for the target date.
// Every active task appears: tasks with an available assignee as a
// no-action entry, the rest with up to topN scored candidates drawn
// from roster members who are available and have spare capacity.
func Suggest(events []domain.CanonicalEvent, roster []domain.Employee, tasks []domain.Task, target time.Time, topN int, w Weights) domain.SuggestionReport {
	if topN <= 0 {
		topN = DefaultTopN
	}

	dateStr := target.UTC().Format("2006-01-02")
	utilization := Utilization(events, roster, tasks, target)

	utilByID := make(map[string]domain.EmployeeUtilization, len(utilization))
	for _, u := range utilization {
		utilByID[u.ID] = u
	}

	var pool []domain.EmployeeUtilization
	for _, u := range utilization {
		if u.IsAvailable && u.FreeCapacity > 0 {
			pool = append(pool, u)
		}
	}

	var activeTasks []domain.Task
	for _, task := range tasks {
		if task.Status.Active() {
			activeTasks = append(activeTasks, task)
		}
	}

	suggestions := make([]domain.TaskSuggestion, 0, len(activeTasks))
	needed := 0
	for _, task := range activeTasks {
		assignee, known := utilByID[task.AssignedToID]

		// An unknown assignee cannot be declared unavailable; the task
		// is reported as a no-action entry like any covered one.
		if !known || assignee.IsAvailable {
			entry := domain.TaskSuggestion{
				Task:            task,
				Recommendations: []domain.Candidate{},
			}
			if known {
				entry.CurrentAssignee = &assignee
			}
			suggestions = append(suggestions, entry)
			continue
		}

		candidates := rankCandidates(task, pool, w)
		if len(candidates) > topN {
			candidates = candidates[:topN]
		}

		needed++
		suggestions = append(suggestions, domain.TaskSuggestion{
			Task:              task,
			CurrentAssignee:   &assignee,
			NeedsReassignment: true,
			Reason:            fmt.Sprintf("Assignee unavailable on %s", dateStr),
			Recommendations:   candidates,
		})
	}

	// Tasks needing reassignment first, then by priority; input order
	// is preserved within each group.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.NeedsReassignment != b.NeedsReassignment {
			return a.NeedsReassignment
		}
		return a.Task.Priority.Rank() < b.Task.Priority.Rank()
	})

	return domain.SuggestionReport{
		Date:                dateStr,
		TotalTasksChecked:   len(activeTasks),
		NeedsReassignment:   needed,
		Suggestions:         suggestions,
		UtilizationSnapshot: utilization,
	}
}

// rankCandidates scores the pool against one task and orders it score
// descending, free capacity as the tie-break. The current assignee is
// never a candidate.
func rankCandidates(task domain.Task, pool []domain.EmployeeUtilization, w Weights) []domain.Candidate {
	required := make(map[string]struct{}, len(task.RequiredSkills))
	for _, s := range task.RequiredSkills {
		required[s] = struct{}{}
	}

	candidates := make([]domain.Candidate, 0, len(pool))
	for _, u := range pool {
		if u.ID == task.AssignedToID {
			continue
		}

		// Set intersection: duplicate skill entries on either side
		// count once.
		matches := 0
		gap := make([]string, 0)
		for s := range required {
			if u.HasSkill(s) {
				matches++
			} else {
				gap = append(gap, s)
			}
		}
		sort.Strings(gap)

		matchPct := 0
		if len(required) > 0 {
			matchPct = int(math.Round(float64(matches) / float64(len(required)) * 100))
		}

		candidates = append(candidates, domain.Candidate{
			EmployeeUtilization: u,
			SkillMatchCount:     matches,
			SkillMatchPct:       matchPct,
			SkillGap:            gap,
			Score:               score(u, matches, w),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.FreeCapacity > b.FreeCapacity
	})
	return candidates
}

func score(u domain.EmployeeUtilization, skillMatches int, w Weights) float64 {
	return w.SkillMatch*float64(skillMatches) -
		w.Utilization*float64(u.UtilizationPct) -
		w.CalendarEvent*float64(u.CalendarEventCount)
}
