// Package availability answers day-level availability questions over a
// canonical event snapshot: which events cover a given date, and which
// roster members are blocked by them.
package availability

import (
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
)

// Partition splits a roster into available and unavailable members for
// one date. Every member appears in exactly one of the two lists.
type Partition struct {
	Date             string            `json:"date"`
	Available        []domain.Employee `json:"available"`
	Unavailable      []domain.Employee `json:"unavailable"`
	AvailableCount   int               `json:"available_count"`
	UnavailableCount int               `json:"unavailable_count"`
}

// Overlaps reports whether the event covers the target date (compared
// by UTC calendar day). All-day events end-exclusive per calendar
// convention; timed events end-inclusive, since their date component
// is the day they occur on even when they cross midnight.
func Overlaps(ev domain.CanonicalEvent, target time.Time) bool {
	day := dateOf(target)
	start := dateOf(ev.StartUTC)
	end := dateOf(ev.EndUTC)

	if day.Before(start) {
		return false
	}
	if ev.IsAllDay {
		return day.Before(end)
	}
	return !day.After(end)
}

// EventsForDate returns every event, regardless of availability kind,
// overlapping the target date. It is the substrate both the roster
// partition and the utilization scorer build on.
func EventsForDate(events []domain.CanonicalEvent, target time.Time) []domain.CanonicalEvent {
	out := make([]domain.CanonicalEvent, 0)
	for _, ev := range events {
		if Overlaps(ev, target) {
			out = append(out, ev)
		}
	}
	return out
}

// ForDate partitions the roster by whether a busy/oof event overlaps
// the target date. Matching is OR across employee id and email: either
// key alone marks the person unavailable, a deliberate leniency since
// identity is frequently only partially populated per source.
func ForDate(events []domain.CanonicalEvent, roster []domain.Employee, target time.Time) Partition {
	busyIDs := make(map[string]struct{})
	busyEmails := make(map[string]struct{})

	for _, ev := range events {
		if !ev.Blocking() || !Overlaps(ev, target) {
			continue
		}
		if ev.EmployeeID != "" {
			busyIDs[ev.EmployeeID] = struct{}{}
		}
		if ev.EmployeeEmail != "" {
			busyEmails[ev.EmployeeEmail] = struct{}{}
		}
	}

	p := Partition{
		Date:        dateOf(target).Format("2006-01-02"),
		Available:   make([]domain.Employee, 0, len(roster)),
		Unavailable: make([]domain.Employee, 0),
	}
	for _, emp := range roster {
		_, byID := busyIDs[emp.ID]
		_, byEmail := busyEmails[emp.Email]
		if byID || byEmail {
			p.Unavailable = append(p.Unavailable, emp)
		} else {
			p.Available = append(p.Available, emp)
		}
	}
	p.AvailableCount = len(p.Available)
	p.UnavailableCount = len(p.Unavailable)
	return p
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
