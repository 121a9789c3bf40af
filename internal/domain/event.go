package domain

import "time"

// Source identifies the calendar provider a canonical event came from.
type Source string

const (
	SourceGoogle    Source = "google"
	SourceGoogleCSV Source = "google_csv"
	SourceMicrosoft Source = "microsoft"
	SourceICS       Source = "ics"
)

// Availability classifies an event's effect on its owner's availability.
// Out-of-office outranks busy when computing a person's status.
type Availability string

const (
	AvailabilityBusy Availability = "busy"
	AvailabilityOOF  Availability = "oof"
	AvailabilityFree Availability = "free"
)

// ParseAvailability maps a provider availability string onto the closed
// enum. Unknown values count as busy.
func ParseAvailability(s string) Availability {
	switch Availability(s) {
	case AvailabilityBusy, AvailabilityOOF, AvailabilityFree:
		return Availability(s)
	default:
		return AvailabilityBusy
	}
}

// CanonicalEvent is the unified event record every downstream query
// operates on, independent of calendar provider. Events are constructed
// once per normalization pass and never mutated afterwards.
type CanonicalEvent struct {
	EventID       string       `json:"event_id"`
	Source        Source       `json:"source"`
	EmployeeID    string       `json:"employee_id"`
	EmployeeEmail string       `json:"employee_email"`
	Title         string       `json:"title"`
	Availability  Availability `json:"availability"`
	StartUTC      time.Time    `json:"start_utc"`
	EndUTC        time.Time    `json:"end_utc"`

	// IsAllDay changes the day-overlap rule: an all-day event's end
	// date is exclusive per calendar convention, a timed event's end
	// date is inclusive.
	IsAllDay bool `json:"is_all_day"`
}

// Blocking reports whether the event makes its owner unavailable.
func (e CanonicalEvent) Blocking() bool {
	return e.Availability == AvailabilityBusy || e.Availability == AvailabilityOOF
}

// Matches reports whether the event belongs to the given employee.
// Either key alone is sufficient; identity is frequently only
// partially populated depending on the source.
func (e CanonicalEvent) Matches(id, email string) bool {
	if e.EmployeeID != "" && e.EmployeeID == id {
		return true
	}
	return e.EmployeeEmail != "" && email != "" && e.EmployeeEmail == email
}
