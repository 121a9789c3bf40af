package normalizer

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/teampulse-io/teampulse/internal/domain"
)

const (
	icsLookbackDays = 7
	icsHorizonDays  = 60
	// Safety cap against pathological RRULEs.
	icsMaxOccurrences = 1000
)

// icsNow is swapped out in tests to pin the expansion window.
var icsNow = time.Now

// ICS normalizes an ICS feed. Availability is classified from the
// summary with the same out-of-office keyword heuristic as the CSV
// path; identity comes from the ORGANIZER or first ATTENDEE mailto.
// Recurring VEVENTs are expanded into concrete occurrences within a
// bounded window around now. The second return value counts VEVENTs
// dropped as malformed; components merely outside the window are not
// drops.
func ICS(payload []byte) ([]domain.CanonicalEvent, int, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(payload))
	if err != nil {
		return nil, 0, &MalformedPayloadError{Source: domain.SourceICS, Err: err}
	}

	now := icsNow().UTC()
	rangeStart := now.AddDate(0, 0, -icsLookbackDays)
	rangeEnd := now.AddDate(0, 0, icsHorizonDays)

	dropped := 0
	var events []domain.CanonicalEvent
	for _, ve := range cal.Events() {
		occ, ok := expandVEvent(ve, rangeStart, rangeEnd)
		if !ok {
			dropped++
			continue
		}
		events = append(events, occ...)
	}
	if events == nil {
		events = []domain.CanonicalEvent{}
	}
	return events, dropped, nil
}

// expandVEvent returns the concrete occurrences of one VEVENT within
// the window. ok is false when the component is malformed.
func expandVEvent(ve *ical.VEvent, rangeStart, rangeEnd time.Time) ([]domain.CanonicalEvent, bool) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	summary := propValue(ve, ical.ComponentPropertySummary)

	start, err := ve.GetStartAt()
	if err != nil {
		// No usable DTSTART: skip, same policy as the other sources.
		return nil, false
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	allDay := icsAllDay(ve)
	if allDay {
		start = dateUTC(start)
		if end.After(start) {
			end = dateUTC(end)
		} else {
			// DTEND is exclusive for all-day events; a missing one
			// means a single-day block.
			end = start.AddDate(0, 0, 1)
		}
	}

	avail := domain.AvailabilityBusy
	if titleLooksOOO(summary) {
		avail = domain.AvailabilityOOF
	}
	email := icsEmail(ve)

	base := domain.CanonicalEvent{
		EventID:       uid,
		Source:        domain.SourceICS,
		EmployeeEmail: email,
		Title:         summary,
		Availability:  avail,
		IsAllDay:      allDay,
	}

	rawRRule := propValue(ve, ical.ComponentPropertyRrule)
	if rawRRule == "" {
		if end.Before(rangeStart) || start.After(rangeEnd) {
			return nil, true
		}
		s, e := orderRange(start.UTC(), end.UTC())
		base.StartUTC, base.EndUTC = s, e
		return []domain.CanonicalEvent{base}, true
	}

	rule, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, false
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range icsExDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	occStarts := set.Between(rangeStart.In(start.Location()), rangeEnd.In(start.Location()), true)
	if len(occStarts) > icsMaxOccurrences {
		occStarts = occStarts[:icsMaxOccurrences]
	}

	duration := end.Sub(start)
	out := make([]domain.CanonicalEvent, 0, len(occStarts))
	for _, occStart := range occStarts {
		occ := base
		if allDay {
			occ.StartUTC = dateUTC(occStart)
			occ.EndUTC = occ.StartUTC.Add(duration)
		} else {
			occ.StartUTC = occStart.UTC()
			occ.EndUTC = occ.StartUTC.Add(duration)
		}
		// Instance key keeps per-occurrence ids distinct.
		occ.EventID = uid + "/" + occ.StartUTC.Format(time.RFC3339)
		out = append(out, occ)
	}
	return out, true
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// icsAllDay detects all-day events from DTSTART: VALUE=DATE or a
// value without a time component.
func icsAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// icsEmail extracts a mailto address from ORGANIZER, falling back to
// the first ATTENDEE carrying one.
func icsEmail(ve *ical.VEvent) string {
	if email := mailto(propValue(ve, ical.ComponentPropertyOrganizer)); email != "" {
		return email
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		if email := mailto(p.Value); email != "" {
			return email
		}
	}
	return ""
}

func mailto(v string) string {
	if !strings.Contains(strings.ToLower(v), "mailto:") {
		return ""
	}
	parts := strings.Split(v, ":")
	return strings.TrimSpace(parts[len(parts)-1])
}

func icsExDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime handles the basic DATE-TIME/DATE forms EXDATE uses.
func parseICSTime(v string) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.Parse("20060102T150405", v)
	}
	return time.Parse("20060102", v)
}

func dateUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
