package normalizer

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/timeparse"
)

// GoogleCSV normalizes the flattened Google Calendar CSV export. The
// export carries no extended-properties bag, so availability is
// inferred from out-of-office keywords in the title and employee
// identity is recovered, best effort, by scanning the title for a
// roster member's full name or email local-part. Events matching no
// roster member stay unmatched with empty identity. The second return
// value counts rows dropped as unusable.
func GoogleCSV(payload []byte, roster []domain.Employee) ([]domain.CanonicalEvent, int, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.CanonicalEvent{}, 0, nil
	}
	if err != nil {
		return nil, 0, &MalformedPayloadError{Source: domain.SourceGoogleCSV, Err: err}
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	dropped := 0
	var events []domain.CanonicalEvent
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single broken row is provider noise, not a broken feed.
			dropped++
			continue
		}

		startStr := field(row, "start")
		if startStr == "" {
			dropped++
			continue
		}
		endStr := field(row, "end")
		summary := field(row, "summary")

		avail := domain.AvailabilityBusy
		if titleLooksOOO(summary) {
			avail = domain.AvailabilityOOF
		}

		startUTC, err := timeparse.ToUTC(startStr, "")
		if err != nil {
			dropped++
			continue
		}
		endUTC := startUTC
		if endStr != "" {
			endUTC, err = timeparse.ToUTC(endStr, "")
			if err != nil {
				dropped++
				continue
			}
		}
		startUTC, endUTC = orderRange(startUTC, endUTC)

		empID, empEmail := matchRosterByTitle(summary, roster)

		events = append(events, domain.CanonicalEvent{
			EventID:       field(row, "id"),
			Source:        domain.SourceGoogleCSV,
			EmployeeID:    empID,
			EmployeeEmail: empEmail,
			Title:         summary,
			Availability:  avail,
			StartUTC:      startUTC,
			EndUTC:        endUTC,
			IsAllDay:      len(strings.TrimSpace(startStr)) == 10,
		})
	}

	if events == nil {
		events = []domain.CanonicalEvent{}
	}
	return events, dropped, nil
}

// matchRosterByTitle looks for a roster member referenced in the event
// title, either by full name or by the local part of their email.
// First match wins; roster order is the tie-break.
func matchRosterByTitle(title string, roster []domain.Employee) (id, email string) {
	lower := strings.ToLower(title)
	if lower == "" {
		return "", ""
	}
	for _, emp := range roster {
		if name := strings.ToLower(emp.FullName()); name != "" && strings.Contains(lower, name) {
			return emp.ID, emp.Email
		}
		if local, _, ok := strings.Cut(emp.Email, "@"); ok && local != "" {
			if strings.Contains(lower, strings.ToLower(local)) {
				return emp.ID, emp.Email
			}
		}
	}
	return "", ""
}
