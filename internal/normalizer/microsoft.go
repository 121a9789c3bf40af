package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/timeparse"
)

// msFeed mirrors a Graph /events response.
type msFeed struct {
	Value []msEvent `json:"value"`
}

type msEvent struct {
	ID         string           `json:"id"`
	Subject    string           `json:"subject"`
	IsAllDay   bool             `json:"isAllDay"`
	ShowAs     string           `json:"showAs"`
	Start      *msEventTime     `json:"start"`
	End        *msEventTime     `json:"end"`
	Organizer  *msOrganizer     `json:"organizer"`
	Extensions []map[string]any `json:"extensions"`
}

type msEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type msOrganizer struct {
	EmailAddress msEmailAddress `json:"emailAddress"`
}

type msEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// MicrosoftJSON normalizes a Microsoft Graph events payload. Employee
// identity comes from the first open extension carrying an employeeId
// field, falling back to the organizer's address; availability
// defaults to oof when showAs says so, else busy. The second return
// value counts items dropped for missing or unparseable timestamps.
func MicrosoftJSON(payload []byte) ([]domain.CanonicalEvent, int, error) {
	var feed msFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, 0, &MalformedPayloadError{Source: domain.SourceMicrosoft, Err: err}
	}

	dropped := 0
	events := make([]domain.CanonicalEvent, 0, len(feed.Value))
	for _, ev := range feed.Value {
		empID, empEmail, availKind := scanExtensions(ev.Extensions)
		if empEmail == "" && ev.Organizer != nil {
			empEmail = ev.Organizer.EmailAddress.Address
		}
		if availKind == "" {
			if ev.ShowAs == "oof" {
				availKind = string(domain.AvailabilityOOF)
			} else {
				availKind = string(domain.AvailabilityBusy)
			}
		}

		start := ev.Start
		if start == nil || start.DateTime == "" {
			dropped++
			continue
		}

		startUTC, err := timeparse.ToUTC(start.DateTime, start.TimeZone)
		if err != nil {
			dropped++
			continue
		}
		endUTC := startUTC
		if ev.End != nil && ev.End.DateTime != "" {
			endUTC, err = timeparse.ToUTC(ev.End.DateTime, start.TimeZone)
			if err != nil {
				dropped++
				continue
			}
		}
		startUTC, endUTC = orderRange(startUTC, endUTC)

		events = append(events, domain.CanonicalEvent{
			EventID:       ev.ID,
			Source:        domain.SourceMicrosoft,
			EmployeeID:    empID,
			EmployeeEmail: empEmail,
			Title:         ev.Subject,
			Availability:  domain.ParseAvailability(availKind),
			StartUTC:      startUTC,
			EndUTC:        endUTC,
			IsAllDay:      ev.IsAllDay,
		})
	}

	return events, dropped, nil
}

// scanExtensions returns identity fields from the first extension that
// carries an employeeId.
func scanExtensions(exts []map[string]any) (id, email, availKind string) {
	for _, ext := range exts {
		raw, ok := ext["employeeId"]
		if !ok {
			continue
		}
		id = stringify(raw)
		email = stringify(ext["employeeEmail"])
		availKind = stringify(ext["availabilityKind"])
		return id, email, availKind
	}
	return "", "", ""
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		// JSON numbers decode as float64; ids are integral.
		return fmt.Sprintf("%.0f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
