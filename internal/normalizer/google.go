package normalizer

import (
	"encoding/json"

	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/timeparse"
)

// googleFeed mirrors the events.list response shape.
type googleFeed struct {
	Items []googleEvent `json:"items"`
}

type googleEvent struct {
	ID                 string           `json:"id"`
	Summary            string           `json:"summary"`
	Creator            *googleActor     `json:"creator"`
	Start              *googleEventTime `json:"start"`
	End                *googleEventTime `json:"end"`
	ExtendedProperties *googleExtProps  `json:"extendedProperties"`
}

type googleActor struct {
	Email string `json:"email"`
}

// googleEventTime carries either a dateTime+timeZone pair or a bare
// date (all-day), never both.
type googleEventTime struct {
	Date     string `json:"date"`
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type googleExtProps struct {
	Private map[string]string `json:"private"`
}

// GoogleJSON normalizes a Google Calendar events.list payload.
// Employee identity and availability kind come from the private
// extended-properties bag, falling back to the creator's email and
// "busy" when absent. The second return value counts items dropped for
// missing or unparseable timestamps.
func GoogleJSON(payload []byte) ([]domain.CanonicalEvent, int, error) {
	var feed googleFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, 0, &MalformedPayloadError{Source: domain.SourceGoogle, Err: err}
	}

	dropped := 0
	events := make([]domain.CanonicalEvent, 0, len(feed.Items))
	for _, ev := range feed.Items {
		var priv map[string]string
		if ev.ExtendedProperties != nil {
			priv = ev.ExtendedProperties.Private
		}

		empID := priv["employeeId"]
		empEmail := priv["employeeEmail"]
		if empEmail == "" && ev.Creator != nil {
			empEmail = ev.Creator.Email
		}
		avail := domain.AvailabilityBusy
		if kind := priv["availabilityKind"]; kind != "" {
			avail = domain.ParseAvailability(kind)
		}

		start := ev.Start
		if start == nil {
			start = &googleEventTime{}
		}
		end := ev.End
		if end == nil {
			end = &googleEventTime{}
		}

		isAllDay := start.Date != "" && start.DateTime == ""

		startStr := start.DateTime
		if startStr == "" {
			startStr = start.Date
		}
		if startStr == "" {
			dropped++
			continue
		}
		endStr := end.DateTime
		if endStr == "" {
			endStr = end.Date
		}

		startUTC, err := timeparse.ToUTC(startStr, start.TimeZone)
		if err != nil {
			dropped++
			continue
		}
		endUTC := startUTC
		if endStr != "" {
			endUTC, err = timeparse.ToUTC(endStr, start.TimeZone)
			if err != nil {
				dropped++
				continue
			}
		}
		startUTC, endUTC = orderRange(startUTC, endUTC)

		events = append(events, domain.CanonicalEvent{
			EventID:       ev.ID,
			Source:        domain.SourceGoogle,
			EmployeeID:    empID,
			EmployeeEmail: empEmail,
			Title:         ev.Summary,
			Availability:  avail,
			StartUTC:      startUTC,
			EndUTC:        endUTC,
			IsAllDay:      isAllDay,
		})
	}

	return events, dropped, nil
}
