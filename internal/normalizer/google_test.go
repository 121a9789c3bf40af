package normalizer

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
)

const googlePayload = `{
  "kind": "calendar#events",
  "items": [
    {
      "id": "evt-timed",
      "summary": "Design Review - Alice",
      "creator": {"email": "alice@example.com"},
      "start": {"dateTime": "2026-02-24T11:30:00-05:00", "timeZone": "America/New_York"},
      "end": {"dateTime": "2026-02-24T12:30:00-05:00", "timeZone": "America/New_York"},
      "extendedProperties": {
        "private": {
          "employeeId": "emp-001",
          "employeeEmail": "alice@example.com",
          "availabilityKind": "busy"
        }
      }
    },
    {
      "id": "evt-allday",
      "summary": "PTO - Bob Jones",
      "creator": {"email": "bob@example.com"},
      "start": {"date": "2026-03-01"},
      "end": {"date": "2026-03-03"},
      "extendedProperties": {
        "private": {
          "employeeId": "emp-002",
          "availabilityKind": "oof"
        }
      }
    },
    {
      "id": "evt-no-props",
      "summary": "Standup",
      "creator": {"email": "cara@example.com"},
      "start": {"dateTime": "2026-02-25T09:00:00-05:00"},
      "end": {"dateTime": "2026-02-25T09:15:00-05:00"}
    },
    {
      "id": "evt-no-start",
      "summary": "broken"
    },
    {
      "id": "evt-bad-time",
      "summary": "broken too",
      "start": {"dateTime": "not a time"}
    }
  ]
}`

func TestGoogleJSON(t *testing.T) {
	events, dropped, err := GoogleJSON([]byte(googlePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events (2 dropped), got %d", len(events))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2 (missing start, bad time)", dropped)
	}

	timed := events[0]
	if timed.EmployeeID != "emp-001" || timed.EmployeeEmail != "alice@example.com" {
		t.Errorf("unexpected identity: %q / %q", timed.EmployeeID, timed.EmployeeEmail)
	}
	if timed.IsAllDay {
		t.Error("timed event marked all-day")
	}
	wantStart := time.Date(2026, time.February, 24, 16, 30, 0, 0, time.UTC)
	if !timed.StartUTC.Equal(wantStart) {
		t.Errorf("start = %v, want %v", timed.StartUTC, wantStart)
	}

	allDay := events[1]
	if !allDay.IsAllDay {
		t.Error("all-day event not detected")
	}
	if allDay.Availability != domain.AvailabilityOOF {
		t.Errorf("availability = %q, want oof", allDay.Availability)
	}
	if !allDay.StartUTC.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("all-day start = %v, want midnight UTC", allDay.StartUTC)
	}

	noProps := events[2]
	if noProps.EmployeeID != "" {
		t.Errorf("expected empty employee id, got %q", noProps.EmployeeID)
	}
	if noProps.EmployeeEmail != "cara@example.com" {
		t.Errorf("expected creator email fallback, got %q", noProps.EmployeeEmail)
	}
	if noProps.Availability != domain.AvailabilityBusy {
		t.Errorf("expected default busy, got %q", noProps.Availability)
	}
}

func TestGoogleJSON_MissingEndEqualsStart(t *testing.T) {
	payload := `{"items": [{"id": "e1", "start": {"dateTime": "2026-02-24T09:00:00Z"}}]}`
	events, _, err := GoogleJSON([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].EndUTC.Equal(events[0].StartUTC) {
		t.Errorf("end = %v, want start %v", events[0].EndUTC, events[0].StartUTC)
	}
}

func TestGoogleJSON_ReversedRangeIsSwapped(t *testing.T) {
	payload := `{"items": [{"id": "e1",
		"start": {"dateTime": "2026-02-24T12:00:00Z"},
		"end": {"dateTime": "2026-02-24T09:00:00Z"}}]}`
	events, _, err := GoogleJSON([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EndUTC.Before(events[0].StartUTC) {
		t.Error("start/end not ordered after normalization")
	}
}

func TestGoogleJSON_MissingItemsYieldsZeroEvents(t *testing.T) {
	events, _, err := GoogleJSON([]byte(`{"kind": "calendar#events"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestGoogleJSON_UndecodablePayload(t *testing.T) {
	_, _, err := GoogleJSON([]byte("{nope"))
	if err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	var merr *MalformedPayloadError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MalformedPayloadError, got %T", err)
	}
	if merr.Source != domain.SourceGoogle {
		t.Errorf("source = %q, want google", merr.Source)
	}
}

func TestGoogleJSON_Idempotent(t *testing.T) {
	first, _, err := GoogleJSON([]byte(googlePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := GoogleJSON([]byte(googlePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("normalizing the same payload twice produced different results")
	}
}

func TestNormalize_UnknownSource(t *testing.T) {
	if _, _, err := Normalize([]byte("{}"), domain.Source("exchange"), nil); err == nil {
		t.Fatal("expected error for unknown source kind")
	}
}
