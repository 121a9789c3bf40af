package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// DefaultWindowDays is the fetch horizon when none is configured.
const DefaultWindowDays = 60

// csvColumns is the column order of the Google CSV feed. The
// normalizer addresses columns by header name, so order is cosmetic,
// but a stable order keeps the file diffable between fetches.
var csvColumns = []string{"id", "status", "summary", "description", "start", "end", "htmlLink", "updated"}

// GoogleFetcher pulls events for one calendar from the Google Calendar
// API with an API key and rewrites the CSV feed file. The calendar
// must be public; key-only access cannot see private calendars.
type GoogleFetcher struct {
	apiKey     string
	calendarID string
	outPath    string
	windowDays int
}

func NewGoogleFetcher(apiKey, calendarID, outPath string, windowDays int) *GoogleFetcher {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &GoogleFetcher{
		apiKey:     apiKey,
		calendarID: calendarID,
		outPath:    outPath,
		windowDays: windowDays,
	}
}

// Fetch lists events from now through the fetch window, following
// pagination, and rewrites the CSV feed. It returns the number of
// events written.
func (f *GoogleFetcher) Fetch(ctx context.Context) (int, error) {
	svc, err := calendar.NewService(ctx, option.WithAPIKey(f.apiKey))
	if err != nil {
		return 0, fmt.Errorf("create calendar service: %w", err)
	}

	now := time.Now().UTC()
	var items []*calendar.Event
	pageToken := ""
	for {
		call := svc.Events.List(f.calendarID).
			ShowDeleted(true).
			SingleEvents(true).
			TimeMin(now.Format(time.RFC3339)).
			TimeMax(now.AddDate(0, 0, f.windowDays).Format(time.RFC3339)).
			OrderBy("startTime").
			MaxResults(2500).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return 0, fmt.Errorf("list events: %w", err)
		}
		items = append(items, resp.Items...)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if err := f.writeCSV(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (f *GoogleFetcher) writeCSV(items []*calendar.Event) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ev := range items {
		row := []string{
			ev.Id,
			ev.Status,
			ev.Summary,
			ev.Description,
			eventTimeString(ev.Start),
			eventTimeString(ev.End),
			ev.HtmlLink,
			ev.Updated,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	if err := os.WriteFile(f.outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write feed file: %w", err)
	}
	return nil
}

// eventTimeString flattens a timed or all-day boundary to the ISO
// string the CSV feed carries.
func eventTimeString(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
