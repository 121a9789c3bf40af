// Package normalizer reconciles the provider-specific calendar feed
// shapes (Google JSON, Google CSV export, Microsoft Graph JSON, ICS)
// into the canonical event schema. Partial or malformed provider data
// is expected noise: events missing a start, or whose timestamps fail
// to parse, are dropped and counted rather than failing the feed.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/teampulse-io/teampulse/internal/domain"
)

// MalformedPayloadError reports a provider payload that could not be
// decoded at all. A payload that decodes but lacks the expected
// top-level structure yields zero events instead.
type MalformedPayloadError struct {
	Source domain.Source
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Source, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// Normalize decodes a raw provider payload into canonical events,
// also reporting how many entries were dropped as unusable. The
// roster is consulted only by sources that cannot carry employee
// identity themselves (currently the CSV export).
func Normalize(payload []byte, source domain.Source, roster []domain.Employee) ([]domain.CanonicalEvent, int, error) {
	switch source {
	case domain.SourceGoogle:
		return GoogleJSON(payload)
	case domain.SourceGoogleCSV:
		return GoogleCSV(payload, roster)
	case domain.SourceMicrosoft:
		return MicrosoftJSON(payload)
	case domain.SourceICS:
		return ICS(payload)
	default:
		return nil, 0, fmt.Errorf("unknown source kind %q", source)
	}
}

// orderRange guarantees start <= end, swapping a malformed pair
// instead of keeping it.
func orderRange(start, end time.Time) (time.Time, time.Time) {
	if end.Before(start) {
		return end, start
	}
	return start, end
}

// oooKeywords drive the heuristic out-of-office classification for
// sources without a structured availability field. The match is a
// case-insensitive substring scan of the event title; it is documented
// as lossy rather than pretending to precision the source lacks.
var oooKeywords = []string{"ooo", "pto", "vacation", "sick", "out of office"}

func titleLooksOOO(title string) bool {
	lower := strings.ToLower(title)
	for _, k := range oooKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
