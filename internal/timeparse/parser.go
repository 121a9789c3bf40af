// Package timeparse converts the heterogeneous date/time strings found
// in provider calendar feeds into UTC instants. Feeds mix three
// representations: RFC3339-style strings with an embedded offset,
// naive local strings paired with a named-timezone field, and bare
// dates for all-day events. The parser branches on the literal string
// shape rather than assuming one RFC.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a date/time string matching none of the known
// shapes. Callers treat it as "skip the event", not as a fatal
// condition.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized date/time %q", e.Input)
}

// tzOffsets maps the Windows-style timezone names Microsoft feeds use
// onto fixed UTC offsets in hours. Unknown names fall back to UTC.
var tzOffsets = map[string]int{
	"Pacific Standard Time":  -8,
	"Pacific Daylight Time":  -7,
	"Mountain Standard Time": -7,
	"Mountain Daylight Time": -6,
	"Central Standard Time":  -6,
	"Central Daylight Time":  -5,
	"Eastern Standard Time":  -5,
	"Eastern Daylight Time":  -4,
	"UTC":                    0,
}

const dateOnlyLen = 10 // "YYYY-MM-DD"

// ToUTC parses a provider date/time string into a UTC instant.
//
//   - A 10-character "YYYY-MM-DD" string is date-only and maps to
//     midnight UTC on that date. Date-only values are deliberately not
//     localized to tzHint so all-day semantics stay source-agnostic.
//   - A string with an embedded "+HH:MM"/"-HH:MM" offset (or a "Z"
//     suffix) is parsed as an offset-aware instant and converted.
//   - Anything else is treated as naive local time in tzHint (fixed
//     offset table, UTC when unknown or empty).
func ToUTC(s, tzHint string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ParseError{Input: s}
	}

	if len(s) == dateOnlyLen {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, &ParseError{Input: s}
		}
		return t, nil
	}

	body, tail, hasT := strings.Cut(s, "T")
	if !hasT {
		return time.Time{}, &ParseError{Input: s}
	}

	if strings.HasSuffix(tail, "Z") {
		t, err := parseNaive(body + "T" + strings.TrimSuffix(tail, "Z"))
		if err != nil {
			return time.Time{}, &ParseError{Input: s}
		}
		return t, nil
	}

	// Scan the time part for an embedded offset. Index 0 is excluded
	// so a leading sign never counts.
	for i := 1; i < len(tail); i++ {
		if tail[i] != '+' && tail[i] != '-' {
			continue
		}
		naive, err := parseNaive(body + "T" + tail[:i])
		if err != nil {
			break
		}
		offset, err := parseOffset(tail[i:])
		if err != nil {
			break
		}
		return naive.Add(-offset), nil
	}

	naive, err := parseNaive(s)
	if err != nil {
		return time.Time{}, &ParseError{Input: s}
	}
	return naive.Add(-hintOffset(tzHint)), nil
}

// parseNaive parses a date-time string with no zone information,
// returning its field values pinned to UTC. Callers apply the real
// offset afterwards.
func parseNaive(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Input: s}
}

// parseOffset parses "+HH:MM", "-HH:MM" or "+HH" into a duration.
func parseOffset(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, &ParseError{Input: s}
	}
	sign := time.Duration(1)
	if s[0] == '-' {
		sign = -1
	}

	hStr, mStr, hasMin := strings.Cut(s[1:], ":")
	hours, err := strconv.Atoi(hStr)
	if err != nil {
		return 0, &ParseError{Input: s}
	}
	minutes := 0
	if hasMin {
		minutes, err = strconv.Atoi(mStr)
		if err != nil {
			return 0, &ParseError{Input: s}
		}
	}
	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

func hintOffset(tzHint string) time.Duration {
	return time.Duration(tzOffsets[tzHint]) * time.Hour
}
