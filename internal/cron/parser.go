// Package cron validates and evaluates the refresh schedule
// expression. Five-field expressions only; seconds are not supported,
// and the schedule always fires on UTC wall time.
package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var fieldParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Parse compiles a refresh expression. The returned Schedule evaluates
// Next in UTC regardless of the zone the caller's time carries.
func Parse(expression string) (Schedule, error) {
	sched, err := fieldParser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse cron: %w", err)
	}
	return utcSchedule{sched: sched}, nil
}

type Schedule interface {
	Next(after time.Time) time.Time
}

type utcSchedule struct {
	sched cron.Schedule
}

func (s utcSchedule) Next(after time.Time) time.Time {
	return s.sched.Next(after.UTC())
}
