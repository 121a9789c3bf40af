// Package feed turns the provider feed files in the data directory
// into one canonical event snapshot. A feed that is missing on disk is
// simply skipped; a feed that fails to decode is logged and counted
// but never takes the other feeds down with it.
package feed

import (
	"context"
	"log"
	"os"

	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/metrics"
	"github.com/teampulse-io/teampulse/internal/normalizer"
)

// Paths names the feed file per source. Empty means the source is not
// configured.
type Paths struct {
	GoogleJSON    string
	GoogleCSV     string
	MicrosoftJSON string
	ICS           string
}

// RosterSource supplies the roster consulted by sources that cannot
// carry employee identity themselves.
type RosterSource interface {
	Employees() ([]domain.Employee, error)
}

type Loader struct {
	paths  Paths
	roster RosterSource
	sink   metrics.Sink
}

func NewLoader(paths Paths, roster RosterSource, sink metrics.Sink) *Loader {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &Loader{paths: paths, roster: roster, sink: sink}
}

// LoadAll reads every configured feed file and normalizes it. Events
// are returned grouped by source, in the fixed source order.
func (l *Loader) LoadAll(ctx context.Context) ([]domain.CanonicalEvent, error) {
	roster, err := l.roster.Employees()
	if err != nil {
		return nil, err
	}

	feeds := []struct {
		source domain.Source
		path   string
	}{
		{domain.SourceGoogle, l.paths.GoogleJSON},
		{domain.SourceGoogleCSV, l.paths.GoogleCSV},
		{domain.SourceMicrosoft, l.paths.MicrosoftJSON},
		{domain.SourceICS, l.paths.ICS},
	}

	var all []domain.CanonicalEvent
	for _, f := range feeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.path == "" {
			continue
		}

		payload, err := os.ReadFile(f.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Printf("feed: read %s feed: %v", f.source, err)
			l.sink.FeedError(string(f.source))
			continue
		}

		events, dropped, err := normalizer.Normalize(payload, f.source, roster)
		if err != nil {
			log.Printf("feed: normalize %s feed: %v", f.source, err)
			l.sink.FeedError(string(f.source))
			continue
		}

		if dropped > 0 {
			log.Printf("feed: %s feed dropped %d unusable entries", f.source, dropped)
			l.sink.EventsDropped(string(f.source), dropped)
		}
		l.sink.EventsNormalized(string(f.source), len(events))
		all = append(all, events...)
	}

	return all, nil
}
