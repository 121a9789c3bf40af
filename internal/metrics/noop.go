package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) EventsNormalized(source string, count int)                            {}
func (n *NoopSink) EventsDropped(source string, count int)                               {}
func (n *NoopSink) FeedError(source string)                                              {}
func (n *NoopSink) RefreshCompleted(duration time.Duration, totalEvents int, err error)  {}
func (n *NoopSink) QueryCompleted(endpoint string, duration time.Duration)               {}
func (n *NoopSink) ReassignmentExecuted(outcome string)                                  {}
