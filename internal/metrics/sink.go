package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate errors.
// If the metrics backend is unavailable, implementations log warnings and continue.
type Sink interface {
	// Ingestion metrics
	EventsNormalized(source string, count int)
	EventsDropped(source string, count int)
	FeedError(source string)

	// Refresh metrics
	RefreshCompleted(duration time.Duration, totalEvents int, err error)

	// Query metrics
	QueryCompleted(endpoint string, duration time.Duration)

	// Reassignment metrics
	ReassignmentExecuted(outcome string)
}

// Outcome constants for ReassignmentExecuted.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
)
