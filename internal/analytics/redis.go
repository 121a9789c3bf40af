// Package analytics keeps rolling reassignment counters in Redis so a
// dashboard can chart churn per team member without scanning the audit
// trail. Counters are day-bucketed and expire on their own.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teampulse-io/teampulse/internal/domain"
)

// DefaultRetention keeps a counter long enough for a quarterly view.
const DefaultRetention = 90 * 24 * time.Hour

type RedisSink struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client, retention: DefaultRetention}
}

// RecordReassignment bumps the day-bucket counters for both sides of a
// commit: one for the member who lost the task, one for the member who
// gained it.
func (s *RedisSink) RecordReassignment(ctx context.Context, audit domain.ReassignmentAudit) error {
	bucket := audit.ExecutedAt.UTC().Format("20060102")
	fromKey := buildKey("from", audit.FromEmployeeID, bucket)
	toKey := buildKey("to", audit.ToEmployeeID, bucket)

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, fromKey)
	pipe.Expire(ctx, fromKey, s.retention)
	pipe.Incr(ctx, toKey)
	pipe.Expire(ctx, toKey, s.retention)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}

	return nil
}

func buildKey(direction, employeeID, bucket string) string {
	return fmt.Sprintf("reassign:%s:e:%s:%s", direction, employeeID, bucket)
}
