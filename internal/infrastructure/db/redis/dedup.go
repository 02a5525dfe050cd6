package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetlog/duty-status/internal/api/metrics"
	"github.com/fleetlog/duty-status/internal/core/domain"
)

const defaultDedupTTL = time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Key format: dedup:<tenant>/<operator>:<status_code>:<unix_ts>:<device>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// A non-positive ttl selects one hour.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether this exact report has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, key domain.OperatorKey, status domain.DutyStatus, ts int64, deviceID string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(key, status, ts, deviceID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.ReportsDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.ReportsDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records that this report has been applied (expires after the TTL).
func (d *DedupChecker) Mark(ctx context.Context, key domain.OperatorKey, status domain.DutyStatus, ts int64, deviceID string) error {
	return d.client.Set(ctx, dedupKey(key, status, ts, deviceID), "1", d.ttl).Err()
}

// Ping reports whether Redis is reachable.
func (d *DedupChecker) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func dedupKey(key domain.OperatorKey, status domain.DutyStatus, ts int64, deviceID string) string {
	return fmt.Sprintf("dedup:%s:%d:%d:%s", key, int(status.Coerce()), ts, deviceID)
}
