package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks backed by Redis. The same checker
// serves two concerns with different key suffixes: suppressing byte-identical
// document re-uploads (suffix is a content checksum) and suppressing repeat
// verification runs (suffix is "processed:<document_id>").
//
// Key format: dedup:<case_id>:<suffix>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this key has already been marked for the case.
func (d *DedupChecker) IsDuplicate(ctx context.Context, caseID, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(caseID, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the key for the case (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, caseID, key string) error {
	return d.client.Set(ctx, d.key(caseID, key), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(caseID, key string) string {
	return fmt.Sprintf("dedup:%s:%s", caseID, key)
}
