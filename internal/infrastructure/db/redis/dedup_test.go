package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestChecker(t *testing.T) (*DedupChecker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDedupChecker(client), mr
}

func TestDedupChecker_MarkAndCheck(t *testing.T) {
	checker, _ := newTestChecker(t)
	ctx := context.Background()

	dup, err := checker.IsDuplicate(ctx, "case-1", "abc123")
	if err != nil {
		t.Fatalf("IsDuplicate returned error: %v", err)
	}
	if dup {
		t.Fatalf("unmarked key reported as duplicate")
	}

	if err := checker.Mark(ctx, "case-1", "abc123"); err != nil {
		t.Fatalf("Mark returned error: %v", err)
	}

	dup, err = checker.IsDuplicate(ctx, "case-1", "abc123")
	if err != nil {
		t.Fatalf("IsDuplicate returned error: %v", err)
	}
	if !dup {
		t.Fatalf("marked key not reported as duplicate")
	}

	// Same checksum under a different case is independent.
	dup, _ = checker.IsDuplicate(ctx, "case-2", "abc123")
	if dup {
		t.Fatalf("keys must be scoped per case")
	}
}

func TestDedupChecker_Expires(t *testing.T) {
	checker, mr := newTestChecker(t)
	ctx := context.Background()

	if err := checker.Mark(ctx, "case-1", "processed:d1"); err != nil {
		t.Fatalf("Mark returned error: %v", err)
	}

	mr.FastForward(dedupTTL + 1)

	dup, err := checker.IsDuplicate(ctx, "case-1", "processed:d1")
	if err != nil {
		t.Fatalf("IsDuplicate returned error: %v", err)
	}
	if dup {
		t.Fatalf("expired key still reported as duplicate")
	}
}
