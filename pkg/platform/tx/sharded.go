package tx

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	dErrors "stableford/pkg/domain-errors"
)

// numShards bounds lock memory while keeping contention between unrelated
// keys low.
const numShards = 128

// DefaultTimeout is applied when the caller's context has no deadline.
const DefaultTimeout = 5 * time.Second

// ShardedLocker serializes work per key. Keys hash onto a fixed set of
// single-slot semaphores so two keys may share a shard; the same key always
// maps to the same shard.
type ShardedLocker struct {
	shards  [numShards]*semaphore.Weighted
	timeout time.Duration
}

// NewShardedLocker returns a locker. A zero timeout uses DefaultTimeout.
func NewShardedLocker(timeout time.Duration) *ShardedLocker {
	l := &ShardedLocker{timeout: timeout}
	for i := range l.shards {
		l.shards[i] = semaphore.NewWeighted(1)
	}
	return l
}

// WithLock runs fn while holding the shard lock for key. Waiting for the lock
// gives up when ctx is done.
func (l *ShardedLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := l.timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := l.shards[shardFor(key)]
	if err := shard.Acquire(ctx, 1); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: lock wait exceeded deadline")
	}
	defer shard.Release(1)

	// Acquire may win the race against a deadline that just passed.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

func shardFor(key string) int {
	return int(hashString(key) % numShards)
}

// hashString is FNV-1a.
func hashString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
