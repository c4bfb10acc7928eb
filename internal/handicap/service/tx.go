package service

import (
	"context"
	"time"

	id "stableford/pkg/domain"
	"stableford/pkg/platform/tx"
)

// StoreTx is the unit of work for timeline mutations. Implementations must
// serialize work per player from the first read of the player's records
// through the final write: a sharded lock in memory, a transaction plus
// advisory lock in Postgres. Cache fills for Current run inside it too.
type StoreTx interface {
	RunInTx(ctx context.Context, playerID id.PlayerID, fn func(ctx context.Context, store Store) error) error
}

// shardedTx serializes per player with a sharded mutex over a single store.
type shardedTx struct {
	locker *tx.ShardedLocker
	store  Store
}

// NewShardedTx returns an in-process StoreTx. Use it with in-memory stores or
// single-instance deployments.
func NewShardedTx(store Store, timeout time.Duration) StoreTx {
	return &shardedTx{locker: tx.NewShardedLocker(timeout), store: store}
}

func (t *shardedTx) RunInTx(ctx context.Context, playerID id.PlayerID, fn func(ctx context.Context, store Store) error) error {
	return t.locker.WithLock(ctx, playerID.String(), func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}

// KeyedRunner runs fn in a storage transaction serialized on key. The
// transaction travels in the context given to fn.
type KeyedRunner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type runnerTx struct {
	runner KeyedRunner
	store  Store
}

// NewRunnerTx adapts a database transaction runner, such as postgres.Runner,
// to a StoreTx over a store that reads its transaction from the context.
func NewRunnerTx(runner KeyedRunner, store Store) StoreTx {
	return &runnerTx{runner: runner, store: store}
}

func (t *runnerTx) RunInTx(ctx context.Context, playerID id.PlayerID, fn func(ctx context.Context, store Store) error) error {
	return t.runner.RunInTx(ctx, "handicap:"+playerID.String(), func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}
