package service

import (
	"context"
	"time"

	id "stableford/pkg/domain"
	"stableford/pkg/platform/tx"
)

// StoreTx serializes work on one round from the first read to the last
// write. Different rounds never contend.
type StoreTx interface {
	RunInTx(ctx context.Context, roundID id.RoundID, fn func(ctx context.Context, store Store) error) error
}

type shardedTx struct {
	locker *tx.ShardedLocker
	store  Store
}

// NewShardedTx returns an in-process StoreTx over store.
func NewShardedTx(store Store, timeout time.Duration) StoreTx {
	return &shardedTx{locker: tx.NewShardedLocker(timeout), store: store}
}

func (t *shardedTx) RunInTx(ctx context.Context, roundID id.RoundID, fn func(ctx context.Context, store Store) error) error {
	return t.locker.WithLock(ctx, "round:"+roundID.String(), func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}

// KeyedRunner runs fn in a storage transaction serialized on key.
type KeyedRunner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type runnerTx struct {
	runner KeyedRunner
	store  Store
}

func NewRunnerTx(runner KeyedRunner, store Store) StoreTx {
	return &runnerTx{runner: runner, store: store}
}

func (t *runnerTx) RunInTx(ctx context.Context, roundID id.RoundID, fn func(ctx context.Context, store Store) error) error {
	return t.runner.RunInTx(ctx, "round:"+roundID.String(), func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}
