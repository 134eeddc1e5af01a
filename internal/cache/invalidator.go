package cache

import (
	"context"
	"sync/atomic"

	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/storage"
)

// Invalidator сбрасывает ключи кеша по событиям chunk.saved / chunk.deleted,
// опубликованным другими узлами. Свои события пропускаются: CachedStore
// уже обновил кеш при записи.
type Invalidator struct {
	cache BlobCache
	sub   eventbus.Subscription

	receivedCount    int64
	invalidatedCount int64
	errorsCount      int64
}

// StartInvalidator подписывается на события хранилища
func StartInvalidator(ctx context.Context, bus eventbus.EventBus, cache BlobCache) (*Invalidator, error) {
	inv := &Invalidator{cache: cache}

	filter := eventbus.Filter{Types: []string{eventbus.ChunkSaved, eventbus.ChunkDeleted}}
	sub, err := bus.Subscribe(ctx, filter, inv.handle)
	if err != nil {
		return nil, err
	}
	inv.sub = sub
	return inv, nil
}

func (inv *Invalidator) handle(ctx context.Context, env *eventbus.Envelope) {
	atomic.AddInt64(&inv.receivedCount, 1)
	if env.FromThisNode() {
		return
	}

	ev, err := eventbus.DecodeChunkEvent(env)
	if err != nil {
		atomic.AddInt64(&inv.errorsCount, 1)
		logging.Warn("invalidator: %v", err)
		return
	}

	key := storage.Key(ev.Region, ev.X, ev.Z).String()
	if err := inv.cache.Delete(ctx, key); err != nil {
		atomic.AddInt64(&inv.errorsCount, 1)
		logging.Error("invalidator: delete %s: %v", key, err)
		return
	}
	atomic.AddInt64(&inv.invalidatedCount, 1)
}

// Stop отписывается от шины
func (inv *Invalidator) Stop() {
	if inv.sub != nil {
		inv.sub.Unsubscribe()
	}
}

// GetMetrics возвращает счётчики инвалидатора
func (inv *Invalidator) GetMetrics() map[string]int64 {
	return map[string]int64{
		"received":    atomic.LoadInt64(&inv.receivedCount),
		"invalidated": atomic.LoadInt64(&inv.invalidatedCount),
		"errors":      atomic.LoadInt64(&inv.errorsCount),
	}
}
