package cache

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/storage"
)

// CachedStore storage.ChunkStore с read-through кешем.
// Save и Delete сначала пишут в хранилище, затем обновляют или сбрасывают кеш;
// ошибки кеша на результат операции не влияют.
type CachedStore struct {
	store storage.ChunkStore
	cache BlobCache
	ttl   time.Duration
}

// NewCachedStore оборачивает хранилище; ttl = 0: TTL по умолчанию кеша
func NewCachedStore(store storage.ChunkStore, cache BlobCache, ttl time.Duration) *CachedStore {
	return &CachedStore{store: store, cache: cache, ttl: ttl}
}

// Cache возвращает используемый кеш
func (c *CachedStore) Cache() BlobCache { return c.cache }

func (c *CachedStore) Load(ctx context.Context, key storage.ChunkKey) ([]byte, error) {
	ck := key.String()
	if data, err := c.cache.Get(ctx, ck); err == nil {
		return data, nil
	} else if !IsCacheMiss(err) {
		logging.Warn("cache get %s: %v", ck, err)
	}

	data, err := c.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, ck, data, c.ttl); err != nil {
		logging.Warn("cache set %s: %v", ck, err)
	}
	return data, nil
}

func (c *CachedStore) Save(ctx context.Context, key storage.ChunkKey, data []byte) error {
	if err := c.store.Save(ctx, key, data); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key.String(), data, c.ttl); err != nil {
		logging.Warn("cache set %s: %v", key, err)
		// Старое значение в кеше устарело
		_ = c.cache.Delete(ctx, key.String())
	}
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, key storage.ChunkKey) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, key.String()); err != nil {
		logging.Warn("cache delete %s: %v", key, err)
	}
	return nil
}

// List не кешируется
func (c *CachedStore) List(ctx context.Context, region string) ([]storage.ChunkKey, error) {
	return c.store.List(ctx, region)
}

// Close закрывает и кеш, и хранилище
func (c *CachedStore) Close() error {
	return multierr.Combine(c.cache.Close(), c.store.Close())
}
