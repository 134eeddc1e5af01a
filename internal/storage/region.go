package storage

import (
	"context"
	"errors"
	"time"

	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/world"
)

// DefaultLookupTimeout таймаут одного обращения StoreRegion к хранилищу
const DefaultLookupTimeout = 2 * time.Second

// StoreRegion world.Region поверх ChunkStore: загружает и декодирует
// дерево тегов чанка и отдаёт его как world.TagChunk.
type StoreRegion struct {
	name    string
	store   ChunkStore
	timeout time.Duration
}

// NewStoreRegion создаёт регион; timeout <= 0 заменяется DefaultLookupTimeout
func NewStoreRegion(name string, store ChunkStore, timeout time.Duration) *StoreRegion {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &StoreRegion{name: name, store: store, timeout: timeout}
}

func (r *StoreRegion) Name() string { return r.name }

// Chunk загружает чанк. Ошибки возвращаются как есть: фасад мира сам
// превращает их в отсутствие блока.
func (r *StoreRegion) Chunk(cx, cz int) (world.Chunk, error) {
	chunk, err := r.TagChunk(cx, cz)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// TagChunk то же, что Chunk, но с конкретным типом
func (r *StoreRegion) TagChunk(cx, cz int) (*world.TagChunk, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	key := Key(r.name, cx, cz)
	root, err := LoadTag(ctx, r.store, key)
	if err != nil {
		if !errors.Is(err, ErrChunkNotFound) {
			logging.Debug("StoreRegion %s: %v", key, err)
		}
		return nil, err
	}
	return world.NewTagChunk(root)
}
