package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/nbtview/internal/cache"
	"github.com/annel0/nbtview/internal/config"
	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/storage"
	"github.com/annel0/nbtview/internal/world"
	"github.com/annel0/nbtview/internal/world/block"
)

func TestOpen_DefaultStack(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, nil)
	require.NoError(t, err)

	assert.IsType(t, &storage.MemoryStore{}, s.Backend)
	assert.IsType(t, &cache.CachedStore{}, s.Store)
	assert.IsType(t, &cache.MemoryCache{}, s.Cache)
	assert.IsType(t, &eventbus.MemoryBus{}, s.Bus)

	chunk := world.NewEmptyTagChunk(0, 0)
	chunk.SetBlock(1, 64, 1, block.LogID)
	require.NoError(t, storage.SaveTag(ctx, s.Store, storage.Key("overworld", 0, 0), chunk.Root()))

	b, ok := s.World().Block(1, 64, 1)
	require.True(t, ok)
	assert.Equal(t, int(block.LogID), b.BlockID())

	// Запись прошла через PublishingStore и дошла до бэкенда
	data, err := s.Backend.Load(ctx, storage.Key("overworld", 0, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, s.Close())
	assert.Equal(t, uint64(1), s.Bus.Metrics().Published)
}

func TestOpen_NoCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.TTLSeconds = 0
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = ":memory:"
	cfg.World.CanonicalOffsets = true

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Cache)
	assert.IsType(t, &storage.PublishingStore{}, s.Store)

	w := s.RegionWorld("nether")
	assert.Equal(t, "nether", w.Name())
	assert.Equal(t, 15, w.LocalCoords(-1, -1).X)
}

func TestOpen_BadDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "cassandra"

	s, err := Open(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, s)
}
