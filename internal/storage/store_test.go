package storage

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/nbt"
	"github.com/annel0/nbtview/internal/world"
	"github.com/annel0/nbtview/internal/world/block"
)

// testChunkStore общий набор проверок для любого бэкенда
func testChunkStore(t *testing.T, store ChunkStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := store.Load(ctx, Key("test", 100, 100))
		assert.True(t, errors.Is(err, ErrChunkNotFound), "got %v", err)
	})

	t.Run("save load overwrite", func(t *testing.T) {
		key := Key("test", -1, 2)
		require.NoError(t, store.Save(ctx, key, []byte{1, 2, 3}))

		data, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)

		require.NoError(t, store.Save(ctx, key, []byte{9}))
		data, err = store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte{9}, data)
	})

	t.Run("list sorted per region", func(t *testing.T) {
		for _, k := range []ChunkKey{Key("list", 1, 0), Key("list", -2, 5), Key("list", 1, -1), Key("other", 0, 0)} {
			require.NoError(t, store.Save(ctx, k, []byte{0}))
		}
		keys, err := store.List(ctx, "list")
		require.NoError(t, err)
		assert.Equal(t, []ChunkKey{Key("list", -2, 5), Key("list", 1, -1), Key("list", 1, 0)}, keys)

		keys, err = store.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("delete", func(t *testing.T) {
		key := Key("test", 7, 7)
		require.NoError(t, store.Save(ctx, key, []byte{1}))
		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key), "повторное удаление не ошибка")

		_, err := store.Load(ctx, key)
		assert.True(t, errors.Is(err, ErrChunkNotFound))
	})

	t.Run("tag round trip", func(t *testing.T) {
		chunk := world.NewEmptyTagChunk(3, -4)
		chunk.SetBlock(1, 2, 3, block.CobblestoneID)

		key := Key("tags", 3, -4)
		require.NoError(t, SaveTag(ctx, store, key, chunk.Root()))

		root, err := LoadTag(ctx, store, key)
		require.NoError(t, err)
		loaded, err := world.NewTagChunk(root)
		require.NoError(t, err)

		b, ok := loaded.Block(1, 2, 3)
		require.True(t, ok)
		assert.Equal(t, int(block.CobblestoneID), b.BlockID())
		assert.Equal(t, 3, loaded.Coords().X)
		assert.Equal(t, -4, loaded.Coords().Z)
	})

	t.Run("empty region rejected", func(t *testing.T) {
		err := store.Save(ctx, Key("", 0, 0), []byte{1})
		assert.True(t, errors.Is(err, ErrBadKey))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testChunkStore(t, store)

	require.NoError(t, store.Close())
	_, err := store.Load(context.Background(), Key("test", 0, 0))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte{1, 2}
	require.NoError(t, store.Save(context.Background(), Key("r", 0, 0), data))
	data[0] = 99

	got, err := store.Load(context.Background(), Key("r", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got)
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	testChunkStore(t, store)

	// Регион "list:x" не должен попасть в выборку региона "list"
	require.NoError(t, store.Save(context.Background(), Key("list:x", 0, 0), []byte{1}))
	keys, err := store.List(context.Background(), "list")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestBadgerStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), Key("r", 1, 1), []byte("persist")))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Load(context.Background(), Key("r", 1, 1))
	assert.ErrorIs(t, err, ErrClosed)

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Load(context.Background(), Key("r", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []byte("persist"), data)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLStore(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	testChunkStore(t, store)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("NBTVIEW_MYSQL_DSN")
	if dsn == "" {
		t.Skip("NBTVIEW_MYSQL_DSN not set, skipping test")
	}
	store, err := NewSQLStore(DriverMySQL, dsn)
	if err != nil {
		t.Skipf("MySQL not available, skipping test: %v", err)
		return
	}
	defer store.Close()

	testChunkStore(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("NBTVIEW_MONGO_URI")
	if uri == "" {
		t.Skip("NBTVIEW_MONGO_URI not set, skipping test")
	}
	store, err := NewMongoStore(MongoConfig{URI: uri, Database: "nbtview_test", Collection: "chunks_test"})
	if err != nil {
		t.Skipf("MongoDB not available, skipping test: %v", err)
		return
	}
	defer store.Close()
	require.NoError(t, store.Drop(context.Background()))

	testChunkStore(t, store)
}

func TestNewSQLStore_UnknownDriver(t *testing.T) {
	_, err := NewSQLStore("postgres", "")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open(Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, store)
	require.NoError(t, store.Close())

	store, err = Open(Options{Driver: "badger", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(Options{Driver: "cassandra"})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    ChunkKey
		wantErr bool
	}{
		{"overworld:1:-2", Key("overworld", 1, -2), false},
		{"a:b:3:4", Key("a:b", 3, 4), false},
		{"r:1", ChunkKey{}, true},
		{":1:2", ChunkKey{}, true},
		{"r:x:2", ChunkKey{}, true},
		{"r:1:z", ChunkKey{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestLoadTag_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, Key("r", 0, 0), []byte{0x0a, 0x00}))
	_, err := LoadTag(ctx, store, Key("r", 0, 0))
	assert.Error(t, err)

	require.NoError(t, SaveTag(ctx, store, Key("r", 1, 0), nbt.NewInt("", 5)))
	_, err = LoadTag(ctx, store, Key("r", 1, 0))
	assert.ErrorContains(t, err, "TAG_Int")
}

func TestStoreRegion_InWorld(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	chunk := world.NewEmptyTagChunk(1, -1)
	chunk.SetBlock(4, 70, 13, block.GravelID)
	require.NoError(t, SaveTag(ctx, store, Key("overworld", 1, -1), chunk.Root()))
	// Повреждённый чанк рядом
	require.NoError(t, store.Save(ctx, Key("overworld", 2, -1), []byte{0xff}))

	region := NewStoreRegion("overworld", store, 0)
	w := world.NewRegionWorld(region, world.WithCanonicalOffsets())

	b, ok := w.Block(20, 70, -3)
	require.True(t, ok)
	assert.Equal(t, int(block.GravelID), b.BlockID())

	_, ok = w.Block(40, 70, -3)
	assert.False(t, ok, "повреждённый чанк: отсутствие блока")

	_, ok = w.Block(-100, 70, -3)
	assert.False(t, ok)

	_, err := region.Chunk(5, 5)
	assert.ErrorIs(t, err, world.ErrChunkNotFound)
}

func TestPublishingStore(t *testing.T) {
	ctx := context.Background()
	bus := eventbus.NewMemoryBus(8)

	var mu sync.Mutex
	var got []eventbus.ChunkEvent
	var types []string
	_, err := bus.Subscribe(ctx, eventbus.Filter{Sources: []string{EventSource}}, func(_ context.Context, env *eventbus.Envelope) {
		ev, err := eventbus.DecodeChunkEvent(env)
		assert.NoError(t, err)
		mu.Lock()
		got = append(got, ev)
		types = append(types, env.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	store := WithEvents(NewMemoryStore(), bus)
	require.NoError(t, store.Save(ctx, Key("r", 1, 2), []byte{1, 2, 3}))
	require.NoError(t, store.Delete(ctx, Key("r", 1, 2)))
	assert.Error(t, store.Save(ctx, Key("", 0, 0), nil), "неудачная запись не публикуется")
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{eventbus.ChunkSaved, eventbus.ChunkDeleted}, types)
	assert.Equal(t, eventbus.ChunkEvent{Region: "r", X: 1, Z: 2, Size: 3}, got[0])

	plain := NewMemoryStore()
	assert.Same(t, plain, WithEvents(plain, nil))
}
