package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/annel0/nbtview/internal/nbt"
	"github.com/annel0/nbtview/internal/world"
)

var (
	// ErrChunkNotFound совпадает с world.ErrChunkNotFound, чтобы StoreRegion
	// отдавал фасаду мира ту же ошибку
	ErrChunkNotFound = world.ErrChunkNotFound
	ErrClosed        = errors.New("storage: closed")
	ErrBadKey        = errors.New("storage: bad chunk key")
)

// ChunkKey адрес чанка в хранилище
type ChunkKey struct {
	Region string
	X      int
	Z      int
}

// Key строит ChunkKey
func Key(region string, x, z int) ChunkKey {
	return ChunkKey{Region: region, X: x, Z: z}
}

// String возвращает ключ в виде region:x:z
func (k ChunkKey) String() string {
	return k.Region + ":" + strconv.Itoa(k.X) + ":" + strconv.Itoa(k.Z)
}

// Validate проверяет имя региона
func (k ChunkKey) Validate() error {
	if k.Region == "" {
		return fmt.Errorf("%w: empty region", ErrBadKey)
	}
	return nil
}

// ParseKey разбирает строку region:x:z (имя региона может содержать ':')
func ParseKey(s string) (ChunkKey, error) {
	zSep := strings.LastIndexByte(s, ':')
	if zSep < 0 {
		return ChunkKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	xSep := strings.LastIndexByte(s[:zSep], ':')
	if xSep <= 0 {
		return ChunkKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}

	x, err := strconv.Atoi(s[xSep+1 : zSep])
	if err != nil {
		return ChunkKey{}, fmt.Errorf("%w: %q: %v", ErrBadKey, s, err)
	}
	z, err := strconv.Atoi(s[zSep+1:])
	if err != nil {
		return ChunkKey{}, fmt.Errorf("%w: %q: %v", ErrBadKey, s, err)
	}
	return ChunkKey{Region: s[:xSep], X: x, Z: z}, nil
}

// ChunkStore хранит закодированные деревья тегов чанков
type ChunkStore interface {
	// Load возвращает ErrChunkNotFound, если чанка нет
	Load(ctx context.Context, key ChunkKey) ([]byte, error)
	Save(ctx context.Context, key ChunkKey, data []byte) error
	// Delete отсутствующего чанка не является ошибкой
	Delete(ctx context.Context, key ChunkKey) error
	// List возвращает ключи региона, отсортированные по X, затем по Z
	List(ctx context.Context, region string) ([]ChunkKey, error)
	Close() error
}

// SaveTag кодирует дерево и сохраняет его
func SaveTag(ctx context.Context, store ChunkStore, key ChunkKey, root nbt.Tag) error {
	data, err := nbt.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode chunk %s: %w", key, err)
	}
	return store.Save(ctx, key, data)
}

// LoadTag загружает и декодирует дерево чанка
func LoadTag(ctx context.Context, store ChunkStore, key ChunkKey) (*nbt.Compound, error) {
	data, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	tag, err := nbt.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode chunk %s: %w", key, err)
	}
	root, ok := tag.(*nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("decode chunk %s: root is %s, want %s", key, tag.Kind(), nbt.KindCompound)
	}
	return root, nil
}

func sortKeys(keys []ChunkKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Z < keys[j].Z
	})
}
