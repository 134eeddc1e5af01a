package world

import (
	"errors"
	"sync"

	"github.com/annel0/nbtview/internal/vec"
)

// ErrChunkNotFound возвращается регионом, если чанка нет
var ErrChunkNotFound = errors.New("chunk not found")

// Region именованный источник чанков
type Region interface {
	Name() string
	// Chunk может вернуть ошибку, (nil, nil) или ErrChunkNotFound для отсутствующего чанка
	Chunk(cx, cz int) (Chunk, error)
}

// MemoryRegion хранит чанки в памяти
type MemoryRegion struct {
	name   string
	mu     sync.RWMutex
	chunks map[vec.Vec2]Chunk
}

func NewMemoryRegion(name string) *MemoryRegion {
	return &MemoryRegion{
		name:   name,
		chunks: make(map[vec.Vec2]Chunk),
	}
}

func (r *MemoryRegion) Name() string { return r.name }

// Put кладёт чанк; nil удаляет его
func (r *MemoryRegion) Put(cx, cz int, chunk Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := vec.Vec2{X: cx, Z: cz}
	if chunk == nil {
		delete(r.chunks, key)
		return
	}
	r.chunks[key] = chunk
}

func (r *MemoryRegion) Chunk(cx, cz int) (Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chunk, ok := r.chunks[vec.Vec2{X: cx, Z: cz}]
	if !ok {
		return nil, ErrChunkNotFound
	}
	return chunk, nil
}

// Len число чанков в регионе
func (r *MemoryRegion) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}
