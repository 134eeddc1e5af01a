package world

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/vec"
)

// World отвечает на вопрос «какой блок стоит в (x, y, z)»
type World interface {
	Name() string
	// Block возвращает false, если блока нет или чанк не удалось получить
	Block(x, y, z int) (Block, bool)
	// ChunkFor возвращает чанк, содержащий колонку (x, z)
	ChunkFor(x, z int) (Chunk, bool)
}

// RegionWorld World поверх одного региона. Состояния не хранит:
// каждый запрос сворачивает координаты и идёт в регион заново.
//
// Ошибки и panic региона и чанка превращаются в отсутствие блока,
// логируются на уровне DEBUG и считаются в метриках.
type RegionWorld struct {
	region    Region
	logger    *logging.Logger
	metrics   *Metrics
	label     string
	canonical bool
}

// Option настраивает RegionWorld
type Option func(*RegionWorld)

// WithLogger задаёт логгер (по умолчанию: логгер компонента "world")
func WithLogger(l *logging.Logger) Option {
	return func(w *RegionWorld) { w.logger = l }
}

// WithMetrics включает счётчики обращений
func WithMetrics(m *Metrics) Option {
	return func(w *RegionWorld) { w.metrics = m }
}

// WithMetricsLabel задаёт значение метки region вместо имени региона.
// Нужен, когда имя региона приходит извне и множить серии нельзя.
func WithMetricsLabel(label string) Option {
	return func(w *RegionWorld) { w.label = label }
}

// WithCanonicalOffsets переключает локальные смещения на FloorMod (всегда в [0, 16)).
// По умолчанию используется LegacyMod, который для отрицательных координат
// даёт смещения вне сетки.
func WithCanonicalOffsets() Option {
	return func(w *RegionWorld) { w.canonical = true }
}

// NewRegionWorld создаёт фасад над регионом
func NewRegionWorld(region Region, opts ...Option) *RegionWorld {
	if region == nil {
		panic("world: nil region")
	}
	w := &RegionWorld{region: region}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.GetWorldLogger()
	}
	return w
}

func (w *RegionWorld) Name() string { return w.region.Name() }

// Region возвращает регион фасада
func (w *RegionWorld) Region() Region { return w.region }

// ChunkCoords сворачивает мировые x/z в координаты чанка
func (w *RegionWorld) ChunkCoords(x, z int) vec.Vec2 {
	return vec.Vec2{X: x, Z: z}.ChunkCoords(MaxX, MaxZ)
}

// LocalCoords возвращает локальные смещения x/z внутри чанка
func (w *RegionWorld) LocalCoords(x, z int) vec.Vec2 {
	p := vec.Vec2{X: x, Z: z}
	if w.canonical {
		return p.LocalInChunk(MaxX, MaxZ)
	}
	return p.LegacyLocal(MaxX, MaxZ)
}

func (w *RegionWorld) ChunkFor(x, z int) (Chunk, bool) {
	chunk, result := w.chunkFor(x, z)
	if chunk == nil {
		w.metrics.observe(w.metricsLabel(), result)
		return nil, false
	}
	return chunk, true
}

func (w *RegionWorld) Block(x, y, z int) (b Block, ok bool) {
	name := w.region.Name()
	label := w.metricsLabel()

	chunk, result := w.chunkFor(x, z)
	if chunk == nil {
		w.metrics.observe(label, result)
		return nil, false
	}

	local := w.LocalCoords(x, z)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("block (%d, %d, %d) in region %q: %v", x, y, z, name, r)
			w.metrics.observe(label, ResultError)
			b, ok = nil, false
		}
	}()

	b, ok = chunk.Block(local.X, y, local.Z)
	if !ok || b == nil {
		w.metrics.observe(label, ResultEmpty)
		return nil, false
	}
	w.metrics.observe(label, ResultFound)
	return b, true
}

// chunkFor возвращает чанк или nil вместе с причиной отсутствия
func (w *RegionWorld) chunkFor(x, z int) (chunk Chunk, result string) {
	cc := w.ChunkCoords(x, z)
	name := w.region.Name()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("chunk (%d, %d) in region %q: panic: %v", cc.X, cc.Z, name, r)
			chunk, result = nil, ResultError
		}
	}()

	chunk, err := w.region.Chunk(cc.X, cc.Z)
	switch {
	case errors.Is(err, ErrChunkNotFound):
		return nil, ResultChunkMissing
	case err != nil:
		w.logger.Debug("chunk (%d, %d) in region %q: %v", cc.X, cc.Z, name, err)
		return nil, ResultError
	case isNil(chunk):
		return nil, ResultChunkMissing
	}
	return chunk, ResultFound
}

func (w *RegionWorld) metricsLabel() string {
	if w.label != "" {
		return w.label
	}
	return w.region.Name()
}

// isNil ловит и типизированный nil: (*TagChunk)(nil) в интерфейсе Chunk
// не равен nil, но пользоваться им нельзя.
func isNil(chunk Chunk) bool {
	if chunk == nil {
		return true
	}
	v := reflect.ValueOf(chunk)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// String для отладки
func (w *RegionWorld) String() string {
	return fmt.Sprintf("RegionWorld(%s, canonical=%t)", w.region.Name(), w.canonical)
}
