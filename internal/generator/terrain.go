package generator

import (
	"context"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/annel0/nbtview/internal/storage"
	"github.com/annel0/nbtview/internal/world"
	"github.com/annel0/nbtview/internal/world/block"
)

// Параметры рельефа
const (
	SeaLevel   = 62
	BaseHeight = 64
	Amplitude  = 24
	Scale      = 0.02 // частота шума на блок
)

// Terrain генерирует alpha-чанки по шуму Перлина. Один и тот же сид
// всегда даёт один и тот же мир.
type Terrain struct {
	seed  int64
	noise *perlin.Perlin
}

// NewTerrain создаёт генератор с указанным сидом
func NewTerrain(seed int64) *Terrain {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Terrain{seed: seed, noise: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Seed возвращает сид генератора
func (t *Terrain) Seed() int64 { return t.seed }

// HeightAt возвращает высоту поверхности в мировой колонке (x, z)
func (t *Terrain) HeightAt(x, z int) int {
	// Noise2D возвращает значение примерно от -1 до 1
	n := t.noise.Noise2D(float64(x)*Scale, float64(z)*Scale)
	h := BaseHeight + int(math.Round(n*Amplitude))
	return min(max(h, world.MinY+1), world.MaxY-1)
}

// Chunk строит чанк (cx, cz) в формате дерева тегов
func (t *Terrain) Chunk(cx, cz int) *world.TagChunk {
	chunk := world.NewEmptyTagChunk(cx, cz)

	for lx := 0; lx < world.MaxX; lx++ {
		for lz := 0; lz < world.MaxZ; lz++ {
			height := t.HeightAt(cx*world.MaxX+lx, cz*world.MaxZ+lz)

			chunk.SetBlock(lx, world.MinY, lz, block.BedrockID)
			for y := world.MinY + 1; y <= height; y++ {
				chunk.SetBlock(lx, y, lz, t.layer(y, height))
			}
			for y := height + 1; y <= SeaLevel; y++ {
				chunk.SetBlock(lx, y, lz, block.WaterID)
			}
		}
	}
	return chunk
}

// layer выбирает блок колонки по глубине под поверхностью
func (t *Terrain) layer(y, height int) block.ID {
	switch depth := height - y; {
	case depth == 0 && height < SeaLevel:
		return block.SandID
	case depth == 0:
		return block.GrassID
	case depth <= 3:
		return block.DirtID
	}
	return block.StoneID
}

// Progress вызывается после каждого сохранённого чанка
type Progress func(done, total int)

// Fill сохраняет в store квадрат чанков со стороной 2*radius+1 вокруг (0, 0)
func (t *Terrain) Fill(ctx context.Context, store storage.ChunkStore, region string, radius int, progress Progress) error {
	if radius < 0 {
		return fmt.Errorf("radius must be >= 0, got %d", radius)
	}

	side := 2*radius + 1
	total := side * side
	done := 0
	for cx := -radius; cx <= radius; cx++ {
		for cz := -radius; cz <= radius; cz++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunk := t.Chunk(cx, cz)
			if err := storage.SaveTag(ctx, store, storage.Key(region, cx, cz), chunk.Root()); err != nil {
				return fmt.Errorf("save chunk (%d, %d): %w", cx, cz, err)
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}
	return nil
}
