package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/nbtview/internal/nbt"
	"github.com/annel0/nbtview/internal/vec"
	"github.com/annel0/nbtview/internal/world/block"
)

// Chunk сетка блоков, адресуемая локальными координатами
type Chunk interface {
	// Block возвращает false, если блока в данной клетке нет
	Block(localX, y, localZ int) (Block, bool)
}

var (
	ErrMissingLevel  = errors.New("chunk: missing Level compound")
	ErrMissingBlocks = errors.New("chunk: missing Blocks byte array")
	ErrBlocksSize    = errors.New("chunk: unexpected Blocks size")
)

// BlocksLength размер массива Blocks в alpha-чанке
const BlocksLength = MaxX * MaxZ * Height

// BlockIndex индекс блока в массиве Blocks: Y меняется быстрее всего, затем Z, затем X
func BlockIndex(localX, y, localZ int) int {
	return (y - MinY) + localZ*Height + localX*Height*MaxZ
}

// MemoryChunk разреженный чанк в памяти. Принимает любые локальные
// координаты, в том числе вне сетки 16x128x16.
type MemoryChunk struct {
	mu     sync.RWMutex
	blocks map[vec.Vec3]Block
}

func NewMemoryChunk() *MemoryChunk {
	return &MemoryChunk{blocks: make(map[vec.Vec3]Block)}
}

// SetBlock ставит блок; nil удаляет его
func (c *MemoryChunk) SetBlock(localX, y, localZ int, b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := vec.Vec3{X: localX, Y: y, Z: localZ}
	if b == nil {
		delete(c.blocks, pos)
		return
	}
	c.blocks[pos] = b
}

func (c *MemoryChunk) Block(localX, y, localZ int) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.blocks[vec.Vec3{X: localX, Y: y, Z: localZ}]
	return b, ok
}

// Len число блоков в чанке
func (c *MemoryChunk) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// TagChunk чанк поверх дерева тегов alpha-формата:
//
//	TAG_Compound("")
//	  TAG_Compound("Level")
//	    TAG_Byte_Array("Blocks"): 32768 байт
//	    TAG_Int("xPos"), TAG_Int("zPos")
//
// Блоки читаются и пишутся прямо в массив тега, без копирования.
type TagChunk struct {
	root   *nbt.Compound
	level  *nbt.Compound
	blocks *nbt.ByteArray
}

// NewTagChunk принимает корень файла чанка или сам Compound "Level"
func NewTagChunk(root *nbt.Compound) (*TagChunk, error) {
	if root == nil {
		return nil, ErrMissingLevel
	}
	level, ok := root.GetCompound("Level")
	if !ok {
		if _, hasBlocks := root.Get("Blocks"); !hasBlocks {
			return nil, ErrMissingLevel
		}
		level = root
	}

	blocks, ok := level.GetByteArray("Blocks")
	if !ok {
		return nil, ErrMissingBlocks
	}
	if n := blocks.ChildCount(); n != BlocksLength {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBlocksSize, n, BlocksLength)
	}

	return &TagChunk{root: root, level: level, blocks: blocks}, nil
}

// NewEmptyTagChunk создаёт дерево тегов пустого чанка (все блоки: воздух)
func NewEmptyTagChunk(cx, cz int) *TagChunk {
	level := nbt.NewCompound("Level",
		nbt.NewByteArray("Blocks", make([]byte, BlocksLength)),
		nbt.NewInt("xPos", int32(cx)),
		nbt.NewInt("zPos", int32(cz)),
	)
	root := nbt.NewCompound("", level)
	chunk, _ := NewTagChunk(root)
	return chunk
}

// Root возвращает корень дерева (для сохранения)
func (c *TagChunk) Root() *nbt.Compound { return c.root }

// Coords возвращает координаты чанка из xPos/zPos
func (c *TagChunk) Coords() vec.Vec2 {
	x, _ := c.level.GetInt("xPos")
	z, _ := c.level.GetInt("zPos")
	return vec.Vec2{X: int(x), Z: int(z)}
}

// Block возвращает блок; координаты вне сетки: отсутствие блока
func (c *TagChunk) Block(localX, y, localZ int) (Block, bool) {
	if !InBounds(localX, y, localZ) {
		return nil, false
	}
	cell := c.blocks.Cell(BlockIndex(localX, y, localZ))
	return block.ID(cell.Get()), true
}

// SetBlock пишет блок в массив тега через ячейку; false: координаты вне сетки
func (c *TagChunk) SetBlock(localX, y, localZ int, id block.ID) bool {
	if !InBounds(localX, y, localZ) {
		return false
	}
	c.blocks.Cell(BlockIndex(localX, y, localZ)).SetValueAt(byte(id), nbt.ColumnValue)
	return true
}

// HeightAt возвращает Y самого верхнего не-воздушного блока или MinY-1
func (c *TagChunk) HeightAt(localX, localZ int) int {
	for y := MaxY - 1; y >= MinY; y-- {
		if b, ok := c.Block(localX, y, localZ); ok && b.BlockID() != int(block.AirID) {
			return y
		}
	}
	return MinY - 1
}
