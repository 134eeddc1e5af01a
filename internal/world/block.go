package world

// Границы мира в блоках. По X и Z это размер чанка (тайла), по Y: высота чанка.
const (
	MinY = 0
	MaxY = 128
	MaxX = 16
	MaxZ = 16

	// Height число блоков по вертикали
	Height = MaxY - MinY
)

// Block то, что занимает клетку мира
type Block interface {
	BlockID() int
}

// InBounds проверяет, что локальные координаты лежат внутри сетки чанка
func InBounds(localX, y, localZ int) bool {
	return localX >= 0 && localX < MaxX &&
		localZ >= 0 && localZ < MaxZ &&
		y >= MinY && y < MaxY
}
