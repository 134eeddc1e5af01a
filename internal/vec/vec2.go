package vec

import "math"

// Vec2 координаты в горизонтальной плоскости (X, Z)
type Vec2 struct {
	X, Z int
}

// ChunkCoords преобразует мировые координаты в координаты тайла (чанка)
func (v Vec2) ChunkCoords(sizeX, sizeZ int) Vec2 {
	return Vec2{X: FloorDiv(v.X, sizeX), Z: FloorDiv(v.Z, sizeZ)}
}

// LocalInChunk возвращает локальные координаты внутри тайла, всегда в [0, size)
func (v Vec2) LocalInChunk(sizeX, sizeZ int) Vec2 {
	return Vec2{X: FloorMod(v.X, sizeX), Z: FloorMod(v.Z, sizeZ)}
}

// LegacyLocal локальные координаты по старому правилу (см. LegacyMod)
func (v Vec2) LegacyLocal(sizeX, sizeZ int) Vec2 {
	return Vec2{X: LegacyMod(v.X, sizeX), Z: LegacyMod(v.Z, sizeZ)}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}
