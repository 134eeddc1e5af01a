package vec

// Vec3 мировые координаты блока; Y: вертикаль, по ней мир не делится на тайлы
type Vec3 struct {
	X int
	Y int
	Z int
}

// XZ возвращает проекцию на горизонтальную плоскость
func (v Vec3) XZ() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// FromVec2 создает Vec3 из Vec2 и высоты y
func FromVec2(v Vec2, y int) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}
