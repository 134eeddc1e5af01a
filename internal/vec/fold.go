package vec

import "fmt"

// FloorDiv номер тайла для координаты v при размере тайла size:
// математическое деление с округлением вниз, не усечение к нулю.
//
//	FloorDiv(-1, 16)  == -1
//	FloorDiv(-16, 16) == -1
//	FloorDiv(16, 16)  == 1
func FloorDiv(v, size int) int {
	checkSize(size)
	q := v / size
	if v%size != 0 && v < 0 {
		q--
	}
	return q
}

// LegacyMod смещение внутри тайла в том виде, в каком его считал старый
// просмотрщик: остаток от усечённого деления, из отрицательного остатка
// вычитается единица. Для отрицательных v результат может выйти за [0, size):
// LegacyMod(-3, 16) == -4. Поведение сохранено бит в бит, правильный вариант: FloorMod.
func LegacyMod(v, size int) int {
	checkSize(size)
	m := v % size
	if m < 0 {
		m--
	}
	return m
}

// FloorMod евклидов остаток, всегда в [0, size).
// Вместе с FloorDiv выполняется v == FloorDiv(v, s)*s + FloorMod(v, s).
func FloorMod(v, size int) int {
	checkSize(size)
	m := v % size
	if m < 0 {
		m += size
	}
	return m
}

func checkSize(size int) {
	if size <= 0 {
		panic(fmt.Sprintf("vec: tile size must be positive, got %d", size))
	}
}
