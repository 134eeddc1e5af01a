package nbt

import "slices"

// Cell редактируемая ячейка над одним элементом массива тега.
//
// Cell не копирует данные: items разделяет память с массивом тега,
// поэтому запись через любую ячейку сразу видна в теге и во всех
// остальных ячейках над тем же массивом. Индекс не проверяется при
// создании; выход за границы приводит к panic при обращении.
type Cell[T byte | int32 | int64] struct {
	items []T
	index int
}

// ByteWrapper ячейка над байтом ByteArray
type ByteWrapper = Cell[byte]

// NewByteWrapper создаёт ячейку над bytes[index]
func NewByteWrapper(bytes []byte, index int) ByteWrapper {
	return ByteWrapper{items: bytes, index: index}
}

// NewCell создаёт ячейку над items[index]
func NewCell[T byte | int32 | int64](items []T, index int) Cell[T] {
	return Cell[T]{items: items, index: index}
}

// Index возвращает индекс ячейки
func (c Cell[T]) Index() int { return c.index }

// Get читает элемент
func (c Cell[T]) Get() T { return c.items[c.index] }

// Set записывает элемент в исходный массив
func (c Cell[T]) Set(v T) { c.items[c.index] = v }

// IsCellEditable: ключ (индекс) только для чтения
func (c Cell[T]) IsCellEditable(col Column) bool {
	return col == ColumnValue
}

func (c Cell[T]) ValueAt(col Column) any {
	switch col {
	case ColumnKey:
		return c.index
	case ColumnValue:
		return c.items[c.index]
	}
	return nil
}

// SetValueAt записывает только значение типа элемента; другие типы игнорируются
func (c Cell[T]) SetValueAt(v any, col Column) {
	t, ok := v.(T)
	if !ok || col != ColumnValue {
		return
	}
	c.items[c.index] = t
}

// Equal сравнивает по значению: одинаковое содержимое массивов и одинаковый индекс.
// Разделять память ячейкам для равенства не нужно.
func (c Cell[T]) Equal(other Cell[T]) bool {
	return c.index == other.index && slices.Equal(c.items, other.items)
}
