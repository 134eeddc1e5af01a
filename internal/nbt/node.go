package nbt

// Column колонка табличного представления дерева
type Column int

const (
	ColumnKey Column = iota
	ColumnValue
)

// Node строка дерева-таблицы: ключ (имя или индекс) и значение.
type Node interface {
	IsCellEditable(col Column) bool
	ValueAt(col Column) any
	// SetValueAt с неподходящим типом значения ничего не делает
	SetValueAt(v any, col Column)
}

// Branch узел с дочерними элементами
type Branch interface {
	Node
	Child(index int) Node
	ChildCount() int
	// IndexOfChild возвращает -1, если child не найден
	IndexOfChild(child any) int
}

var (
	_ Branch = (*ByteArray)(nil)
	_ Branch = (*IntArray)(nil)
	_ Branch = (*LongArray)(nil)
	_ Branch = (*List)(nil)
	_ Branch = (*Compound)(nil)
	_ Node   = (*Int)(nil)
	_ Node   = ByteWrapper{}
)

// AsBranch возвращает тег как Branch, если у него есть дочерние элементы
func AsBranch(t Tag) (Branch, bool) {
	b, ok := t.(Branch)
	return b, ok
}
