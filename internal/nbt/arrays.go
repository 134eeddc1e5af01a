package nbt

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ByteArray TAG_Byte_Array
type ByteArray struct{ base[[]byte] }

// NewByteArray создаёт тег; nil значение заменяется пустым массивом
func NewByteArray(name string, v []byte) *ByteArray {
	return &ByteArray{newBase(KindByteArray, name, v)}
}

func (t *ByteArray) Clone() Tag {
	return NewByteArray(t.name, slices.Clone(t.Value()))
}

// Cell возвращает ячейку над байтом index, разделяющую память с тегом
func (t *ByteArray) Cell(index int) ByteWrapper {
	return NewByteWrapper(t.Value(), index)
}

func (t *ByteArray) Child(index int) Node { return t.Cell(index) }

// ChildCount текущая длина массива
func (t *ByteArray) ChildCount() int { return len(t.Value()) }

// IndexOfChild возвращает int как есть, для всего остального -1
func (t *ByteArray) IndexOfChild(child any) int { return indexOfCell(child) }

// Сам массив не редактируется, только его ячейки
func (t *ByteArray) IsCellEditable(Column) bool { return false }

func (t *ByteArray) ValueAt(col Column) any {
	if col == ColumnValue {
		return fmt.Sprintf("%d bytes", len(t.Value()))
	}
	return t.base.ValueAt(col)
}

func (t *ByteArray) SetValueAt(any, Column) {}

// String: TAG_Byte_Array("name"): 00 ff
func (t *ByteArray) String() string {
	var sb strings.Builder
	sb.WriteString(header(KindByteArray, t.name))
	sb.WriteString(":")
	for _, b := range t.Value() {
		fmt.Fprintf(&sb, " %02x", b)
	}
	return sb.String()
}

// IntArray TAG_Int_Array
type IntArray struct{ base[[]int32] }

func NewIntArray(name string, v []int32) *IntArray {
	return &IntArray{newBase(KindIntArray, name, v)}
}

func (t *IntArray) Clone() Tag {
	return NewIntArray(t.name, slices.Clone(t.Value()))
}

func (t *IntArray) Cell(index int) Cell[int32] { return NewCell(t.Value(), index) }
func (t *IntArray) Child(index int) Node       { return t.Cell(index) }
func (t *IntArray) ChildCount() int            { return len(t.Value()) }
func (t *IntArray) IndexOfChild(child any) int { return indexOfCell(child) }
func (t *IntArray) IsCellEditable(Column) bool { return false }
func (t *IntArray) SetValueAt(any, Column)     {}

func (t *IntArray) ValueAt(col Column) any {
	if col == ColumnValue {
		return fmt.Sprintf("%d ints", len(t.Value()))
	}
	return t.base.ValueAt(col)
}

func (t *IntArray) String() string {
	return header(KindIntArray, t.name) + ":" + joinInts(t.Value())
}

// LongArray TAG_Long_Array
type LongArray struct{ base[[]int64] }

func NewLongArray(name string, v []int64) *LongArray {
	return &LongArray{newBase(KindLongArray, name, v)}
}

func (t *LongArray) Clone() Tag {
	return NewLongArray(t.name, slices.Clone(t.Value()))
}

func (t *LongArray) Cell(index int) Cell[int64] { return NewCell(t.Value(), index) }
func (t *LongArray) Child(index int) Node       { return t.Cell(index) }
func (t *LongArray) ChildCount() int            { return len(t.Value()) }
func (t *LongArray) IndexOfChild(child any) int { return indexOfCell(child) }
func (t *LongArray) IsCellEditable(Column) bool { return false }
func (t *LongArray) SetValueAt(any, Column)     {}

func (t *LongArray) ValueAt(col Column) any {
	if col == ColumnValue {
		return fmt.Sprintf("%d longs", len(t.Value()))
	}
	return t.base.ValueAt(col)
}

func (t *LongArray) String() string {
	return header(KindLongArray, t.name) + ":" + joinInts(t.Value())
}

func indexOfCell(child any) int {
	if i, ok := child.(int); ok {
		return i
	}
	return -1
}

func joinInts[T int32 | int64](items []T) string {
	var sb strings.Builder
	for _, v := range items {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	}
	return sb.String()
}
