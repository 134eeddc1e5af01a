package nbt

import (
	"fmt"
	"strings"
)

// List TAG_List: упорядоченные безымянные теги одного типа
type List struct {
	base[[]Tag]
	elem Kind
}

// NewList создаёт список с типом элементов elem.
// Все items должны иметь тип elem, иначе ErrListKindMismatch.
func NewList(name string, elem Kind, items []Tag) (*List, error) {
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: item %d", ErrNilTag, i)
		}
		if item.Kind() != elem {
			return nil, fmt.Errorf("%w: item %d is %s, want %s", ErrListKindMismatch, i, item.Kind(), elem)
		}
	}
	return &List{base: newBase(KindList, name, items), elem: elem}, nil
}

// ElemKind возвращает тип элементов
func (l *List) ElemKind() Kind { return l.elem }

// Len число элементов
func (l *List) Len() int { return len(l.Value()) }

// At возвращает элемент i
func (l *List) At(i int) Tag { return l.Value()[i] }

// Add добавляет элемент. Пустой список типа End принимает тип первого элемента.
func (l *List) Add(item Tag) error {
	if item == nil {
		return ErrNilTag
	}
	items := l.Value()
	if len(items) == 0 && l.elem == KindEnd {
		l.elem = item.Kind()
	}
	if item.Kind() != l.elem {
		return fmt.Errorf("%w: got %s, want %s", ErrListKindMismatch, item.Kind(), l.elem)
	}
	l.SetValue(append(items, item))
	return nil
}

// Remove удаляет элемент i
func (l *List) Remove(i int) {
	items := l.Value()
	l.SetValue(append(items[:i:i], items[i+1:]...))
}

func (l *List) Clone() Tag {
	items := l.Value()
	cloned := make([]Tag, len(items))
	for i, item := range items {
		cloned[i] = item.Clone()
	}
	return &List{base: newBase(KindList, l.name, cloned), elem: l.elem}
}

func (l *List) Child(index int) Node {
	if n, ok := l.Value()[index].(Node); ok {
		return n
	}
	return nil
}

func (l *List) ChildCount() int { return l.Len() }

// IndexOfChild ищет тег по идентичности; int возвращается как есть
func (l *List) IndexOfChild(child any) int {
	switch c := child.(type) {
	case int:
		return c
	case Tag:
		for i, item := range l.Value() {
			if item == c {
				return i
			}
		}
	}
	return -1
}

func (l *List) IsCellEditable(Column) bool { return false }

func (l *List) ValueAt(col Column) any {
	if col == ColumnValue {
		return fmt.Sprintf("%d entries of type %s", l.Len(), l.elem)
	}
	return l.base.ValueAt(col)
}

func (l *List) SetValueAt(any, Column) {}

// String:
//
//	TAG_List("name"): 2 entries of type TAG_Int
//	{
//	   TAG_Int: 1
//	   TAG_Int: 2
//	}
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteString(render(KindList, l.name, fmt.Sprintf("%d entries of type %s", l.Len(), l.elem)))
	sb.WriteString("\n{")
	for _, item := range l.Value() {
		sb.WriteString("\n")
		sb.WriteString(indent(item.String()))
	}
	sb.WriteString("\n}")
	return sb.String()
}
