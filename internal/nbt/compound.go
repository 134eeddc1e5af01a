package nbt

import (
	"fmt"
	"sort"
	"strings"
)

// Compound TAG_Compound: именованные дочерние теги, ключ = имя тега
type Compound struct{ base[map[string]Tag] }

// NewCompound создаёт Compound из тегов; ключом становится имя каждого тега
func NewCompound(name string, children ...Tag) *Compound {
	c := &Compound{newBase[map[string]Tag](KindCompound, name, nil)}
	for _, child := range children {
		c.Put(child)
	}
	return c
}

// Value возвращает дочерние теги. Ключи сначала приводятся к текущим
// именам тегов: после SetName у ребёнка он доступен только под новым именем.
func (c *Compound) Value() map[string]Tag {
	m := c.base.Value()
	rekey(m)
	return m
}

// rekey переносит теги, чьё имя разошлось с ключом. При совпадении имён
// переименованный тег заменяет прежний, как Put.
func rekey(m map[string]Tag) {
	var stale []string
	for k, t := range m {
		if t != nil && t.Name() != k {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return
	}
	sort.Strings(stale)
	moved := make([]Tag, 0, len(stale))
	for _, k := range stale {
		moved = append(moved, m[k])
		delete(m, k)
	}
	for _, t := range moved {
		m[t.Name()] = t
	}
}

// Put добавляет или заменяет дочерний тег по его имени. nil игнорируется.
func (c *Compound) Put(child Tag) {
	if child == nil {
		return
	}
	c.Value()[child.Name()] = child
}

// Get возвращает дочерний тег по имени
func (c *Compound) Get(name string) (Tag, bool) {
	t, ok := c.Value()[name]
	return t, ok
}

// Delete удаляет дочерний тег
func (c *Compound) Delete(name string) {
	delete(c.Value(), name)
}

func (c *Compound) Len() int { return len(c.Value()) }

// Keys возвращает имена дочерних тегов в отсортированном порядке
func (c *Compound) Keys() []string {
	m := c.Value()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find спускается по вложенным Compound: Find("Level", "Blocks")
func (c *Compound) Find(path ...string) (Tag, bool) {
	var cur Tag = c
	for _, name := range path {
		comp, ok := cur.(*Compound)
		if !ok {
			return nil, false
		}
		if cur, ok = comp.Get(name); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Lookup возвращает дочерний тег нужного типа
func Lookup[T Tag](c *Compound, name string) (T, bool) {
	var zero T
	t, ok := c.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := t.(T)
	return typed, ok
}

func (c *Compound) GetCompound(name string) (*Compound, bool)   { return Lookup[*Compound](c, name) }
func (c *Compound) GetList(name string) (*List, bool)           { return Lookup[*List](c, name) }
func (c *Compound) GetByteArray(name string) (*ByteArray, bool) { return Lookup[*ByteArray](c, name) }

// GetInt возвращает значение TAG_Int
func (c *Compound) GetInt(name string) (int32, bool) {
	t, ok := Lookup[*Int](c, name)
	if !ok {
		return 0, false
	}
	return t.Value(), true
}

// GetLong возвращает значение TAG_Long
func (c *Compound) GetLong(name string) (int64, bool) {
	t, ok := Lookup[*Long](c, name)
	if !ok {
		return 0, false
	}
	return t.Value(), true
}

// GetString возвращает значение TAG_String
func (c *Compound) GetString(name string) (string, bool) {
	t, ok := Lookup[*String](c, name)
	if !ok {
		return "", false
	}
	return t.Value(), true
}

func (c *Compound) Clone() Tag {
	cloned := NewCompound(c.name)
	for k, v := range c.Value() {
		cloned.Value()[k] = v.Clone()
	}
	return cloned
}

func (c *Compound) Child(index int) Node {
	t, _ := c.Get(c.Keys()[index])
	if n, ok := t.(Node); ok {
		return n
	}
	return nil
}

func (c *Compound) ChildCount() int { return c.Len() }

// IndexOfChild принимает тег (по идентичности) или имя
func (c *Compound) IndexOfChild(child any) int {
	keys := c.Keys()
	switch ch := child.(type) {
	case string:
		for i, k := range keys {
			if k == ch {
				return i
			}
		}
	case Tag:
		m := c.Value()
		for i, k := range keys {
			if m[k] == ch {
				return i
			}
		}
	}
	return -1
}

func (c *Compound) IsCellEditable(Column) bool { return false }

func (c *Compound) ValueAt(col Column) any {
	if col == ColumnValue {
		return fmt.Sprintf("%d entries", c.Len())
	}
	return c.base.ValueAt(col)
}

func (c *Compound) SetValueAt(any, Column) {}

func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteString(render(KindCompound, c.name, fmt.Sprintf("%d entries", c.Len())))
	sb.WriteString("\n{")
	m := c.Value()
	for _, k := range c.Keys() {
		sb.WriteString("\n")
		sb.WriteString(indent(m[k].String()))
	}
	sb.WriteString("\n}")
	return sb.String()
}
