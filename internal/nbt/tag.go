package nbt

import (
	"fmt"
	"strings"
)

// Tag узел дерева: именованное типизированное значение.
// Набор реализаций закрыт (см. Kind), тип тега не меняется после создания.
//
// Деревья тегов не синхронизированы. При доступе из нескольких горутин
// вызывающий код должен сам защищать дерево (например, sync.RWMutex на дерево).
type Tag interface {
	Kind() Kind
	Name() string
	SetName(name string)
	String() string
	// Clone возвращает глубокую копию тега
	Clone() Tag

	isTag()
}

// Valued тег со значением типа T
type Valued[T any] interface {
	Tag
	Value() T
	SetValue(v T)
}

// DefaultValue возвращает значение по умолчанию для типа.
// Для End и неизвестных типов значения нет: panic(ErrUnsupported).
func DefaultValue(k Kind) any {
	switch k {
	case KindByte:
		return int8(0)
	case KindShort:
		return int16(0)
	case KindInt:
		return int32(0)
	case KindLong:
		return int64(0)
	case KindFloat:
		return float32(0)
	case KindDouble:
		return float64(0)
	case KindByteArray:
		return []byte{}
	case KindString:
		return ""
	case KindList:
		return []Tag{}
	case KindCompound:
		return map[string]Tag{}
	case KindIntArray:
		return []int32{}
	case KindLongArray:
		return []int64{}
	default:
		panic(fmt.Errorf("%w: no default value for %s", ErrUnsupported, k))
	}
}

// DefaultName имя, которое получает тег при SetName("").
// Пока одинаково для всех типов.
func DefaultName(k Kind) string {
	return ""
}

// absent сообщает, что значение отсутствует и должно быть заменено значением по умолчанию
func absent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case []byte:
		return x == nil
	case []int32:
		return x == nil
	case []int64:
		return x == nil
	case []Tag:
		return x == nil
	case map[string]Tag:
		return x == nil
	}
	return false
}

// base общая часть всех тегов со значением.
// Отсутствующее значение существует только до первого чтения:
// Value() создаёт значение по умолчанию и сохраняет его.
type base[T any] struct {
	kind    Kind
	name    string
	value   T
	present bool
}

func newBase[T any](kind Kind, name string, value T) base[T] {
	b := base[T]{kind: kind}
	b.SetName(name)
	b.SetValue(value)
	return b
}

func (b *base[T]) isTag() {}

// Kind возвращает тип тега
func (b *base[T]) Kind() Kind { return b.kind }

// Name возвращает имя тега
func (b *base[T]) Name() string { return b.name }

// SetName устанавливает имя; пустое имя заменяется DefaultName
func (b *base[T]) SetName(name string) {
	if name == "" {
		name = DefaultName(b.kind)
	}
	b.name = name
}

// Value возвращает значение, при отсутствии создаёт значение по умолчанию
func (b *base[T]) Value() T {
	if !b.present {
		b.value = DefaultValue(b.kind).(T)
		b.present = true
	}
	return b.value
}

// SetValue сохраняет значение. nil-срезы и nil-карты нормализуются
// в значение по умолчанию и никогда не хранятся как есть.
func (b *base[T]) SetValue(v T) {
	if absent(any(v)) {
		v = DefaultValue(b.kind).(T)
	}
	b.value = v
	b.present = true
}

// Reset сбрасывает значение в отсутствующее состояние
func (b *base[T]) Reset() {
	var zero T
	b.value = zero
	b.present = false
}

// IsCellEditable: у листового тега редактируется только колонка значения
func (b *base[T]) IsCellEditable(col Column) bool {
	return col == ColumnValue
}

// ValueAt возвращает имя (ключ) или значение
func (b *base[T]) ValueAt(col Column) any {
	switch col {
	case ColumnKey:
		return b.name
	case ColumnValue:
		return b.Value()
	}
	return nil
}

// SetValueAt принимает только значение типа T, остальное молча игнорирует
func (b *base[T]) SetValueAt(v any, col Column) {
	if col != ColumnValue {
		return
	}
	if t, ok := v.(T); ok {
		b.SetValue(t)
	}
}

func (b *base[T]) String() string {
	return render(b.kind, b.name, fmt.Sprint(b.Value()))
}

// header формирует "TAG_Type("name")"; часть с именем опускается для пустого имени
func header(k Kind, name string) string {
	var sb strings.Builder
	sb.WriteString(k.String())
	if name != "" {
		sb.WriteString(`("`)
		sb.WriteString(name)
		sb.WriteString(`")`)
	}
	return sb.String()
}

func render(k Kind, name, value string) string {
	return header(k, name) + ": " + value
}

// indent сдвигает каждую строку вложенного представления
func indent(s string) string {
	return "   " + strings.ReplaceAll(s, "\n", "\n   ")
}
