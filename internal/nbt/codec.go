package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// MaxDepth максимальная вложенность List/Compound при чтении и записи
	MaxDepth = 512
	// MaxArrayLength максимальная длина массива или списка при чтении
	MaxArrayLength = 1 << 24
)

// Бинарный формат (big-endian):
//
//	именованный тег: kind(1) | len(2) name | payload
//	ByteArray:       len(4) | bytes
//	String:          len(2) | utf-8
//	List:            elemKind(1) | len(4) | payloads
//	Compound:        именованные теги ... | End(1)
//	Int/LongArray:   len(4) | элементы

// Encoder пишет деревья тегов в поток
type Encoder struct {
	w     io.Writer
	buf   [8]byte
	depth int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode пишет именованный корневой тег
func (e *Encoder) Encode(t Tag) error {
	if t == nil {
		return ErrNilTag
	}
	if err := e.writeByte(byte(t.Kind())); err != nil {
		return err
	}
	if t.Kind() == KindEnd {
		return nil
	}
	if err := e.writeString(t.Name()); err != nil {
		return err
	}
	return e.writePayload(t)
}

// Encode пишет тег в w через буфер
func Encode(w io.Writer, t Tag) error {
	bw := bufio.NewWriter(w)
	if err := NewEncoder(bw).Encode(t); err != nil {
		return err
	}
	return bw.Flush()
}

// Marshal кодирует тег в байты
func Marshal(t Tag) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) write(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

func (e *Encoder) writeByte(b byte) error {
	e.buf[0] = b
	return e.write(e.buf[:1])
}

func (e *Encoder) writeUint16(v uint16) error {
	binary.BigEndian.PutUint16(e.buf[:2], v)
	return e.write(e.buf[:2])
}

func (e *Encoder) writeUint32(v uint32) error {
	binary.BigEndian.PutUint32(e.buf[:4], v)
	return e.write(e.buf[:4])
}

func (e *Encoder) writeUint64(v uint64) error {
	binary.BigEndian.PutUint64(e.buf[:8], v)
	return e.write(e.buf[:8])
}

func (e *Encoder) writeLength(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrTooLarge, n)
	}
	return e.writeUint32(uint32(n))
}

func (e *Encoder) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: string of %d bytes", ErrTooLarge, len(s))
	}
	if err := e.writeUint16(uint16(len(s))); err != nil {
		return err
	}
	return e.write([]byte(s))
}

func (e *Encoder) writePayload(t Tag) error {
	switch v := t.(type) {
	case *Byte:
		return e.writeByte(byte(v.Value()))
	case *Short:
		return e.writeUint16(uint16(v.Value()))
	case *Int:
		return e.writeUint32(uint32(v.Value()))
	case *Long:
		return e.writeUint64(uint64(v.Value()))
	case *Float:
		return e.writeUint32(math.Float32bits(v.Value()))
	case *Double:
		return e.writeUint64(math.Float64bits(v.Value()))
	case *ByteArray:
		data := v.Value()
		if err := e.writeLength(len(data)); err != nil {
			return err
		}
		return e.write(data)
	case *String:
		return e.writeString(v.Value())
	case *IntArray:
		items := v.Value()
		if err := e.writeLength(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := e.writeUint32(uint32(item)); err != nil {
				return err
			}
		}
		return nil
	case *LongArray:
		items := v.Value()
		if err := e.writeLength(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := e.writeUint64(uint64(item)); err != nil {
				return err
			}
		}
		return nil
	case *List:
		return e.writeList(v)
	case *Compound:
		return e.writeCompound(v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, t.Kind())
}

func (e *Encoder) enter() error {
	e.depth++
	if e.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (e *Encoder) writeList(l *List) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	items := l.Value()
	if err := e.writeByte(byte(l.ElemKind())); err != nil {
		return err
	}
	if err := e.writeLength(len(items)); err != nil {
		return err
	}
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("%w: list %q item %d", ErrNilTag, l.Name(), i)
		}
		if item.Kind() != l.ElemKind() {
			return fmt.Errorf("%w: list %q item %d is %s", ErrListKindMismatch, l.Name(), i, item.Kind())
		}
		if err := e.writePayload(item); err != nil {
			return err
		}
	}
	return nil
}

// writeCompound пишет детей в порядке сортировки ключей: вывод детерминирован
func (e *Encoder) writeCompound(c *Compound) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	m := c.Value()
	for _, key := range c.Keys() {
		child := m[key]
		if child == nil || child.Kind() == KindEnd {
			continue
		}
		if err := e.writeByte(byte(child.Kind())); err != nil {
			return err
		}
		if err := e.writeString(key); err != nil {
			return err
		}
		if err := e.writePayload(child); err != nil {
			return err
		}
	}
	return e.writeByte(byte(KindEnd))
}

// Decoder читает деревья тегов из потока
type Decoder struct {
	r     io.Reader
	buf   [8]byte
	depth int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode читает именованный корневой тег. Пустой поток даёт io.EOF,
// обрыв посреди тега: io.ErrUnexpectedEOF.
func (d *Decoder) Decode() (Tag, error) {
	if _, err := io.ReadFull(d.r, d.buf[:1]); err != nil {
		return nil, err
	}
	kind := Kind(d.buf[0])
	if kind == KindEnd {
		return End{}, nil
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, byte(kind))
	}
	name, err := d.readString()
	if err != nil {
		return nil, unexpected(err)
	}
	t, err := d.readPayload(kind, name)
	if err != nil {
		return nil, unexpected(err)
	}
	return t, nil
}

// Decode читает один тег из r
func Decode(r io.Reader) (Tag, error) {
	return NewDecoder(bufio.NewReader(r)).Decode()
}

// Unmarshal декодирует тег из байтов
func Unmarshal(data []byte) (Tag, error) {
	t, err := NewDecoder(bytes.NewReader(data)).Decode()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return t, err
}

// arrayPrealloc сколько байт массива выделяется заранее. Остальное растёт
// по мере чтения, чтобы заявленная длина без данных не стоила памяти.
const arrayPrealloc = 64 << 10

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (d *Decoder) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		return nil, unexpected(err)
	}
	return d.buf[:n], nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	b, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) readLength() (int, error) {
	v, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	n := int32(v)
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if n > MaxArrayLength {
		return 0, fmt.Errorf("%w: %d", ErrTooLarge, n)
	}
	return int(n), nil
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(d.r, data); err != nil {
		return "", unexpected(err)
	}
	return string(data), nil
}

func (d *Decoder) readPayload(kind Kind, name string) (Tag, error) {
	switch kind {
	case KindByte:
		b, err := d.readByte()
		return NewByte(name, int8(b)), err
	case KindShort:
		v, err := d.readUint16()
		return NewShort(name, int16(v)), err
	case KindInt:
		v, err := d.readUint32()
		return NewInt(name, int32(v)), err
	case KindLong:
		v, err := d.readUint64()
		return NewLong(name, int64(v)), err
	case KindFloat:
		v, err := d.readUint32()
		return NewFloat(name, math.Float32frombits(v)), err
	case KindDouble:
		v, err := d.readUint64()
		return NewDouble(name, math.Float64frombits(v)), err
	case KindByteArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.Grow(min(n, arrayPrealloc))
		if _, err := io.CopyN(&buf, d.r, int64(n)); err != nil {
			return nil, unexpected(err)
		}
		return NewByteArray(name, buf.Bytes()), nil
	case KindString:
		s, err := d.readString()
		return NewString(name, s), err
	case KindIntArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		items := make([]int32, 0, min(n, arrayPrealloc/4))
		for j := 0; j < n; j++ {
			v, err := d.readUint32()
			if err != nil {
				return nil, err
			}
			items = append(items, int32(v))
		}
		return NewIntArray(name, items), nil
	case KindLongArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		items := make([]int64, 0, min(n, arrayPrealloc/8))
		for j := 0; j < n; j++ {
			v, err := d.readUint64()
			if err != nil {
				return nil, err
			}
			items = append(items, int64(v))
		}
		return NewLongArray(name, items), nil
	case KindList:
		return d.readList(name)
	case KindCompound:
		return d.readCompound(name)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, byte(kind))
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (d *Decoder) readList(name string) (Tag, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	b, err := d.readByte()
	if err != nil {
		return nil, err
	}
	elem := Kind(b)
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: list element %d", ErrUnknownKind, b)
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if n > 0 && elem == KindEnd {
		return nil, fmt.Errorf("%w: non-empty list of %s", ErrListKindMismatch, elem)
	}

	items := make([]Tag, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem, "")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &List{base: newBase(KindList, name, items), elem: elem}, nil
}

func (d *Decoder) readCompound(name string) (Tag, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	c := NewCompound(name)
	for {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		kind := Kind(b)
		if kind == KindEnd {
			return c, nil
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %d in compound %q", ErrUnknownKind, b, name)
		}
		childName, err := d.readString()
		if err != nil {
			return nil, err
		}
		child, err := d.readPayload(kind, childName)
		if err != nil {
			return nil, err
		}
		c.Put(child)
	}
}
