package nbt

import (
	"bytes"
	"errors"
	"io"
	"math"
	"reflect"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helloWorld классический файл hello_world.nbt без сжатия
var helloWorld = []byte{
	0x0a, 0x00, 0x0b, 'h', 'e', 'l', 'l', 'o', ' ', 'w', 'o', 'r', 'l', 'd',
	0x08, 0x00, 0x04, 'n', 'a', 'm', 'e', 0x00, 0x09, 'B', 'a', 'n', 'a', 'n', 'r', 'a', 'm', 'a',
	0x00,
}

var allFields = cmp.Exporter(func(reflect.Type) bool { return true })

func sampleTree(t *testing.T) *Compound {
	t.Helper()
	pos, err := NewList("Pos", KindDouble, []Tag{NewDouble("", 1.5), NewDouble("", -64), NewDouble("", math.MaxFloat64)})
	require.NoError(t, err)
	empty, err := NewList("Empty", KindEnd, nil)
	require.NoError(t, err)
	nested, err := NewList("Sections", KindCompound, []Tag{
		NewCompound("", NewByte("Y", 3), NewByteArray("Data", []byte{0xde, 0xad})),
	})
	require.NoError(t, err)

	return NewCompound("root",
		NewByte("b", -1),
		NewShort("s", math.MinInt16),
		NewInt("i", math.MaxInt32),
		NewLong("l", math.MinInt64),
		NewFloat("f", 0.25),
		NewDouble("d", -3.75),
		NewString("str", "привет"),
		NewByteArray("bytes", []byte{0, 127, 128, 255}),
		NewIntArray("ints", []int32{-1, 0, 1}),
		NewLongArray("longs", []int64{math.MaxInt64}),
		pos, empty, nested,
		NewCompound("child", NewString("", "unnamed")),
	)
}

func TestCodec_HelloWorldIsByteExact(t *testing.T) {
	tag, err := Unmarshal(helloWorld)
	require.NoError(t, err)

	root, ok := tag.(*Compound)
	require.True(t, ok)
	assert.Equal(t, "hello world", root.Name())
	name, ok := root.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "Bananrama", name)

	out, err := Marshal(root)
	require.NoError(t, err)
	assert.Equal(t, helloWorld, out)
}

func TestCodec_RoundTrip(t *testing.T) {
	want := sampleTree(t)

	data, err := Marshal(want)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	if diff := cmp.Diff(Tag(want), got, allFields); diff != "" {
		t.Errorf("дерево после round trip отличается (-want +got):\n%s", diff)
	}

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "повторное кодирование должно совпадать побайтно")
}

func TestCodec_StreamAPI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewInt("a", 1)))
	require.NoError(t, Encode(&buf, NewString("b", "x")))

	dec := NewDecoder(&buf)
	first, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, `TAG_Int("a"): 1`, first.String())

	second, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, `TAG_String("b"): x`, second.String())

	_, err = dec.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestCodec_RootEnd(t *testing.T) {
	data, err := Marshal(End{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, data)

	tag, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, KindEnd, tag.Kind())
}

func TestCodec_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"truncated", helloWorld[:len(helloWorld)-3], io.ErrUnexpectedEOF},
		{"truncated name", []byte{0x03, 0x00, 0x05, 'a'}, io.ErrUnexpectedEOF},
		{"unknown root kind", []byte{0x0f, 0x00, 0x00}, ErrUnknownKind},
		{"unknown child kind", []byte{0x0a, 0x00, 0x00, 0x20, 0x00, 0x00}, ErrUnknownKind},
		{"negative length", []byte{0x07, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}, ErrNegativeLength},
		{"too large", []byte{0x0b, 0x00, 0x00, 0x7f, 0xff, 0xff, 0xff}, ErrTooLarge},
		{"non-empty list of End", []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, ErrListKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "ожидалось %v, получено %v", tt.want, err)
		})
	}
}

func TestCodec_ArrayLengthWithoutData(t *testing.T) {
	// заявлено MaxArrayLength элементов, данных нет
	tests := []struct {
		name string
		data []byte
	}{
		{"byte array", []byte{0x07, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"int array", []byte{0x0b, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"long array", []byte{0x0c, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{"nested long array", []byte{0x0a, 0x00, 0x00, 0x0c, 0x00, 0x01, 'a', 0x01, 0x00, 0x00, 0x00, 0x2a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)

			_, err := Unmarshal(tt.data)

			runtime.ReadMemStats(&after)
			assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "получено %v", err)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(4<<20))
		})
	}
}

func TestCodec_LargeArraysRoundTrip(t *testing.T) {
	bytesIn := make([]byte, 3*arrayPrealloc+7)
	ints := make([]int32, arrayPrealloc/4+3)
	longs := make([]int64, arrayPrealloc/8+5)
	for i := range bytesIn {
		bytesIn[i] = byte(i)
	}
	for i := range ints {
		ints[i] = int32(-i)
	}
	for i := range longs {
		longs[i] = int64(i) << 33
	}
	root := NewCompound("",
		NewByteArray("b", bytesIn),
		NewIntArray("i", ints),
		NewLongArray("l", longs),
	)

	data, err := Marshal(root)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)

	c := got.(*Compound)
	b, ok := c.GetByteArray("b")
	require.True(t, ok)
	i, ok := Lookup[*IntArray](c, "i")
	require.True(t, ok)
	l, ok := Lookup[*LongArray](c, "l")
	require.True(t, ok)
	assert.Equal(t, bytesIn, b.Value())
	assert.Equal(t, ints, i.Value())
	assert.Equal(t, longs, l.Value())
}

func TestCodec_DepthLimit(t *testing.T) {
	deep, err := NewList("", KindEnd, nil)
	require.NoError(t, err)
	for i := 0; i < MaxDepth+10; i++ {
		outer, err := NewList("", KindList, []Tag{deep})
		require.NoError(t, err)
		deep = outer
	}
	_, err = Marshal(deep)
	assert.True(t, errors.Is(err, ErrTooDeep))

	data := []byte{0x09, 0x00, 0x00}
	for i := 0; i < MaxDepth+10; i++ {
		data = append(data, 0x09, 0x00, 0x00, 0x00, 0x01)
	}
	data = append(data, 0x00, 0x00, 0x00, 0x00, 0x00)
	_, err = Unmarshal(data)
	assert.True(t, errors.Is(err, ErrTooDeep))
}

func TestCodec_EncodeErrors(t *testing.T) {
	l, err := NewList("mixed", KindInt, nil)
	require.NoError(t, err)
	l.SetValue([]Tag{NewInt("", 1), NewByte("", 2)})

	_, err = Marshal(NewCompound("", l))
	assert.True(t, errors.Is(err, ErrListKindMismatch))

	_, err = Marshal(nil)
	assert.Equal(t, ErrNilTag, err)

	long := NewString("s", string(make([]byte, math.MaxUint16+1)))
	_, err = Marshal(long)
	assert.True(t, errors.Is(err, ErrTooLarge))
}
