package nbt

import "fmt"

// Kind тип тега, совпадает с идентификатором в бинарном формате.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	KindEnd:       "TAG_End",
	KindByte:      "TAG_Byte",
	KindShort:     "TAG_Short",
	KindInt:       "TAG_Int",
	KindLong:      "TAG_Long",
	KindFloat:     "TAG_Float",
	KindDouble:    "TAG_Double",
	KindByteArray: "TAG_Byte_Array",
	KindString:    "TAG_String",
	KindList:      "TAG_List",
	KindCompound:  "TAG_Compound",
	KindIntArray:  "TAG_Int_Array",
	KindLongArray: "TAG_Long_Array",
}

// String возвращает имя типа в нотации формата (TAG_Int, TAG_Byte_Array...)
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("TAG_Unknown(%d)", byte(k))
}

// Valid сообщает, известен ли тип
func (k Kind) Valid() bool {
	return k <= KindLongArray
}

// IsBranch типы, у которых есть дочерние элементы в табличном представлении
func (k Kind) IsBranch() bool {
	switch k {
	case KindByteArray, KindList, KindCompound, KindIntArray, KindLongArray:
		return true
	}
	return false
}
