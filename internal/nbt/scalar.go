package nbt

// End маркер конца Compound. Значения и имени не имеет.
type End struct{}

func (End) isTag()         {}
func (End) Kind() Kind     { return KindEnd }
func (End) Name() string   { return "" }
func (End) SetName(string) {}
func (End) String() string { return KindEnd.String() }
func (e End) Clone() Tag   { return e }

type Byte struct{ base[int8] }

func NewByte(name string, v int8) *Byte { return &Byte{newBase(KindByte, name, v)} }

func (t *Byte) Clone() Tag { c := *t; return &c }

type Short struct{ base[int16] }

func NewShort(name string, v int16) *Short { return &Short{newBase(KindShort, name, v)} }

func (t *Short) Clone() Tag { c := *t; return &c }

type Int struct{ base[int32] }

func NewInt(name string, v int32) *Int { return &Int{newBase(KindInt, name, v)} }

func (t *Int) Clone() Tag { c := *t; return &c }

type Long struct{ base[int64] }

func NewLong(name string, v int64) *Long { return &Long{newBase(KindLong, name, v)} }

func (t *Long) Clone() Tag { c := *t; return &c }

type Float struct{ base[float32] }

func NewFloat(name string, v float32) *Float { return &Float{newBase(KindFloat, name, v)} }

func (t *Float) Clone() Tag { c := *t; return &c }

type Double struct{ base[float64] }

func NewDouble(name string, v float64) *Double { return &Double{newBase(KindDouble, name, v)} }

func (t *Double) Clone() Tag { c := *t; return &c }

type String struct{ base[string] }

func NewString(name, v string) *String { return &String{newBase(KindString, name, v)} }

func (t *String) Clone() Tag { c := *t; return &c }
