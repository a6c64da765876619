package archive

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindUInt64
	KindUInt32
	KindInt64
	KindFloat64
	KindBool
	KindData
	KindText
	KindArray
	KindSet
	KindDict
)

var kindNames = [...]string{
	KindNull:    "null",
	KindUInt64:  "uint64",
	KindUInt32:  "uint32",
	KindInt64:   "int64",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindData:    "data",
	KindText:    "text",
	KindArray:   "array",
	KindSet:     "set",
	KindDict:    "dict",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one node of an object graph. The set of implementations is
// closed: numbers and booleans are plain value types compared and shared
// by value, while Data, Text and the collections are pointers whose
// identity is preserved through an archive round trip.
//
// A nil Value stands for the archive's $null reference.
type Value interface {
	Kind() Kind
	isValue()
}

// KindOf returns the kind of v. Both a nil Value and a nil pointer of one
// of the reference types report KindNull.
func KindOf(v Value) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case *Data:
		if x == nil {
			return KindNull
		}
	case *Text:
		if x == nil {
			return KindNull
		}
	case *Array:
		if x == nil {
			return KindNull
		}
	case *Set:
		if x == nil {
			return KindNull
		}
	case *Dict:
		if x == nil {
			return KindNull
		}
	}
	return v.Kind()
}

type (
	UInt64  uint64
	UInt32  uint32
	Int64   int64
	Float64 float64
	Bool    bool
)

func (UInt64) Kind() Kind  { return KindUInt64 }
func (UInt32) Kind() Kind  { return KindUInt32 }
func (Int64) Kind() Kind   { return KindInt64 }
func (Float64) Kind() Kind { return KindFloat64 }
func (Bool) Kind() Kind    { return KindBool }

func (UInt64) isValue()  {}
func (UInt32) isValue()  {}
func (Int64) isValue()   {}
func (Float64) isValue() {}
func (Bool) isValue()    {}

// Data is a byte buffer.
type Data struct {
	Bytes []byte
}

// NewData returns a Data holding a copy of b.
func NewData(b []byte) *Data {
	out := make([]byte, len(b))
	copy(out, b)
	return &Data{Bytes: out}
}

func (*Data) Kind() Kind { return KindData }
func (*Data) isValue()   {}

// Text is a string instance. Placing the same *Text in several slots of a
// graph makes those slots reference-identical.
type Text struct {
	String string
}

// NewText returns a new string instance.
func NewText(s string) *Text {
	return &Text{String: s}
}

func (*Text) Kind() Kind { return KindText }
func (*Text) isValue()   {}

// Array is an ordered sequence.
type Array struct {
	Mutable bool
	Items   []Value
}

// NewArray returns an immutable array (NSArray).
func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

// NewMutableArray returns a mutable array (NSMutableArray).
func NewMutableArray(items ...Value) *Array {
	return &Array{Mutable: true, Items: items}
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) isValue()   {}

// Set is an unordered collection. Items keeps insertion order for
// deterministic encoding, but equality ignores order.
type Set struct {
	Mutable bool
	Items   []Value
}

// NewSet returns an immutable set (NSSet).
func NewSet(items ...Value) *Set {
	return &Set{Items: items}
}

// NewMutableSet returns a mutable set (NSMutableSet).
func NewMutableSet(items ...Value) *Set {
	return &Set{Mutable: true, Items: items}
}

func (*Set) Kind() Kind { return KindSet }
func (*Set) isValue()   {}

// Dict is a dictionary stored as parallel key and value slices.
type Dict struct {
	Mutable bool
	Keys    []Value
	Values  []Value
}

// NewDict returns an empty immutable dictionary (NSDictionary).
func NewDict() *Dict {
	return &Dict{}
}

// NewMutableDict returns an empty mutable dictionary (NSMutableDictionary).
func NewMutableDict() *Dict {
	return &Dict{Mutable: true}
}

// Put appends a key/value entry and returns d for chaining.
func (d *Dict) Put(key, value Value) *Dict {
	d.Keys = append(d.Keys, key)
	d.Values = append(d.Values, value)
	return d
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.Keys)
}

func (*Dict) Kind() Kind { return KindDict }
func (*Dict) isValue()   {}
