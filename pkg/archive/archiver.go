package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"howett.net/plist"
)

// Keys and constants of the keyed archive envelope.
const (
	keyArchiver  = "$archiver"
	keyVersion   = "$version"
	keyTop       = "$top"
	keyObjects   = "$objects"
	keyClass     = "$class"
	keyClassname = "$classname"
	keyClasses   = "$classes"
	keyNSObjects = "NS.objects"
	keyNSKeys    = "NS.keys"
	keyNSString  = "NS.string"
	keyNSData    = "NS.data"

	// ArchiverName is the $archiver value of every keyed archive.
	ArchiverName = "NSKeyedArchiver"
	// ArchiveVersion is the only supported $version.
	ArchiveVersion uint64 = 100000

	nullObject = "$null"
	rootKey    = "root"
)

// Format selects the property list encoding of an archive.
type Format int

const (
	Binary Format = iota
	XML
)

// Formats lists every supported output format in the order fixtures are
// written.
var Formats = []Format{Binary, XML}

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case XML:
		return "xml"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Ext returns the file extension, including the dot, used for f.
func (f Format) Ext() string {
	if f == XML {
		return ".xml"
	}
	return ".bin"
}

// ParseFormat maps "binary"/"bin" and "xml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary", "bin":
		return Binary, nil
	case "xml":
		return XML, nil
	}
	return 0, fmt.Errorf("unknown archive format %q", s)
}

var errFinished = errors.New("archiver already finished")

// Archiver builds a keyed archive from a sequence of values. Each value is
// encoded once per instance: a value seen before, by pointer identity for
// reference kinds or by value for numbers and booleans, is written as a
// back-reference to the first encoding.
type Archiver struct {
	format   Format
	objects  []any
	ids      map[Value]plist.UID
	classes  map[string]plist.UID
	top      map[string]any
	unkeyed  int
	finished bool
}

// NewArchiver returns an empty archiver producing the given format.
func NewArchiver(format Format) *Archiver {
	return &Archiver{
		format:  format,
		objects: []any{nullObject},
		ids:     make(map[Value]plist.UID),
		classes: make(map[string]plist.UID),
		top:     make(map[string]any),
	}
}

// Encode appends v as the next unkeyed top-level value ($0, $1, ...).
func (a *Archiver) Encode(v Value) error {
	if a.finished {
		return errFinished
	}
	mark := len(a.objects)
	uid, err := a.encode(v)
	if err != nil {
		a.rollback(mark)
		return fmt.Errorf("encode $%d: %w", a.unkeyed, err)
	}
	a.top["$"+strconv.Itoa(a.unkeyed)] = uid
	a.unkeyed++
	return nil
}

// EncodeKeyed stores v under key in $top. Keys starting with '$' are
// escaped with an extra '$' so they cannot collide with unkeyed slots.
func (a *Archiver) EncodeKeyed(key string, v Value) error {
	if a.finished {
		return errFinished
	}
	if key == "" {
		return fmt.Errorf("encode: empty key")
	}
	mark := len(a.objects)
	uid, err := a.encode(v)
	if err != nil {
		a.rollback(mark)
		return fmt.Errorf("encode %q: %w", key, err)
	}
	a.top[escapeKey(key)] = uid
	return nil
}

// Envelope returns the archive's top-level property list dictionary
// without serializing it.
func (a *Archiver) Envelope() map[string]any {
	top := make(map[string]any, len(a.top))
	for k, v := range a.top {
		top[k] = v
	}
	objects := make([]any, len(a.objects))
	copy(objects, a.objects)
	return map[string]any{
		keyArchiver: ArchiverName,
		keyVersion:  ArchiveVersion,
		keyTop:      top,
		keyObjects:  objects,
	}
}

// Finish completes encoding and returns the serialized archive. The
// archiver cannot be used afterwards.
func (a *Archiver) Finish() ([]byte, error) {
	if a.finished {
		return nil, errFinished
	}
	a.finished = true
	data, err := marshalPlist(a.Envelope(), a.format)
	if err != nil {
		return nil, fmt.Errorf("finish %s archive: %w", a.format, err)
	}
	return data, nil
}

// Archive encodes values as unkeyed top-level objects in a single archive.
func Archive(format Format, values ...Value) ([]byte, error) {
	a := NewArchiver(format)
	for _, v := range values {
		if err := a.Encode(v); err != nil {
			return nil, err
		}
	}
	return a.Finish()
}

// ArchiveRoot encodes v under the "root" key, the layout produced by
// archivedDataWithRootObject.
func ArchiveRoot(format Format, v Value) ([]byte, error) {
	a := NewArchiver(format)
	if err := a.EncodeKeyed(rootKey, v); err != nil {
		return nil, err
	}
	return a.Finish()
}

func marshalPlist(v any, format Format) ([]byte, error) {
	switch format {
	case Binary:
		return plist.Marshal(v, plist.BinaryFormat)
	case XML:
		return plist.MarshalIndent(v, plist.XMLFormat, "\t")
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

func escapeKey(key string) string {
	if strings.HasPrefix(key, "$") {
		return "$" + key
	}
	return key
}

func unescapeKey(key string) string {
	if strings.HasPrefix(key, "$$") {
		return key[1:]
	}
	return key
}

func (a *Archiver) encode(v Value) (plist.UID, error) {
	if KindOf(v) == KindNull {
		return 0, nil
	}
	if uid, ok := a.ids[v]; ok {
		return uid, nil
	}

	switch x := v.(type) {
	case UInt64:
		return a.add(v, uint64(x)), nil
	case UInt32:
		return a.add(v, uint64(x)), nil
	case Int64:
		return a.add(v, int64(x)), nil
	case Float64:
		return a.add(v, float64(x)), nil
	case Bool:
		return a.add(v, bool(x)), nil
	case *Text:
		return a.add(v, x.String), nil
	case *Data:
		b := x.Bytes
		if b == nil {
			b = []byte{}
		}
		return a.add(v, b), nil
	case *Array:
		return a.encodeList(v, x.Items)
	case *Set:
		return a.encodeList(v, x.Items)
	case *Dict:
		return a.encodeDict(x)
	default:
		return 0, fmt.Errorf("unsupported value %T", v)
	}
}

func (a *Archiver) add(v Value, raw any) plist.UID {
	uid := plist.UID(len(a.objects))
	a.objects = append(a.objects, raw)
	a.ids[v] = uid
	return uid
}

// rollback drops every object added at or after mark, along with the
// identities and class descriptors pointing at them.
func (a *Archiver) rollback(mark int) {
	for v, uid := range a.ids {
		if int(uid) >= mark {
			delete(a.ids, v)
		}
	}
	for name, uid := range a.classes {
		if int(uid) >= mark {
			delete(a.classes, name)
		}
	}
	clear(a.objects[mark:])
	a.objects = a.objects[:mark]
}

// reserve claims a slot for a collection before its children are encoded,
// so children that refer back to it resolve to the same UID.
func (a *Archiver) reserve(v Value) plist.UID {
	return a.add(v, nil)
}

func (a *Archiver) encodeList(v Value, items []Value) (plist.UID, error) {
	uid := a.reserve(v)
	refs, err := a.encodeAll(items)
	if err != nil {
		return 0, err
	}
	a.objects[uid] = map[string]any{
		keyNSObjects: refs,
		keyClass:     a.class(collectionClass(v)),
	}
	return uid, nil
}

func (a *Archiver) encodeDict(d *Dict) (plist.UID, error) {
	if len(d.Keys) != len(d.Values) {
		return 0, fmt.Errorf("dictionary has %d keys and %d values", len(d.Keys), len(d.Values))
	}
	uid := a.reserve(d)
	keys, err := a.encodeAll(d.Keys)
	if err != nil {
		return 0, err
	}
	vals, err := a.encodeAll(d.Values)
	if err != nil {
		return 0, err
	}
	a.objects[uid] = map[string]any{
		keyNSKeys:    keys,
		keyNSObjects: vals,
		keyClass:     a.class(collectionClass(d)),
	}
	return uid, nil
}

func (a *Archiver) encodeAll(items []Value) ([]plist.UID, error) {
	refs := make([]plist.UID, 0, len(items))
	for i, item := range items {
		uid, err := a.encode(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		refs = append(refs, uid)
	}
	return refs, nil
}

func (a *Archiver) class(name string) plist.UID {
	if uid, ok := a.classes[name]; ok {
		return uid
	}
	uid := plist.UID(len(a.objects))
	a.objects = append(a.objects, map[string]any{
		keyClassname: name,
		keyClasses:   classHierarchy[name],
	})
	a.classes[name] = uid
	return uid
}
