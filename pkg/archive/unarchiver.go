package archive

import (
	"errors"
	"fmt"
	"strconv"

	"howett.net/plist"
)

var (
	// ErrInvalidArchive is wrapped by every error describing a malformed
	// keyed archive.
	ErrInvalidArchive = errors.New("invalid keyed archive")
	// ErrUnsupportedClass is wrapped when an archive references a class
	// the unarchiver cannot or may not decode.
	ErrUnsupportedClass = errors.New("unsupported archived class")
)

// Option configures an Unarchiver.
type Option func(*Unarchiver)

// WithAllowedClasses restricts decoding to the named classes. Archives
// referencing any other class fail with ErrUnsupportedClass. Without this
// option every class the unarchiver understands is accepted.
func WithAllowedClasses(names ...string) Option {
	return func(u *Unarchiver) {
		u.allowed = make(map[string]bool, len(names))
		for _, n := range names {
			u.allowed[n] = true
		}
	}
}

// Unarchiver decodes a keyed archive. Objects are decoded lazily and
// cached by UID, so a UID referenced from several places decodes to the
// same Value.
type Unarchiver struct {
	format  int
	top     map[string]any
	objects []any
	cache   map[plist.UID]Value
	allowed map[string]bool
}

// NewUnarchiver parses and validates data, which may be a binary or XML
// property list.
func NewUnarchiver(data []byte, opts ...Option) (*Unarchiver, error) {
	var root any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, fmt.Errorf("%w: parse plist: %v", ErrInvalidArchive, err)
	}
	envelope, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level object is %T, want dictionary", ErrInvalidArchive, root)
	}
	if err := validateEnvelope(envelope); err != nil {
		return nil, err
	}

	u := &Unarchiver{
		format:  format,
		top:     envelope[keyTop].(map[string]any),
		objects: envelope[keyObjects].([]any),
		cache:   make(map[plist.UID]Value),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Format reports the property list encoding the archive was read from.
func (u *Unarchiver) Format() Format {
	if u.format == plist.XMLFormat {
		return XML
	}
	return Binary
}

// validateEnvelope checks the four envelope keys and their types.
func validateEnvelope(env map[string]any) error {
	name, ok := env[keyArchiver]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrInvalidArchive, keyArchiver)
	}
	if s, _ := name.(string); s != ArchiverName {
		return fmt.Errorf("%w: %q is %v, want %q", ErrInvalidArchive, keyArchiver, name, ArchiverName)
	}

	top, ok := env[keyTop]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrInvalidArchive, keyTop)
	}
	if _, ok := top.(map[string]any); !ok {
		return fmt.Errorf("%w: %q is %T, want dictionary", ErrInvalidArchive, keyTop, top)
	}

	objects, ok := env[keyObjects]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrInvalidArchive, keyObjects)
	}
	if _, ok := objects.([]any); !ok {
		return fmt.Errorf("%w: %q is %T, want array", ErrInvalidArchive, keyObjects, objects)
	}

	version, ok := env[keyVersion]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrInvalidArchive, keyVersion)
	}
	if n, ok := toUint(version); !ok || n != ArchiveVersion {
		return fmt.Errorf("%w: %q is %v, want %d", ErrInvalidArchive, keyVersion, version, ArchiveVersion)
	}
	return nil
}

func toUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}

// Decode returns the unkeyed top-level values ($0, $1, ...) in encode
// order. An archive without unkeyed values but with a "root" key yields
// the root object alone.
func (u *Unarchiver) Decode() ([]Value, error) {
	var values []Value
	for i := 0; ; i++ {
		ref, ok := u.top["$"+strconv.Itoa(i)]
		if !ok {
			break
		}
		v, err := u.decodeRef(ref)
		if err != nil {
			return nil, fmt.Errorf("decode $%d: %w", i, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		if _, ok := u.top[rootKey]; ok {
			v, err := u.DecodeKeyed(rootKey)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// DecodeKeyed decodes the top-level value stored under key.
func (u *Unarchiver) DecodeKeyed(key string) (Value, error) {
	ref, ok := u.top[escapeKey(key)]
	if !ok {
		return nil, fmt.Errorf("decode %q: key not found", key)
	}
	v, err := u.decodeRef(ref)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return v, nil
}

// Keys returns the keyed (non-positional) entries of $top.
func (u *Unarchiver) Keys() []string {
	var keys []string
	for k := range u.top {
		if isUnkeyedSlot(k) {
			continue
		}
		keys = append(keys, unescapeKey(k))
	}
	return keys
}

func isUnkeyedSlot(k string) bool {
	if len(k) < 2 || k[0] != '$' || k[1] == '$' {
		return false
	}
	_, err := strconv.Atoi(k[1:])
	return err == nil
}

// Unarchive decodes the top-level values of a keyed archive.
func Unarchive(data []byte, opts ...Option) ([]Value, error) {
	u, err := NewUnarchiver(data, opts...)
	if err != nil {
		return nil, err
	}
	return u.Decode()
}

func (u *Unarchiver) decodeRef(ref any) (Value, error) {
	uid, ok := ref.(plist.UID)
	if !ok {
		return nil, fmt.Errorf("%w: reference is %T, want UID", ErrInvalidArchive, ref)
	}
	return u.decode(uid)
}

func (u *Unarchiver) decode(uid plist.UID) (Value, error) {
	if uint64(uid) >= uint64(len(u.objects)) {
		return nil, fmt.Errorf("%w: UID %d out of range (%d objects)", ErrInvalidArchive, uid, len(u.objects))
	}
	if uid == 0 {
		return nil, nil
	}
	if v, ok := u.cache[uid]; ok {
		return v, nil
	}

	var v Value
	switch raw := u.objects[uid].(type) {
	case uint64:
		v = UInt64(raw)
	case int64:
		v = Int64(raw)
	case float64:
		v = Float64(raw)
	case float32:
		v = Float64(raw)
	case bool:
		v = Bool(raw)
	case string:
		v = NewText(raw)
	case []byte:
		v = NewData(raw)
	case map[string]any:
		return u.decodeObject(uid, raw)
	default:
		return nil, fmt.Errorf("%w: object %d has unsupported type %T", ErrInvalidArchive, uid, raw)
	}
	u.cache[uid] = v
	return v, nil
}

func (u *Unarchiver) decodeObject(uid plist.UID, obj map[string]any) (Value, error) {
	name, err := u.className(obj)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", uid, err)
	}
	if u.allowed != nil && !u.allowed[name] {
		return nil, fmt.Errorf("%w: %s is not allowed", ErrUnsupportedClass, name)
	}

	switch name {
	case ClassArray, ClassMutableArray:
		arr := &Array{Mutable: name == ClassMutableArray}
		u.cache[uid] = arr
		items, err := u.decodeList(obj, keyNSObjects)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", name, uid, err)
		}
		arr.Items = items
		return arr, nil

	case ClassSet, ClassMutableSet:
		set := &Set{Mutable: name == ClassMutableSet}
		u.cache[uid] = set
		items, err := u.decodeList(obj, keyNSObjects)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", name, uid, err)
		}
		set.Items = items
		return set, nil

	case ClassDictionary, ClassMutableDictionary:
		dict := &Dict{Mutable: name == ClassMutableDictionary}
		u.cache[uid] = dict
		keys, err := u.decodeList(obj, keyNSKeys)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", name, uid, err)
		}
		vals, err := u.decodeList(obj, keyNSObjects)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", name, uid, err)
		}
		if len(keys) != len(vals) {
			return nil, fmt.Errorf("%w: %s %d has %d keys and %d values", ErrInvalidArchive, name, uid, len(keys), len(vals))
		}
		dict.Keys, dict.Values = keys, vals
		return dict, nil

	case ClassString, ClassMutableString:
		s, ok := obj[keyNSString].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s %d missing %q", ErrInvalidArchive, name, uid, keyNSString)
		}
		t := NewText(s)
		u.cache[uid] = t
		return t, nil

	case ClassData, ClassMutableData:
		b, ok := obj[keyNSData].([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: %s %d missing %q", ErrInvalidArchive, name, uid, keyNSData)
		}
		d := NewData(b)
		u.cache[uid] = d
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedClass, name)
}

func (u *Unarchiver) className(obj map[string]any) (string, error) {
	ref, ok := obj[keyClass].(plist.UID)
	if !ok {
		return "", fmt.Errorf("%w: missing %q reference", ErrInvalidArchive, keyClass)
	}
	if uint64(ref) >= uint64(len(u.objects)) {
		return "", fmt.Errorf("%w: class UID %d out of range", ErrInvalidArchive, ref)
	}
	desc, ok := u.objects[ref].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: class %d is not a dictionary", ErrInvalidArchive, ref)
	}
	name, ok := desc[keyClassname].(string)
	if !ok {
		return "", fmt.Errorf("%w: class %d missing %q", ErrInvalidArchive, ref, keyClassname)
	}
	return name, nil
}

func (u *Unarchiver) decodeList(obj map[string]any, key string) ([]Value, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidArchive, key)
	}
	refs, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want array", ErrInvalidArchive, key, raw)
	}
	items := make([]Value, 0, len(refs))
	for i, ref := range refs {
		v, err := u.decodeRef(ref)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		items = append(items, v)
	}
	return items, nil
}

