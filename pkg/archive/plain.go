package archive

import "fmt"

// Plain converts v into plain Go data: numbers, bool, string, []byte,
// []any for arrays and sets, and map[string]any for dictionaries. The
// result marshals to the JSON view consumers of the fixtures compare
// against. Cycles are cut with the string "<cycle>".
func Plain(v Value) any {
	return plainer{}.plain(v)
}

// PlainValues converts a top-level sequence with Plain.
func PlainValues(values []Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = Plain(v)
	}
	return out
}

type plainer map[Value]bool

func (p plainer) plain(v Value) any {
	if KindOf(v) == KindNull {
		return nil
	}
	switch x := v.(type) {
	case UInt64:
		return uint64(x)
	case UInt32:
		return uint32(x)
	case Int64:
		return int64(x)
	case Float64:
		return float64(x)
	case Bool:
		return bool(x)
	case *Text:
		return x.String
	case *Data:
		return x.Bytes
	}

	if p[v] {
		return "<cycle>"
	}
	p[v] = true
	defer delete(p, v)

	switch x := v.(type) {
	case *Array:
		return p.list(x.Items)
	case *Set:
		return p.list(x.Items)
	case *Dict:
		out := make(map[string]any, x.Len())
		for i, k := range x.Keys {
			out[p.key(k)] = p.plain(x.Values[i])
		}
		return out
	}
	return fmt.Sprintf("<%s>", KindOf(v))
}

func (p plainer) list(items []Value) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = p.plain(item)
	}
	return out
}

func (p plainer) key(k Value) string {
	if t, ok := k.(*Text); ok {
		return t.String
	}
	return fmt.Sprint(p.plain(k))
}
