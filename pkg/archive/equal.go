package archive

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are the same graph. Besides comparing
// values and structure it requires the same sharing: wherever a holds one
// reference-kind instance in several places, b must hold one instance in
// the corresponding places, and vice versa. Integers compare numerically
// across UInt64, UInt32 and Int64 since a property list does not record
// the width.
func Equal(a, b Value) bool {
	return newMatcher().equal(a, b)
}

// EqualValues is Equal over two top-level sequences. Sharing is tracked
// across the whole sequence, so the same instance in two top-level slots
// must stay shared.
func EqualValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	m := newMatcher()
	for i := range a {
		if !m.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// matcher keeps a bijection between reference instances of the two graphs.
// A pair is recorded before descending, which also terminates cycles.
type matcher struct {
	fwd map[Value]Value
	rev map[Value]Value
}

func newMatcher() *matcher {
	return &matcher{fwd: make(map[Value]Value), rev: make(map[Value]Value)}
}

func (m *matcher) clone() *matcher {
	c := &matcher{
		fwd: make(map[Value]Value, len(m.fwd)),
		rev: make(map[Value]Value, len(m.rev)),
	}
	for k, v := range m.fwd {
		c.fwd[k] = v
	}
	for k, v := range m.rev {
		c.rev[k] = v
	}
	return c
}

func isReference(v Value) bool {
	switch v.(type) {
	case *Text, *Data, *Array, *Set, *Dict:
		return true
	}
	return false
}

// bind records a<->b. It returns known=true when the pair was already
// bound, and ok=false when either side is bound to something else.
func (m *matcher) bind(a, b Value) (known, ok bool) {
	fa, hasA := m.fwd[a]
	rb, hasB := m.rev[b]
	if hasA || hasB {
		return true, hasA && hasB && fa == b && rb == a
	}
	m.fwd[a] = b
	m.rev[b] = a
	return false, true
}

func (m *matcher) equal(a, b Value) bool {
	if an, bn := KindOf(a) == KindNull, KindOf(b) == KindNull; an || bn {
		return an && bn
	}
	if x, ok := asInteger(a); ok {
		y, ok := asInteger(b)
		return ok && x.eq(y)
	}
	if isReference(a) {
		if !isReference(b) || a.Kind() != b.Kind() {
			return false
		}
		known, ok := m.bind(a, b)
		if !ok {
			return false
		}
		if known {
			return true
		}
	}

	switch x := a.(type) {
	case Float64:
		y, ok := b.(Float64)
		if !ok {
			return false
		}
		if math.IsNaN(float64(x)) {
			return math.IsNaN(float64(y))
		}
		return x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case *Text:
		return x.String == b.(*Text).String
	case *Data:
		return bytes.Equal(x.Bytes, b.(*Data).Bytes)
	case *Array:
		y := b.(*Array)
		if x.Mutable != y.Mutable || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !m.equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Set:
		y := b.(*Set)
		if x.Mutable != y.Mutable {
			return false
		}
		return m.unordered(x.Items, y.Items)
	case *Dict:
		y := b.(*Dict)
		if x.Mutable != y.Mutable || x.Len() != y.Len() {
			return false
		}
		return m.entries(x, y)
	}
	return false
}

// unordered matches every element of a with a distinct element of b.
// Tentative matches run on a cloned matcher so a failed candidate leaves
// no bindings behind.
func (m *matcher) unordered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if used[j] {
				continue
			}
			trial := m.clone()
			if trial.equal(x, y) {
				*m = *trial
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *matcher) entries(a, b *Dict) bool {
	used := make([]bool, b.Len())
	for i, k := range a.Keys {
		found := false
		for j, k2 := range b.Keys {
			if used[j] {
				continue
			}
			trial := m.clone()
			if trial.equal(k, k2) && trial.equal(a.Values[i], b.Values[j]) {
				*m = *trial
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// integer is an archived integer of either sign.
type integer struct {
	neg bool
	mag uint64
}

func (i integer) eq(o integer) bool {
	return i.neg == o.neg && i.mag == o.mag
}

func asInteger(v Value) (integer, bool) {
	switch n := v.(type) {
	case UInt64:
		return integer{mag: uint64(n)}, true
	case UInt32:
		return integer{mag: uint64(n)}, true
	case Int64:
		if n < 0 {
			return integer{neg: true, mag: uint64(-(n + 1)) + 1}, true
		}
		return integer{mag: uint64(n)}, true
	}
	return integer{}, false
}
