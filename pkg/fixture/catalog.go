package fixture

import (
	"errors"
	"fmt"

	"github.com/odvcencio/keyedfix/pkg/archive"
)

// ErrUnknownFixture is returned when a fixture name is not in the catalog.
var ErrUnknownFixture = errors.New("unknown fixture")

// Fixture is one named object graph. Build returns a fresh graph on every
// call, so no two fixtures (or two calls) share instances.
type Fixture struct {
	Name        string
	Description string
	Build       func() []archive.Value
}

const helloWorld = "Hello, World!"

// Catalog returns every fixture in generation order.
func Catalog() []Fixture {
	return []Fixture{
		{Name: "primitives", Description: "every primitive kind, one string shared by three slots", Build: Primitives},
		{Name: "arrays", Description: "primitives array, mutable array, set and mutable set", Build: Arrays},
		{Name: "array", Description: "a single immutable set", Build: SingleSet},
		{Name: "onevalue", Description: "a single true", Build: OneValue},
		{Name: "nestedarrays", Description: "an array holding a set and a mutable set", Build: NestedArrays},
		{Name: "dict", Description: "a dictionary holding an array, an integer and a string", Build: Dictionary},
	}
}

// Names returns the catalog fixture names in generation order.
func Names() []string {
	cat := Catalog()
	names := make([]string, len(cat))
	for i, f := range cat {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a fixture by name.
func Lookup(name string) (Fixture, error) {
	for _, f := range Catalog() {
		if f.Name == name {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("%w %q", ErrUnknownFixture, name)
}

// Select resolves names against the catalog, keeping catalog order. An
// empty list selects everything.
func Select(names []string) ([]Fixture, error) {
	if len(names) == 0 {
		return Catalog(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, err := Lookup(n); err != nil {
			return nil, err
		}
		want[n] = true
	}
	var out []Fixture
	for _, f := range Catalog() {
		if want[f.Name] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Primitives is a flat sequence of every primitive kind. The three
// "Hello, World!" slots hold the same instance.
func Primitives() []archive.Value {
	return primitives(archive.NewText(helloWorld))
}

func primitives(hello *archive.Text) []archive.Value {
	return []archive.Value{
		archive.UInt64(1),
		archive.UInt32(1),
		archive.Float64(1.0),
		archive.Float64(1.5),
		archive.NewData([]byte("asdfasdfadsfadsf")),
		archive.Bool(true),
		hello,
		hello,
		hello,
		archive.Bool(false),
		archive.Bool(false),
		archive.UInt64(42),
	}
}

func mixedMembers(hello *archive.Text) []archive.Value {
	return []archive.Value{archive.Bool(true), hello, archive.UInt64(42)}
}

// mixedSet lists its members in the order Foundation enumerates them.
func mixedSet(hello *archive.Text) *archive.Set {
	return archive.NewMutableSet(archive.UInt64(42), archive.Bool(true), hello)
}

// Arrays holds the primitives as an immutable array followed by a mutable
// array, a set and a mutable set.
func Arrays() []archive.Value {
	hello := archive.NewText(helloWorld)
	return []archive.Value{
		archive.NewArray(primitives(hello)...),
		archive.NewMutableArray(mixedMembers(hello)...),
		archive.NewSet(archive.Bool(true)),
		mixedSet(hello),
	}
}

// SingleSet is one immutable set holding true.
func SingleSet() []archive.Value {
	return []archive.Value{archive.NewSet(archive.Bool(true))}
}

// OneValue is the single value true.
func OneValue() []archive.Value {
	return []archive.Value{archive.Bool(true)}
}

// NestedArrays is one array holding a set and a mutable set.
func NestedArrays() []archive.Value {
	hello := archive.NewText(helloWorld)
	return []archive.Value{
		archive.NewArray(
			archive.NewSet(archive.Bool(true)),
			mixedSet(hello),
		),
	}
}

// Dictionary is one dictionary with string keys.
func Dictionary() []archive.Value {
	hello := archive.NewText(helloWorld)
	d := archive.NewDict().
		Put(archive.NewText("array"), archive.NewArray(mixedMembers(hello)...)).
		Put(archive.NewText("int"), archive.UInt64(1)).
		Put(archive.NewText("string"), archive.NewText("string"))
	return []archive.Value{d}
}
