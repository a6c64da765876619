package fixture

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/keyedfix/pkg/archive"
)

func TestCatalogNames(t *testing.T) {
	want := []string{"primitives", "arrays", "array", "onevalue", "nestedarrays", "dict"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

// jsonViews are the JSON renderings decoded fixtures are compared against
// downstream, copied exactly.
var jsonViews = map[string]string{
	"onevalue":     `[true]`,
	"primitives":   `[1,1,1,1.5,"YXNkZmFzZGZhZHNmYWRzZg==",true,"Hello, World!","Hello, World!","Hello, World!",false,false,42]`,
	"arrays":       `[[1,1,1,1.5,"YXNkZmFzZGZhZHNmYWRzZg==",true,"Hello, World!","Hello, World!","Hello, World!",false,false,42],[true,"Hello, World!",42],[true],[42,true,"Hello, World!"]]`,
	"array":        `[[true]]`,
	"nestedarrays": `[[[true],[42,true,"Hello, World!"]]]`,
	"dict":         `[{"array":[true,"Hello, World!",42],"int":1,"string":"string"}]`,
}

func TestCatalogJSONViews(t *testing.T) {
	for _, f := range Catalog() {
		b, err := json.Marshal(archive.PlainValues(f.Build()))
		if err != nil {
			t.Fatalf("%s: json.Marshal: %v", f.Name, err)
		}
		if string(b) != jsonViews[f.Name] {
			t.Errorf("%s: json = %s\nwant %s", f.Name, b, jsonViews[f.Name])
		}
	}
}

func TestPrimitivesShareOneString(t *testing.T) {
	values := Primitives()
	if values[6] != values[7] || values[7] != values[8] {
		t.Fatal("the three Hello, World! slots are not the same instance")
	}
}

func TestBuildReturnsFreshGraphs(t *testing.T) {
	a := Primitives()
	b := Primitives()
	if a[6] == b[6] {
		t.Fatal("two Primitives calls share a string instance")
	}
}

func TestSelect(t *testing.T) {
	got, err := Select([]string{"dict", "onevalue"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 || got[0].Name != "onevalue" || got[1].Name != "dict" {
		t.Errorf("Select kept order %v, want catalog order [onevalue dict]", got)
	}

	all, err := Select(nil)
	if err != nil {
		t.Fatalf("Select(nil): %v", err)
	}
	if len(all) != len(Catalog()) {
		t.Errorf("Select(nil) = %d fixtures, want %d", len(all), len(Catalog()))
	}

	if _, err := Select([]string{"nope"}); !errors.Is(err, ErrUnknownFixture) {
		t.Errorf("Select(nope) error = %v, want ErrUnknownFixture", err)
	}
}
