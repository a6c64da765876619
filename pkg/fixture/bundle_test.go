package fixture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, err := Generate(context.Background(), Options{Dir: dir, Names: []string{"onevalue", "dict"}, Manifest: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out := filepath.Join(t.TempDir(), "fixtures.tar.zst")
	names, err := WriteBundle(dir, out)
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	want := []string{"dict.bin", "dict.xml", "manifest.toml", "onevalue.bin", "onevalue.xml"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("bundled names mismatch (-want +got):\n%s", diff)
	}

	files, err := ReadBundle(out)
	if err != nil {
		t.Fatalf("ReadBundle: %v", err)
	}
	if len(files) != len(want) {
		t.Fatalf("bundle holds %d files, want %d", len(files), len(want))
	}
	for _, name := range want {
		disk, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if !bytes.Equal(disk, files[name]) {
			t.Errorf("%s differs between bundle and disk", name)
		}
	}
}

func TestBundleIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	if _, err := Generate(context.Background(), Options{Dir: dir}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	a := filepath.Join(t.TempDir(), "a.tar.zst")
	b := filepath.Join(t.TempDir(), "b.tar.zst")
	if _, err := WriteBundle(dir, a); err != nil {
		t.Fatalf("WriteBundle(a): %v", err)
	}
	if _, err := WriteBundle(dir, b); err != nil {
		t.Fatalf("WriteBundle(b): %v", err)
	}
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Error("bundling the same directory twice produced different bytes")
	}
}

func TestBundleMissingDirectory(t *testing.T) {
	_, err := WriteBundle(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x.tar.zst"))
	if err == nil {
		t.Fatal("WriteBundle of a missing directory succeeded, want error")
	}
}
