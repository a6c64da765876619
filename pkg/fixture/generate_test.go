package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/keyedfix/pkg/archive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGenerateWritesEveryFixture(t *testing.T) {
	dir := t.TempDir()
	report, err := Generate(context.Background(), Options{Dir: dir, Malformed: true, Manifest: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Failed) != 0 {
		t.Fatalf("Generate failures: %v", report.Failed)
	}
	if len(report.Written) != len(Catalog()) {
		t.Fatalf("wrote %d pairs, want %d", len(report.Written), len(Catalog()))
	}
	if len(report.Malformed) != len(MalformedCatalog()) {
		t.Fatalf("wrote %d malformed fixtures, want %d", len(report.Malformed), len(MalformedCatalog()))
	}

	for _, f := range Catalog() {
		for _, ext := range []string{".bin", ".xml"} {
			got := readArchive(t, filepath.Join(dir, f.Name+ext))
			if !archive.EqualValues(f.Build(), got) {
				t.Errorf("%s%s decoded %v", f.Name, ext, archive.PlainValues(got))
			}
		}
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m == nil {
		t.Fatal("manifest not written")
	}
	if want := 2*len(Catalog()) + len(MalformedCatalog()); len(m.Files) != want {
		t.Errorf("manifest lists %d files, want %d", len(m.Files), want)
	}
}

func TestGeneratedArchivesDecodeToJSONViews(t *testing.T) {
	dir := t.TempDir()
	if _, err := Generate(context.Background(), Options{Dir: dir}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, f := range Catalog() {
		for _, ext := range []string{".xml", ".bin"} {
			b, err := json.Marshal(archive.PlainValues(readArchive(t, filepath.Join(dir, f.Name+ext))))
			if err != nil {
				t.Fatalf("%s%s: json.Marshal: %v", f.Name, ext, err)
			}
			if string(b) != jsonViews[f.Name] {
				t.Errorf("%s%s: json = %s\nwant %s", f.Name, ext, b, jsonViews[f.Name])
			}
		}
	}
}

func TestGenerateLogsAndSkipsFailedFixture(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory named like the archive blocks the rename.
	blocker := filepath.Join(dir, "onevalue.bin")
	if err := os.MkdirAll(filepath.Join(blocker, "x"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	report, err := Generate(context.Background(), Options{
		Dir:    dir,
		Names:  []string{"onevalue", "dict"},
		Logger: zap.New(core),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if diff := cmp.Diff([]string{"onevalue"}, report.FailedNames()); diff != "" {
		t.Errorf("FailedNames mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(report.Failed["onevalue"], ErrWrite) {
		t.Errorf("onevalue error = %v, want ErrWrite", report.Failed["onevalue"])
	}
	if len(report.Written) != 1 || filepath.Base(report.Written[0].Stem) != "dict" {
		t.Errorf("written = %+v, want dict only", report.Written)
	}

	failures := logs.FilterMessage("couldn't write fixture").All()
	if len(failures) != 1 {
		t.Fatalf("logged %d write failures, want 1", len(failures))
	}
	if got := failures[0].ContextMap()["fixture"]; got != "onevalue" {
		t.Errorf("logged fixture = %v, want onevalue", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "onevalue.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("onevalue.xml exists after binary failure: %v", err)
	}
}

func TestGenerateMissingDirectoryDoesNotAbort(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	report, err := Generate(context.Background(), Options{Dir: dir})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Failed) != len(Catalog()) {
		t.Errorf("failed %d fixtures, want %d", len(report.Failed), len(Catalog()))
	}
	if len(report.Written) != 0 {
		t.Errorf("wrote %d pairs into a missing directory", len(report.Written))
	}
}

func TestGenerateUnknownFixture(t *testing.T) {
	_, err := Generate(context.Background(), Options{Dir: t.TempDir(), Names: []string{"nope"}})
	if !errors.Is(err, ErrUnknownFixture) {
		t.Fatalf("Generate error = %v, want ErrUnknownFixture", err)
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	report, err := Generate(ctx, Options{Dir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate error = %v, want context.Canceled", err)
	}
	if len(report.Written) != 0 {
		t.Errorf("wrote %d pairs after cancellation", len(report.Written))
	}
}
