package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runKeyedfix(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.toml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGenerateThenVerify(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")

	out, err := runKeyedfix(t, "generate", "--dir", dir, "--malformed")
	if err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}
	for _, name := range []string{"onevalue.bin", "onevalue.xml", "primitives.bin", "dict.xml", "missing_top.xml", "manifest.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Stat(%s): %v", name, err)
		}
	}
	if !strings.Contains(out, "wrote "+filepath.Join(dir, "onevalue.bin")) {
		t.Errorf("generate output = %q, want onevalue.bin listed", out)
	}

	out, err = runKeyedfix(t, "verify", "--dir", dir, "--malformed")
	if err != nil {
		t.Fatalf("verify: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "ok ") {
		t.Errorf("verify output = %q, want ok", out)
	}
}

func TestGenerateSelectedFixtures(t *testing.T) {
	dir := t.TempDir()
	out, err := runKeyedfix(t, "generate", "--dir", dir, "--manifest=false", "onevalue")
	if err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "onevalue.bin,onevalue.xml" {
		t.Errorf("directory holds %v, want onevalue pair only", names)
	}
}

func TestGenerateMissingDirectoryIsNotFatal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	out, err := runKeyedfix(t, "generate", "--dir", dir, "--mkdir=false", "--manifest=false", "onevalue")
	if err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "couldn't write fixture") {
		t.Errorf("output = %q, want logged write failure", out)
	}
	if !strings.Contains(out, "1 fixture(s) failed") {
		t.Errorf("output = %q, want failure summary", out)
	}

	if _, err := runKeyedfix(t, "generate", "--dir", dir, "--mkdir=false", "--manifest=false", "--strict", "onevalue"); err == nil {
		t.Error("generate --strict succeeded with a failing fixture, want error")
	}
}

func TestVerifyReportsProblems(t *testing.T) {
	out, err := runKeyedfix(t, "verify", "--dir", t.TempDir(), "onevalue")
	if err == nil {
		t.Fatalf("verify of an empty directory succeeded\noutput:\n%s", out)
	}
	if !strings.Contains(out, "onevalue.bin") || !strings.Contains(out, "onevalue.xml") {
		t.Errorf("verify output = %q, want both files reported", out)
	}
}

func TestDumpPrintsJSON(t *testing.T) {
	dir := t.TempDir()
	if out, err := runKeyedfix(t, "generate", "--dir", dir, "nestedarrays"); err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}
	out, err := runKeyedfix(t, "dump", filepath.Join(dir, "nestedarrays.bin"))
	if err != nil {
		t.Fatalf("dump: %v\noutput:\n%s", err, out)
	}
	compact := strings.Join(strings.Fields(out), "")
	if compact != `[[[true],[42,true,"Hello,World!"]]]` {
		t.Errorf("dump output = %s", compact)
	}

	if _, err := runKeyedfix(t, "dump", "--allow-class", "NSArray", filepath.Join(dir, "nestedarrays.xml")); err == nil {
		t.Error("dump with NSSet disallowed succeeded, want error")
	}
}

func TestListAndBundle(t *testing.T) {
	out, err := runKeyedfix(t, "list", "--malformed")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range []string{"primitives", "nestedarrays", "dict", "broken_plist"} {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %s:\n%s", name, out)
		}
	}

	dir := t.TempDir()
	if out, err := runKeyedfix(t, "generate", "--dir", dir); err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}
	bundle := filepath.Join(t.TempDir(), "fixtures.tar.zst")
	out, err = runKeyedfix(t, "bundle", "--dir", dir, "--out", bundle)
	if err != nil {
		t.Fatalf("bundle: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "bundled 13 file(s)") {
		t.Errorf("bundle output = %q, want 13 files", out)
	}
}

func TestConfigFileSelectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "from-config")
	cfgPath := filepath.Join(t.TempDir(), "keyedfix.toml")
	content := "dir = " + `"` + filepath.ToSlash(dir) + `"` + "\nfixtures = [\"dict\"]\nmanifest = false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", cfgPath, "generate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "dict.xml")); err != nil {
		t.Fatalf("config dir not used: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "onevalue.xml")); !os.IsNotExist(err) {
		t.Errorf("config fixture selection ignored: %v", err)
	}
}
