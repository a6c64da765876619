package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyedfix.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
dir = "../archiver/fixtures"
fixtures = ["onevalue", "dict"]
malformed = true
manifest = false

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Dir:       "../archiver/fixtures",
		Fixtures:  []string{"onevalue", "dict"},
		Malformed: true,
		Manifest:  false,
		Bundle:    "fixtures.tar.zst",
		Log:       Log{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	lvl, err := cfg.Level()
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	if lvl != zapcore.DebugLevel {
		t.Errorf("Level = %v, want debug", lvl)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		content string
		want    string
	}{
		"unknown key":  {`colour = "red"`, "unknown keys: colour"},
		"empty dir":    {`dir = ""`, "dir is required"},
		"bad level":    {"[log]\nlevel = \"loud\"", "log level"},
		"syntax error": {`dir = `, "load config"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %v, want it to contain %q", err, tc.want)
			}
		})
	}
}
