package fixture

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/blake2b"
)

// ManifestName is the file name of the manifest inside a fixture directory.
const ManifestName = "manifest.toml"

// Manifest records every file of a generated fixture directory.
type Manifest struct {
	Generator string          `toml:"generator"`
	Files     []ManifestEntry `toml:"file"`
}

// ManifestEntry is one fixture file. Name is relative to the directory.
type ManifestEntry struct {
	Name    string `toml:"name"`
	Fixture string `toml:"fixture"`
	Format  string `toml:"format"`
	Size    int    `toml:"size"`
	Blake2b string `toml:"blake2b"`
}

// digest returns the hex BLAKE2b-256 of data.
func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (m *Manifest) add(fixture string, f File) {
	m.Files = append(m.Files, ManifestEntry{
		Name:    filepath.Base(f.Path),
		Fixture: fixture,
		Format:  f.Format.String(),
		Size:    f.Size,
		Blake2b: f.Digest,
	})
}

func (m *Manifest) sort() {
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Name < m.Files[j].Name })
}

// WriteManifest writes m to dir/manifest.toml, entries sorted by name.
func WriteManifest(dir string, m *Manifest) error {
	m.sort()
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("write manifest: encode: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, ManifestName), buf.Bytes()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads dir/manifest.toml. A missing manifest returns
// (nil, nil).
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return &m, nil
}

// CheckManifest compares every manifest entry with the file on disk and
// returns one message per mismatch.
func CheckManifest(dir string, m *Manifest) []string {
	var problems []string
	for _, e := range m.Files {
		data, err := os.ReadFile(filepath.Join(dir, e.Name))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", e.Name, err))
			continue
		}
		if len(data) != e.Size {
			problems = append(problems, fmt.Sprintf("%s: size %d, manifest says %d", e.Name, len(data), e.Size))
			continue
		}
		if got := digest(data); got != e.Blake2b {
			problems = append(problems, fmt.Sprintf("%s: blake2b %s, manifest says %s", e.Name, got, e.Blake2b))
		}
	}
	return problems
}
