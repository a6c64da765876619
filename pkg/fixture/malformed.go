package fixture

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/keyedfix/pkg/archive"
	"howett.net/plist"
)

// Malformed is a known-bad archive: a valid one-value archive with a
// single defect that a keyed-archive reader must reject. Malformed
// fixtures are written in XML only.
type Malformed struct {
	Name        string
	Description string
	Build       func() ([]byte, error)
}

// MalformedCatalog returns every known-bad fixture.
func MalformedCatalog() []Malformed {
	return []Malformed{
		{"missing_archiver", "$archiver key is missing", mutated(func(m map[string]any) { delete(m, "$archiver") })},
		{"wrong_archiver", "$archiver is not NSKeyedArchiver", mutated(func(m map[string]any) { m["$archiver"] = "NSArchiver" })},
		{"missing_top", "$top key is missing", mutated(func(m map[string]any) { delete(m, "$top") })},
		{"missing_objects", "$objects key is missing", mutated(func(m map[string]any) { delete(m, "$objects") })},
		{"missing_version", "$version key is missing", mutated(func(m map[string]any) { delete(m, "$version") })},
		{"wrong_version", "$version is not 100000", mutated(func(m map[string]any) { m["$version"] = uint64(10) })},
		{"broken_plist", "truncated property list", brokenPlist},
	}
}

func validEnvelope() (map[string]any, error) {
	a := archive.NewArchiver(archive.XML)
	if err := a.Encode(archive.Bool(true)); err != nil {
		return nil, err
	}
	return a.Envelope(), nil
}

func mutated(mutate func(map[string]any)) func() ([]byte, error) {
	return func() ([]byte, error) {
		env, err := validEnvelope()
		if err != nil {
			return nil, err
		}
		mutate(env)
		return plist.MarshalIndent(env, plist.XMLFormat, "\t")
	}
}

func brokenPlist() ([]byte, error) {
	env, err := validEnvelope()
	if err != nil {
		return nil, err
	}
	data, err := plist.MarshalIndent(env, plist.XMLFormat, "\t")
	if err != nil {
		return nil, err
	}
	return data[:len(data)/2], nil
}

// WriteMalformed writes every known-bad fixture as dir/<name>.xml. It
// stops at the first failure.
func (w *Writer) WriteMalformed(dir string) ([]File, error) {
	var files []File
	for _, m := range MalformedCatalog() {
		data, err := m.Build()
		if err != nil {
			return files, fmt.Errorf("%w %s: %w", ErrWrite, m.Name, err)
		}
		path := filepath.Join(dir, m.Name+archive.XML.Ext())
		if err := writeFileAtomic(path, data); err != nil {
			return files, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
		}
		files = append(files, File{Path: path, Format: archive.XML, Size: len(data), Digest: digest(data)})
	}
	return files, nil
}
