package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/keyedfix/pkg/archive"
)

// VerifyOptions selects what Verify checks.
type VerifyOptions struct {
	Names []string
	// Malformed also checks that every known-bad fixture present in the
	// directory is rejected.
	Malformed bool
}

// Verify decodes every archive of the selected fixtures in dir and checks
// it against a freshly built graph, including instance sharing. When dir
// holds a manifest its digests are checked too. It returns one message
// per problem; an error is returned only when the selection is invalid or
// the manifest is unreadable.
func Verify(dir string, opts VerifyOptions) ([]string, error) {
	fixtures, err := Select(opts.Names)
	if err != nil {
		return nil, err
	}

	var problems []string
	for _, f := range fixtures {
		want := f.Build()
		for _, format := range archive.Formats {
			name := f.Name + format.Ext()
			if p := verifyArchive(filepath.Join(dir, name), want); p != "" {
				problems = append(problems, name+": "+p)
			}
		}
	}

	if opts.Malformed {
		for _, m := range MalformedCatalog() {
			name := m.Name + archive.XML.Ext()
			data, err := os.ReadFile(filepath.Join(dir, name))
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			if _, err := archive.Unarchive(data); err == nil {
				problems = append(problems, name+": decoded without error, want rejection")
			}
		}
	}

	m, err := ReadManifest(dir)
	if err != nil {
		return problems, err
	}
	if m != nil {
		problems = append(problems, CheckManifest(dir, m)...)
	}
	return problems, nil
}

func verifyArchive(path string, want []archive.Value) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return err.Error()
	}
	got, err := archive.Unarchive(data)
	if err != nil {
		return err.Error()
	}
	if !archive.EqualValues(want, got) {
		return fmt.Sprintf("decoded %v, want %v", archive.PlainValues(got), archive.PlainValues(want))
	}
	return ""
}
