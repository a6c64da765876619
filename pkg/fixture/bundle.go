package fixture

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// bundleExts are the file extensions packed into a bundle besides the
// manifest.
var bundleExts = []string{".bin", ".xml"}

// WriteBundle packs the fixture files of dir (archives and manifest) into
// a zstd-compressed tar at out. Entries are sorted by name and carry no
// timestamps, so the same directory always yields the same bundle.
func WriteBundle(dir, out string) ([]string, error) {
	names, err := bundleNames(dir)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("bundle: zstd writer: %w", err)
	}
	tw := tar.NewWriter(enc)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			enc.Close()
			return nil, fmt.Errorf("bundle: read %s: %w", name, err)
		}
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			enc.Close()
			return nil, fmt.Errorf("bundle: header %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			enc.Close()
			return nil, fmt.Errorf("bundle: write %s: %w", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		enc.Close()
		return nil, fmt.Errorf("bundle: close tar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("bundle: close zstd: %w", err)
	}

	if err := writeFileAtomic(out, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	return names, nil
}

// ReadBundle returns the files stored in a bundle, keyed by name.
func ReadBundle(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read bundle: zstd reader: %w", err)
	}
	defer dec.Close()

	files := make(map[string][]byte)
	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bundle: %w", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", hdr.Name, err)
		}
		files[hdr.Name] = data
	}
	return files, nil
}

func bundleNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if name == ManifestName || hasBundleExt(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func hasBundleExt(name string) bool {
	for _, ext := range bundleExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
