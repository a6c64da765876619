package fixture

import (
	"errors"
	"fmt"

	"github.com/odvcencio/keyedfix/pkg/archive"
	"go.uber.org/zap"
)

// ErrWrite wraps every failure to produce a fixture file, whether the
// archive could not be encoded or the file could not be written.
var ErrWrite = errors.New("couldn't write file")

// File describes one archive written to disk.
type File struct {
	Path   string
	Format archive.Format
	Size   int
	Digest string
}

// Pair is the archive pair written for one stem.
type Pair struct {
	Stem  string
	Files []File
}

// Writer writes archive pairs.
type Writer struct {
	logger *zap.Logger
}

// NewWriter returns a Writer logging to logger. A nil logger discards.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// WritePair archives values once per format, binary first, and writes
// <stem>.bin and <stem>.xml. Each archive comes from a fresh archiver fed
// the values in order. The first failure aborts the pair; a file already
// written for the pair is left in place.
func (w *Writer) WritePair(stem string, values []archive.Value) (Pair, error) {
	pair := Pair{Stem: stem}
	for _, format := range archive.Formats {
		f, err := w.writeArchive(stem, format, values)
		if err != nil {
			return pair, err
		}
		pair.Files = append(pair.Files, f)
	}
	return pair, nil
}

func (w *Writer) writeArchive(stem string, format archive.Format, values []archive.Value) (File, error) {
	path := stem + format.Ext()

	a := archive.NewArchiver(format)
	for _, v := range values {
		if err := a.Encode(v); err != nil {
			return File{}, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
		}
	}
	data, err := a.Finish()
	if err != nil {
		return File{}, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return File{}, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	w.logger.Debug("wrote archive",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Int("bytes", len(data)),
	)
	return File{Path: path, Format: format, Size: len(data), Digest: digest(data)}, nil
}
