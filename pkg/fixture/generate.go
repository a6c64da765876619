package fixture

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Generator identifies this tool in manifests.
const Generator = "keyedfix"

// Options selects what Generate writes.
type Options struct {
	// Dir receives the fixture files. It must exist.
	Dir string
	// Names selects catalog fixtures; empty means all.
	Names []string
	// Malformed also writes the known-bad fixtures.
	Malformed bool
	// Manifest writes manifest.toml listing every file written.
	Manifest bool
	Logger   *zap.Logger
}

// Report summarizes one Generate run.
type Report struct {
	Written   []Pair
	Malformed []File
	// Failed maps a fixture name (or "malformed", "manifest") to the error
	// that stopped it.
	Failed map[string]error
}

// FailedNames returns the names in Failed, sorted.
func (r *Report) FailedNames() []string {
	return sortedNames(r.Failed)
}

// Generate writes each selected fixture pair into opts.Dir. A fixture that
// fails is logged and skipped; the rest are still written. The returned
// error is reserved for bad options and cancellation.
func Generate(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fixtures, err := Select(opts.Names)
	if err != nil {
		return nil, err
	}

	w := NewWriter(logger)
	report := &Report{Failed: make(map[string]error)}
	manifest := &Manifest{Generator: Generator}

	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pair, err := w.WritePair(filepath.Join(opts.Dir, f.Name), f.Build())
		if err != nil {
			logger.Error("couldn't write fixture", zap.String("fixture", f.Name), zap.Error(err))
			report.Failed[f.Name] = err
			continue
		}
		logger.Info("wrote fixture", zap.String("fixture", f.Name), zap.String("stem", pair.Stem))
		report.Written = append(report.Written, pair)
		for _, file := range pair.Files {
			manifest.add(f.Name, file)
		}
	}

	if opts.Malformed {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		files, err := w.WriteMalformed(opts.Dir)
		report.Malformed = files
		for _, file := range files {
			manifest.add(trimExt(file.Path), file)
		}
		if err != nil {
			logger.Error("couldn't write malformed fixtures", zap.Error(err))
			report.Failed["malformed"] = err
		}
	}

	if opts.Manifest {
		if err := WriteManifest(opts.Dir, manifest); err != nil {
			logger.Error("couldn't write manifest", zap.Error(err))
			report.Failed["manifest"] = err
		}
	}
	return report, nil
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func sortedNames(m map[string]error) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
