// pkg/discover/discover.go

// Package discover turns files and directory trees on disk into
// compression inputs, with .gitignore filtering and overlap detection.
package discover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/creativeyann17/go-squash/pkg/squash"
)

// Options configures input discovery
type Options struct {
	// UseGitignore excludes paths matched by .gitignore files found
	// inside directory inputs
	UseGitignore bool

	// IncludeHidden keeps dot-files and dot-directories. Off by
	// default; .gitignore files themselves are never collected.
	IncludeHidden bool
}

// Report records what discovery skipped without failing the scan
type Report struct {
	// Errors holds per-path scan failures (unreadable entries, broken
	// stat calls). The scan continues past them.
	Errors []error

	// Skipped counts entries excluded by gitignore or hidden filtering
	Skipped int
}

// Collect scans every path (file or directory) and returns one input
// per regular file, in a deterministic order. Directory contents get
// relative paths rooted at the directory's base name, so an archive of
// "testdata/" keeps the "testdata/" prefix. Two inputs resolving to the
// same relative path is an error since downstream output targets would
// collide.
func Collect(paths []string, opts Options) ([]squash.Input, *Report, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoPaths
	}

	report := &Report{}
	var inputs []squash.Input
	seen := make(map[string]string) // relPath -> source argument

	add := func(absPath, relPath, source string) error {
		if prev, dup := seen[relPath]; dup {
			return fmt.Errorf("%w: %q from %q conflicts with %q", ErrPathOverlap, relPath, source, prev)
		}
		seen[relPath] = source
		inputs = append(inputs, squash.NewFileInputRel(absPath, relPath))
		return nil
	}

	for _, p := range paths {
		clean := filepath.Clean(p)
		info, err := os.Stat(clean)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", p, err))
			continue
		}

		if info.Mode().IsRegular() {
			if err := add(clean, filepath.Base(clean), p); err != nil {
				return nil, nil, err
			}
			continue
		}
		if !info.IsDir() {
			report.Skipped++
			continue
		}

		if err := collectDir(clean, p, opts, report, add); err != nil {
			return nil, nil, err
		}
	}

	return inputs, report, nil
}

// collectDir walks one directory input, mapping each regular file to a
// relative path prefixed with the directory's base name.
func collectDir(dir, source string, opts Options, report *Report, add func(abs, rel, source string) error) error {
	var matcher *ignoreMatcher
	if opts.UseGitignore {
		matcher = loadIgnoreMatcher(dir)
	}
	base := filepath.Base(dir)

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return nil
		}
		name := filepath.Base(path)

		if info.IsDir() {
			if !opts.IncludeHidden && name[0] == '.' {
				report.Skipped++
				return filepath.SkipDir
			}
			if matcher.IgnoredDir(rel) {
				report.Skipped++
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			report.Skipped++
			return nil
		}
		if name == ".gitignore" || (!opts.IncludeHidden && name[0] == '.') {
			report.Skipped++
			return nil
		}
		if matcher.Ignored(rel) {
			report.Skipped++
			return nil
		}

		return add(path, filepath.Join(base, rel), source)
	})
}
