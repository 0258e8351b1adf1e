// pkg/atomicfile/atomicfile.go

// Package atomicfile writes files through a temp-then-rename discipline:
// any observer of a target path sees either the complete previous version
// or the complete new version, never a partial write. Set writes extend
// the guarantee across multiple targets by deferring every rename until
// all payloads are staged.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Policy controls what happens when a target file already exists
type Policy int

const (
	// Fail errors out on an existing target
	Fail Policy = iota

	// Skip leaves an existing target untouched, without error
	Skip

	// Replace overwrites an existing target
	Replace
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Options configures a single-target write
type Options struct {
	// Policy for pre-existing targets
	// Default: Fail
	Policy Policy

	// CreateDirs creates missing parent directories
	CreateDirs bool

	// Perm is applied to the target after rename
	// 0 keeps the default (0644)
	Perm os.FileMode
}

// WriteFile writes data to path atomically. The payload is staged into a
// uniquely-named temp file in the same directory (same filesystem, so the
// rename is atomic) and renamed over the target. The temp file is removed
// on any failure before rename.
func WriteFile(path string, data []byte, opts Options) error {
	if err := ensureDir(filepath.Dir(path), opts.CreateDirs); err != nil {
		return err
	}

	switch skip, err := checkTarget(path, opts.Policy); {
	case err != nil:
		return err
	case skip:
		return nil
	}

	tmp, err := stage(path, data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}

	if opts.Perm != 0 {
		if err := os.Chmod(path, opts.Perm); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}
	return nil
}

// ensureDir verifies dir exists, creating it when requested
func ensureDir(dir string, create bool) error {
	if create {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		return nil
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", dir, ErrMissingDir)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", dir)
	}
	return nil
}

// checkTarget applies the overwrite policy to an existing target.
// Returns skip=true when the write should silently not happen.
func checkTarget(path string, policy Policy) (skip bool, err error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	switch policy {
	case Fail:
		return false, fmt.Errorf("%s: %w", path, ErrTargetExists)
	case Skip:
		return true, nil
	default:
		return false, nil
	}
}

// stage writes data to a temp file next to path and returns the temp path
func stage(path string, data []byte) (string, error) {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}
