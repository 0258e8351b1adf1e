// pkg/atomicfile/writeset.go
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one payload of a set write. The target path is
// dir/basename.Suffix.
type Entry struct {
	Suffix string
	Data   []byte
}

// SetOptions configures a multi-target write
type SetOptions struct {
	// Policy for pre-existing targets. Skip entries are omitted from
	// the write rather than failing the set.
	Policy Policy

	// AtomicAll removes targets already renamed by this call when a
	// later rename fails (best-effort rollback). A pre-existing target
	// replaced before the failure is not recoverable; staging failures
	// never reach the rename phase, so they leave every target intact.
	AtomicAll bool

	// CreateDirs creates the target directory if missing
	CreateDirs bool

	// Perm is applied to each target after rename (0 = default 0644)
	Perm os.FileMode
}

// WriteSet writes all entries into dir as basename.<suffix>, staging every
// payload into its own temp file before any target is touched. Renames
// happen only after all staging succeeds, so a staging failure leaves the
// directory exactly as it was. Returns the paths that were written.
func WriteSet(dir, basename string, entries []Entry, opts SetOptions) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	if err := ensureDir(dir, opts.CreateDirs); err != nil {
		return nil, err
	}

	type staged struct {
		tmp    string
		target string
	}

	var pending []staged
	cleanup := func() {
		for _, s := range pending {
			os.Remove(s.tmp)
		}
	}

	// Stage phase: no target is touched here
	for _, entry := range entries {
		target := filepath.Join(dir, basename+"."+entry.Suffix)

		switch skip, err := checkTarget(target, opts.Policy); {
		case err != nil:
			cleanup()
			return nil, err
		case skip:
			continue
		}

		tmp, err := stage(target, entry.Data)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("stage %s: %w", target, err)
		}
		pending = append(pending, staged{tmp: tmp, target: target})
	}

	// Publish phase: rename everything into place
	written := make([]string, 0, len(pending))
	for i, s := range pending {
		if err := os.Rename(s.tmp, s.target); err != nil {
			for _, rest := range pending[i:] {
				os.Remove(rest.tmp)
			}
			if opts.AtomicAll {
				for _, path := range written {
					os.Remove(path)
				}
			}
			return nil, fmt.Errorf("rename %s: %w", s.target, err)
		}
		written = append(written, s.target)
	}

	if opts.Perm != 0 {
		for _, path := range written {
			if err := os.Chmod(path, opts.Perm); err != nil {
				return written, fmt.Errorf("chmod %s: %w", path, err)
			}
		}
	}
	return written, nil
}
