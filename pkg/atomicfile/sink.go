// pkg/atomicfile/sink.go
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink is a writable destination backed by a temp file. Producers stream
// into it; StreamSet publishes it with the same rename discipline as
// WriteSet once the producer returns.
type Sink struct {
	file    *os.File
	target  string
	n       int64
	err     error
	discard bool
}

// Write streams p into the staging temp file
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.file.Write(p)
	s.n += int64(n)
	if err != nil {
		s.err = err
	}
	return n, err
}

// Size returns the number of bytes written so far
func (s *Sink) Size() int64 {
	return s.n
}

// Target returns the final path the sink will be published to
func (s *Sink) Target() string {
	return s.target
}

// Discard marks the sink so its temp file is dropped instead of
// published. Lets a producer abandon one sink (say, after a partial
// write) without failing the whole set.
func (s *Sink) Discard() {
	s.discard = true
}

// StreamSet opens one temp-file backed sink per suffix and hands the map
// (keyed by suffix) to produce, which streams output directly into the
// sinks. Sinks that received zero bytes are discarded rather than
// publishing empty files. Remaining sinks are renamed into place with
// WriteSet's all-or-nothing discipline. A produce error, or any sink
// write error, discards every temp file with no target touched.
func StreamSet(dir, basename string, suffixes []string, opts SetOptions, produce func(sinks map[string]*Sink) error) ([]string, error) {
	if len(suffixes) == 0 {
		return nil, ErrNoEntries
	}
	if err := ensureDir(dir, opts.CreateDirs); err != nil {
		return nil, err
	}

	sinks := make(map[string]*Sink, len(suffixes))
	cleanup := func() {
		for _, s := range sinks {
			s.file.Close()
			os.Remove(s.file.Name())
		}
	}

	for _, suffix := range suffixes {
		target := filepath.Join(dir, basename+"."+suffix)

		switch skip, err := checkTarget(target, opts.Policy); {
		case err != nil:
			cleanup()
			return nil, err
		case skip:
			continue
		}

		tmp, err := os.CreateTemp(dir, "."+basename+"."+suffix+"-*.tmp")
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("create temp file: %w", err)
		}
		sinks[suffix] = &Sink{file: tmp, target: target}
	}

	if err := produce(sinks); err != nil {
		cleanup()
		return nil, err
	}

	// Flush and validate every sink before any rename
	type staged struct {
		tmp    string
		target string
	}
	var pending []staged
	for suffix, s := range sinks {
		if closeErr := s.file.Close(); s.err == nil && closeErr != nil {
			s.err = closeErr
		}
		if s.discard {
			os.Remove(s.file.Name())
			continue
		}
		if s.err != nil {
			cleanup()
			return nil, fmt.Errorf("sink %s: %w", suffix, s.err)
		}
		if s.n == 0 {
			// nothing streamed: drop the temp file, publish no target
			os.Remove(s.file.Name())
			continue
		}
		pending = append(pending, staged{tmp: s.file.Name(), target: s.target})
	}

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
