// pkg/codec/codec.go
package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// ID identifies a compression algorithm. The value doubles as the
// Content-Encoding token for algorithms that have one.
type ID string

const (
	Gzip    ID = "gzip"
	Deflate ID = "deflate"
	Zstd    ID = "zstd"
	Brotli  ID = "br"
	XZ      ID = "xz"
	LZ4     ID = "lz4"
	S2      ID = "s2"
)

// String returns the string representation of the codec id
func (id ID) String() string {
	return string(id)
}

// Codec adapts one compression algorithm behind a uniform streaming interface
type Codec interface {
	// ID returns the codec identifier
	ID() ID

	// NewWriter returns a writer that compresses into w at the given level.
	// The caller must Close the returned writer to flush trailing frames.
	NewWriter(w io.Writer, level int) (io.WriteCloser, error)

	// NewReader returns a reader that decompresses from r
	NewReader(r io.Reader) (io.ReadCloser, error)

	// MinLevel returns the lowest valid compression level
	MinLevel() int

	// MaxLevel returns the highest valid compression level
	MaxLevel() int

	// DefaultLevel returns the level used when the caller does not pick one
	DefaultLevel() int

	// Extension returns the conventional file extension, without dot
	Extension() string
}

// registry is the static codec lookup table. All built-in codecs are
// registered at init; tests may unregister entries to simulate a missing
// algorithm.
var (
	registryMu sync.RWMutex
	registry   = make(map[ID]Codec)
)

// Register adds or replaces a codec in the registry
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.ID()] = c
}

// Unregister removes a codec from the registry, returning the removed
// codec (nil if it was not registered)
func Unregister(id ID) Codec {
	registryMu.Lock()
	defer registryMu.Unlock()
	c := registry[id]
	delete(registry, id)
	return c
}

// Lookup returns the registered codec for id.
// The second return value reports availability.
func Lookup(id ID) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[id]
	return c, ok
}

// Available returns the registered codec ids in canonical priority order
// (better-ratio algorithms first). Unregistered ids are omitted.
func Available() []ID {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ids := make([]ID, 0, len(registry))
	for _, id := range priorityOrder {
		if _, ok := registry[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// priorityOrder is the canonical preference order used by Available
var priorityOrder = []ID{Zstd, Brotli, XZ, Gzip, LZ4, S2, Deflate}

// Parse converts a string into a registered codec id.
// Returns an error for unknown or unregistered names.
func Parse(s string) (ID, error) {
	id := ID(s)
	if _, ok := Lookup(id); !ok {
		return "", fmt.Errorf("unknown codec %q", s)
	}
	return id, nil
}

// CompressBytes compresses data in one call.
// Prefer the streaming NewWriter path for large payloads.
func CompressBytes(c Codec, data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressBytes decompresses data in one call
func DecompressBytes(c Codec, data []byte) ([]byte, error) {
	r, err := c.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// clampLevel snaps level into [min, max], treating 0 as "use def".
// Adapters call this after the config layer has already validated the
// level, so out-of-range values here only occur for direct API use.
func clampLevel(level, min, max, def int) int {
	if level == 0 && min > 0 {
		return def
	}
	if level < min {
		return min
	}
	if level > max {
		return max
	}
	return level
}
