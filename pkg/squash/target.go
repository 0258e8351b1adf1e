// pkg/squash/target.go
package squash

import (
	"io"
	"os"

	"github.com/creativeyann17/go-squash/pkg/atomicfile"
)

// Target selects where a batch run puts compressed output. Chosen once
// per batch run, not per item.
type Target interface {
	target()
}

// InMemory keeps compressed payloads in the ItemResult. An optional
// per-item ceiling guards against buffering oversized inputs; when both
// this and the ItemConfig ceiling are set, the stricter one applies.
type InMemory struct {
	MaxBytesPerItem int64
}

func (InMemory) target() {}

// Directory publishes one file per codec, named <basename>.<extension>,
// through the atomic temp-then-rename write path.
type Directory struct {
	// Path is the output directory root
	Path string

	// KeepSourceStructure mirrors each input's source subdirectory
	// under Path
	KeepSourceStructure bool

	// Policy for pre-existing targets
	Policy atomicfile.Policy

	// AtomicAll removes this item's already-published files when a
	// later rename fails
	AtomicAll bool

	// Perm is applied to published files (0 = default)
	Perm os.FileMode
}

func (Directory) target() {}

// Stream hands each codec's output to a caller-supplied sink. Returning
// (nil, nil) from Open skips that codec for that item. Sinks are closed
// by the engine after the attempt.
type Stream struct {
	Open func(itemID string, spec AlgorithmSpec) (io.WriteCloser, error)
}

func (Stream) target() {}
