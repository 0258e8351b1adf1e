// pkg/squash/result.go
package squash

import (
	"time"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// CodecResult is the outcome of one codec attempt on one item
type CodecResult struct {
	// Data holds the compressed payload for in-memory targets.
	// Directory and stream targets leave it nil.
	Data []byte

	// Path is the published file for directory targets
	Path string

	// CompressedSize is the output size in bytes
	CompressedSize int64

	// Elapsed is the wall time of the codec invocation
	Elapsed time.Duration

	// Err is the per-codec failure, if any
	Err error
}

// OK reports whether this codec attempt produced output
func (r *CodecResult) OK() bool { return r.Err == nil }

// Ratio returns compressed/original size as a percentage
func (r *CodecResult) Ratio(originalSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return float64(r.CompressedSize) / float64(originalSize) * 100
}

// ItemResult is the immutable outcome of compressing one item. Once
// returned it is a terminal snapshot; nothing mutates it afterwards.
type ItemResult struct {
	// ID is the item identifier
	ID string

	// OriginalSize is the uncompressed payload size
	OriginalSize int64

	// Digest is the BLAKE3 hash of the original payload. Zero when no
	// codec attempt read the payload (e.g. a size-ceiling failure).
	Digest [32]byte

	// Err is the item-level error (size ceiling, input I/O, output
	// publish). Per-codec failures live in PerCodec instead.
	Err error

	// PerCodec maps each attempted codec to its outcome
	PerCodec map[codec.ID]*CodecResult

	order   []codec.ID
	success bool
}

// Success reports whether the item compressed: no item-level error and
// every required codec produced output. Optional codec failures do not
// block success.
func (r *ItemResult) Success() bool { return r.success }

// Codecs returns the attempted codecs in configuration order
func (r *ItemResult) Codecs() []codec.ID {
	out := make([]codec.ID, len(r.order))
	copy(out, r.order)
	return out
}

// CompleteFailure reports that codecs were attempted and none succeeded
func (r *ItemResult) CompleteFailure() bool {
	if len(r.order) == 0 {
		return r.Err != nil
	}
	for _, id := range r.order {
		if cr, ok := r.PerCodec[id]; ok && cr.OK() {
			return false
		}
	}
	return true
}

// Errors collects the item-level error and all per-codec errors
func (r *ItemResult) Errors() []error {
	var errs []error
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	for _, id := range r.order {
		if cr, ok := r.PerCodec[id]; ok && cr.Err != nil {
			errs = append(errs, cr.Err)
		}
	}
	return errs
}

// BatchResult maps item ids to results, iterable in input order.
// Not mutated after the batch run returns it.
type BatchResult struct {
	ids   []string
	items map[string]*ItemResult
}

func newBatchResult(results []*ItemResult) *BatchResult {
	b := &BatchResult{
		ids:   make([]string, 0, len(results)),
		items: make(map[string]*ItemResult, len(results)),
	}
	for _, r := range results {
		b.ids = append(b.ids, r.ID)
		b.items[r.ID] = r
	}
	return b
}

// Len returns the number of items
func (b *BatchResult) Len() int { return len(b.ids) }

// IDs returns the item ids in input order
func (b *BatchResult) IDs() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Get returns the result for an item id
func (b *BatchResult) Get(id string) (*ItemResult, bool) {
	r, ok := b.items[id]
	return r, ok
}

// Items returns all results in input order
func (b *BatchResult) Items() []*ItemResult {
	out := make([]*ItemResult, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.items[id])
	}
	return out
}

// Succeeded counts items with Success() true
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.items {
		if r.Success() {
			n++
		}
	}
	return n
}

// Failed counts items with Success() false
func (b *BatchResult) Failed() int {
	return len(b.items) - b.Succeeded()
}
