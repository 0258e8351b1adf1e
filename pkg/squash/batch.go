// pkg/squash/batch.go
package squash

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/creativeyann17/go-squash/pkg/atomicfile"
	"github.com/creativeyann17/go-squash/pkg/codec"
)

// Options configures a batch run
type Options struct {
	// FailFast aborts the whole batch on the first item-level error.
	// The caller receives the error and no partial BatchResult. In
	// graceful mode (default) every input is attempted and failures are
	// recorded per item/codec.
	FailFast bool

	// MaxWorkers bounds parallel item compression
	// Default: runtime.NumCPU()
	MaxWorkers int

	// Verify round-trips each output against the original payload's
	// digest, whatever the target
	Verify bool

	// DryRun compresses and measures without producing any output
	DryRun bool

	// Progress receives progress events (optional)
	Progress ProgressCallback
}

// ConfigFunc selects the ItemConfig for an item id
type ConfigFunc func(id string) ItemConfig

// Run compresses every input and assembles a BatchResult in input order,
// regardless of execution order. Items are independent and are fanned
// out across a bounded worker pool; per-item codec execution stays
// sequential since compression is CPU-bound.
//
// configFor may be nil, in which case every item uses DefaultItemConfig.
// target may be nil, defaulting to InMemory.
func Run(ctx context.Context, inputs []Input, configFor ConfigFunc, target Target, opts Options) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if configFor == nil {
		def := DefaultItemConfig()
		configFor = func(string) ItemConfig { return def }
	}
	if target == nil {
		target = InMemory{}
	}

	if opts.Progress != nil {
		opts.Progress(ProgressEvent{Type: EventStart, Total: int64(len(inputs))})
	}

	results := make([]*ItemResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			// Fail-fast cancellation: abandon not-yet-started items
			if err := gctx.Err(); err != nil {
				return err
			}

			size, _ := in.Size()
			if opts.Progress != nil {
				opts.Progress(ProgressEvent{
					Type:   EventItemStart,
					ItemID: in.ID(),
					Total:  size,
				})
			}

			res, err := runOne(gctx, in, configFor(in.ID()), target, opts)
			if err != nil {
				if opts.Progress != nil {
					opts.Progress(ProgressEvent{Type: EventError, ItemID: in.ID()})
				}
				return err
			}
			results[i] = res

			if opts.Progress != nil {
				event := ProgressEvent{
					Type:         EventItemComplete,
					ItemID:       in.ID(),
					Current:      size,
					Total:        size,
					OriginalSize: res.OriginalSize,
				}
				if !res.Success() {
					event.Type = EventError
				}
				opts.Progress(event)
			}
			return nil
		})
	}

	// In fail-fast mode the first error cancels in-flight work and
	// results collected so far are discarded; completed atomic writes
	// for prior items are not rolled back.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Progress != nil {
		opts.Progress(ProgressEvent{
			Type:    EventComplete,
			Current: int64(len(inputs)),
			Total:   int64(len(inputs)),
		})
	}
	return newBatchResult(results), nil
}

// runOne compresses a single input into the batch target
func runOne(ctx context.Context, in Input, cfg ItemConfig, target Target, opts Options) (*ItemResult, error) {
	copts := CompressOptions{
		FailFast: opts.FailFast,
		Verify:   opts.Verify,
		Progress: opts.Progress,
	}

	if opts.DryRun {
		copts.OpenSink = func(AlgorithmSpec) (io.Writer, error) { return io.Discard, nil }
		return CompressItem(ctx, in, cfg, copts)
	}

	switch t := target.(type) {
	case InMemory:
		if t.MaxBytesPerItem > 0 {
			cfg = cfg.withCeiling(t.MaxBytesPerItem)
		}
		return CompressItem(ctx, in, cfg, copts)

	case Directory:
		return runDirectory(ctx, in, cfg, t, copts)

	case Stream:
		copts.OpenSink = func(spec AlgorithmSpec) (io.Writer, error) {
			wc, err := t.Open(in.ID(), spec)
			if wc == nil && err == nil {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return wc, nil
		}
		return CompressItem(ctx, in, cfg, copts)

	default:
		return nil, fmt.Errorf("unsupported output target %T", target)
	}
}

// runDirectory compresses one item straight into atomic file sinks, one
// per codec, publishing all of them with a single all-or-nothing set
// write.
func runDirectory(ctx context.Context, in Input, cfg ItemConfig, t Directory, copts CompressOptions) (*ItemResult, error) {
	dir, base := resolveTarget(in, t)

	extFor := make(map[codec.ID]string)
	var suffixes []string
	for _, spec := range cfg.Algorithms().Specs() {
		c, ok := codec.Lookup(spec.Codec)
		if !ok {
			continue // recorded as CodecUnavailable by the orchestrator
		}
		extFor[spec.Codec] = c.Extension()
		suffixes = append(suffixes, c.Extension())
	}

	if len(suffixes) == 0 {
		// No codec available; run anyway so every failure is recorded
		copts.OpenSink = func(AlgorithmSpec) (io.Writer, error) { return io.Discard, nil }
		return CompressItem(ctx, in, cfg, copts)
	}

	setOpts := atomicfile.SetOptions{
		Policy:     t.Policy,
		AtomicAll:  t.AtomicAll,
		CreateDirs: true,
		Perm:       t.Perm,
	}

	var res *ItemResult
	_, err := atomicfile.StreamSet(dir, base, suffixes, setOpts, func(sinks map[string]*atomicfile.Sink) error {
		copts.OpenSink = func(spec AlgorithmSpec) (io.Writer, error) {
			s, ok := sinks[extFor[spec.Codec]]
			if !ok {
				return nil, nil // existing target left in place under Skip
			}
			return s, nil
		}

		var cerr error
		res, cerr = CompressItem(ctx, in, cfg, copts)
		if cerr != nil {
			return cerr
		}

		// Drop the sinks of failed codecs so siblings still publish
		for id, cr := range res.PerCodec {
			if cr.Err != nil {
				if s, ok := sinks[extFor[id]]; ok {
					s.Discard()
				}
			}
		}
		return nil
	})

	if err != nil {
		if copts.FailFast || res == nil && ctx.Err() != nil {
			return nil, err
		}
		if res == nil {
			size, _ := in.Size()
			return failedItem(in.ID(), size, err), nil
		}
		// Outputs were produced but publishing failed: the item did not
		// succeed even if every codec ran clean
		res.Err = fmt.Errorf("%s: publish outputs: %w", in.ID(), err)
		res.success = false
		return res, nil
	}

	for id, cr := range res.PerCodec {
		if cr.Err == nil {
			cr.Path = filepath.Join(dir, base+"."+extFor[id])
		}
	}
	return res, nil
}

// resolveTarget picks the output directory and basename for an item
func resolveTarget(in Input, t Directory) (dir, base string) {
	dir = t.Path
	base = filepath.Base(in.ID())

	if rp, ok := in.(RelPather); ok && rp.RelPath() != "" {
		rel := rp.RelPath()
		base = filepath.Base(rel)
		if t.KeepSourceStructure {
			if d := filepath.Dir(rel); d != "." {
				dir = filepath.Join(dir, d)
			}
		}
	}
	return dir, base
}
