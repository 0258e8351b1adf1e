// pkg/squash/orchestrator.go
package squash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// SinkOpener provides the output destination for one codec attempt.
// Returning (nil, nil) skips the attempt entirely (used when an existing
// target is left in place under a Skip overwrite policy). A sink that
// implements io.Closer is closed after the attempt.
type SinkOpener func(spec AlgorithmSpec) (io.Writer, error)

// CompressOptions configures a single item compression
type CompressOptions struct {
	// FailFast propagates the first error instead of recording it
	FailFast bool

	// Verify decompresses each output as it is produced and checks it
	// against the original payload's digest. Applies to every sink
	// type, including sinks that never buffer the compressed bytes.
	Verify bool

	// OpenSink supplies per-codec destinations. nil buffers compressed
	// bytes in the result (in-memory mode).
	OpenSink SinkOpener

	// Progress receives item progress events (may be nil)
	Progress ProgressCallback
}

// CompressItem compresses one input with every codec in its config.
//
// Per-codec isolation is the core contract: one codec's failure never
// prevents the others from being attempted, unless FailFast is set, in
// which case the first error is returned immediately and no ItemResult
// is produced. In graceful mode the returned ItemResult is always
// complete and the error is nil.
func CompressItem(ctx context.Context, in Input, cfg ItemConfig, opts CompressOptions) (*ItemResult, error) {
	size, err := in.Size()
	if err != nil {
		if opts.FailFast {
			return nil, err
		}
		return failedItem(in.ID(), 0, err), nil
	}

	// A size violation is a property of the input, not of any codec:
	// every codec would fail identically, so fail once, not N times.
	if max := cfg.MaxBytes(); max > 0 && size > max {
		err := fmt.Errorf("%s: %d bytes over %d byte ceiling: %w",
			in.ID(), size, max, ErrPayloadTooLarge)
		if opts.FailFast {
			return nil, err
		}
		return failedItem(in.ID(), size, err), nil
	}

	res := &ItemResult{
		ID:           in.ID(),
		OriginalSize: size,
		PerCodec:     make(map[codec.ID]*CodecResult),
	}
	hashed := false

	for attempt, spec := range cfg.Algorithms().Specs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cr, skipped := compressOne(in, spec, size, res, &hashed, attempt == 0, opts)
		if skipped {
			continue
		}
		if cr.Err != nil && opts.FailFast {
			return nil, fmt.Errorf("%s: %w", in.ID(), cr.Err)
		}
		res.order = append(res.order, spec.Codec)
		res.PerCodec[spec.Codec] = cr
	}

	res.success = true
	for _, spec := range cfg.Algorithms().Specs() {
		if spec.Optional {
			continue
		}
		if cr, ok := res.PerCodec[spec.Codec]; ok && cr.Err != nil {
			res.success = false
			break
		}
	}
	return res, nil
}

// compressOne runs a single codec attempt. Failures come back inside
// the CodecResult; skipped is true when the sink opener declined the
// attempt.
func compressOne(in Input, spec AlgorithmSpec, size int64, res *ItemResult, hashed *bool, first bool, opts CompressOptions) (*CodecResult, bool) {
	c, ok := codec.Lookup(spec.Codec)
	if !ok {
		return &CodecResult{Err: fmt.Errorf("codec %q: %w", spec.Codec, ErrCodecUnavailable)}, false
	}

	var out io.Writer
	var buf *bytes.Buffer
	if opts.OpenSink != nil {
		w, err := opts.OpenSink(spec)
		if err != nil {
			return &CodecResult{Err: fmt.Errorf("%s: open sink: %w", spec.Codec, err)}, false
		}
		if w == nil {
			return nil, true
		}
		out = w
	} else {
		buf = &bytes.Buffer{}
		out = buf
	}

	cr := &CodecResult{}
	counting := &CountingWriter{Writer: out}

	// The verifier taps the compressed stream, so sink-backed outputs
	// are checked without buffering or re-reading the target
	var compressTo io.Writer = counting
	var vs *verifySink
	if opts.Verify {
		vs = newVerifySink(c)
		compressTo = io.MultiWriter(counting, vs)
	}

	start := time.Now()
	err := func() error {
		src, err := in.Open()
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer src.Close()

		var reader io.Reader = src

		// Hash the payload once, on the first attempt that reads it
		// all the way through
		var hasher *blake3.Hasher
		if !*hashed {
			hasher = blake3.New()
			reader = io.TeeReader(reader, hasher)
		}

		if first && opts.Progress != nil {
			read := int64(0)
			reader = &ProgressReader{
				Reader: reader,
				OnRead: func(n int) {
					read += int64(n)
					opts.Progress(ProgressEvent{
						Type:    EventItemProgress,
						ItemID:  in.ID(),
						Codec:   spec.Codec,
						Current: read,
						Total:   size,
					})
				},
			}
		}

		enc, err := c.NewWriter(compressTo, spec.Level)
		if err != nil {
			return fmt.Errorf("create encoder: %w", err)
		}

		if _, err := io.Copy(enc, reader); err != nil {
			enc.Close()
			return fmt.Errorf("compress: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush encoder: %w", err)
		}

		if hasher != nil {
			copy(res.Digest[:], hasher.Sum(nil))
			*hashed = true
		}
		return nil
	}()
	cr.Elapsed = time.Since(start)

	if closer, ok := out.(io.Closer); ok {
		if closeErr := closer.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close sink: %w", closeErr)
		}
	}

	// Always reap the verifier goroutine, even after a failed attempt
	var verifyErr error
	if vs != nil {
		digest, derr := vs.Wait()
		switch {
		case err != nil:
			// compression already failed; the decode result is moot
		case derr != nil:
			verifyErr = fmt.Errorf("%w: %v", ErrVerifyMismatch, derr)
		case digest != res.Digest:
			verifyErr = ErrVerifyMismatch
		}
	}

	if err != nil {
		cr.Err = fmt.Errorf("codec %q: %w: %v", spec.Codec, ErrCompressionFailed, err)
		return cr, false
	}

	cr.CompressedSize = counting.Count
	if buf != nil {
		cr.Data = buf.Bytes()
	}
	if verifyErr != nil {
		cr.Err = fmt.Errorf("codec %q: %w", spec.Codec, verifyErr)
		cr.Data = nil
		cr.CompressedSize = 0
	}
	return cr, false
}

// verifySink decodes the compressed stream as it is written and hashes
// the decoded bytes. Wait reports the digest once the stream is closed.
type verifySink struct {
	pw   *io.PipeWriter
	done chan verifyResult
}

type verifyResult struct {
	digest [32]byte
	err    error
}

func newVerifySink(c codec.Codec) *verifySink {
	pr, pw := io.Pipe()
	v := &verifySink{pw: pw, done: make(chan verifyResult, 1)}

	go func() {
		var out verifyResult
		r, err := c.NewReader(pr)
		if err != nil {
			out.err = fmt.Errorf("open decoder: %v", err)
		} else {
			hasher := blake3.New()
			if _, err := io.Copy(hasher, r); err != nil {
				out.err = fmt.Errorf("decompress: %v", err)
			} else {
				copy(out.digest[:], hasher.Sum(nil))
			}
			r.Close()
		}
		// Keep draining so the encoder never blocks on the tee after
		// a decode failure
		io.Copy(io.Discard, pr)
		v.done <- out
	}()
	return v
}

func (v *verifySink) Write(p []byte) (int, error) { return v.pw.Write(p) }

// Wait finishes the stream and returns the digest of the decoded bytes
func (v *verifySink) Wait() ([32]byte, error) {
	v.pw.Close()
	out := <-v.done
	return out.digest, out.err
}

// failedItem builds the single-aggregate-error result for item-level
// failures: no per-codec attempts are recorded.
func failedItem(id string, size int64, err error) *ItemResult {
	return &ItemResult{
		ID:           id,
		OriginalSize: size,
		Err:          err,
		PerCodec:     make(map[codec.ID]*CodecResult),
	}
}
