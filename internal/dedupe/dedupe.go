// internal/dedupe/dedupe.go

// Package dedupe estimates how much duplicate content a set of inputs
// carries, using content-defined chunking so shifted or partially
// edited copies still dedupe. The estimate helps decide whether
// cross-item deduplication would pay off before compressing.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jotfs/fastcdc-go"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-squash/pkg/squash"
)

// DefaultChunkSize is the target average chunk size in bytes
const DefaultChunkSize = 64 * 1024

// ErrInvalidChunkSize indicates a chunk size below the chunker minimum
var ErrInvalidChunkSize = errors.New("chunk size must be at least 256 bytes")

// Analyzer chunks inputs and tracks unique content across all of them.
// Safe for concurrent AnalyzeInput calls.
type Analyzer struct {
	avgChunkSize int

	mu     sync.Mutex
	seen   map[[32]byte]int64 // chunk hash -> chunk length
	report Report
}

// Report summarizes duplicate content across the analyzed inputs
type Report struct {
	Inputs       int
	TotalBytes   int64
	UniqueBytes  int64
	TotalChunks  int
	UniqueChunks int
}

// DupBytes returns how many bytes are duplicates of earlier content
func (r Report) DupBytes() int64 {
	return r.TotalBytes - r.UniqueBytes
}

// DedupRatio returns the fraction of bytes that deduplication would
// remove, in [0, 1].
func (r Report) DedupRatio() float64 {
	if r.TotalBytes == 0 {
		return 0
	}
	return float64(r.DupBytes()) / float64(r.TotalBytes)
}

// NewAnalyzer creates an analyzer with the given average chunk size.
// avgChunkSize of 0 selects DefaultChunkSize.
func NewAnalyzer(avgChunkSize int) (*Analyzer, error) {
	if avgChunkSize == 0 {
		avgChunkSize = DefaultChunkSize
	}
	if avgChunkSize < 256 {
		return nil, ErrInvalidChunkSize
	}
	return &Analyzer{
		avgChunkSize: avgChunkSize,
		seen:         make(map[[32]byte]int64),
	}, nil
}

// AnalyzeInput chunks one input and folds it into the running report
func (a *Analyzer) AnalyzeInput(ctx context.Context, in squash.Input) error {
	src, err := in.Open()
	if err != nil {
		return fmt.Errorf("%s: open: %w", in.ID(), err)
	}
	defer src.Close()

	chunker, err := fastcdc.NewChunker(src, fastcdc.Options{
		AverageSize: a.avgChunkSize,
	})
	if err != nil {
		return fmt.Errorf("%s: chunker: %w", in.ID(), err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: chunk: %w", in.ID(), err)
		}

		hash := blake3.Sum256(chunk.Data)
		length := int64(chunk.Length)

		a.mu.Lock()
		a.report.TotalChunks++
		a.report.TotalBytes += length
		if _, dup := a.seen[hash]; !dup {
			a.seen[hash] = length
			a.report.UniqueChunks++
			a.report.UniqueBytes += length
		}
		a.mu.Unlock()
	}

	a.mu.Lock()
	a.report.Inputs++
	a.mu.Unlock()
	return nil
}

// Report returns a snapshot of the running totals
func (a *Analyzer) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.report
}

// Analyze runs a fresh analyzer over all inputs sequentially
func Analyze(ctx context.Context, inputs []squash.Input, avgChunkSize int) (Report, error) {
	a, err := NewAnalyzer(avgChunkSize)
	if err != nil {
		return Report{}, err
	}
	for _, in := range inputs {
		if err := a.AnalyzeInput(ctx, in); err != nil {
			return Report{}, err
		}
	}
	return a.Report(), nil
}
