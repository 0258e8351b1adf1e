// pkg/squash/stats.go
package squash

import (
	"math"
	"sort"
	"time"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// CodecStats aggregates the outcomes of one codec across a batch
type CodecStats struct {
	Codec codec.ID

	Attempts  int
	Successes int
	Failures  int

	// BytesIn/BytesOut cover successful attempts only
	BytesIn  int64
	BytesOut int64

	// Ratios are compressed/original percentages over successful
	// attempts with a non-empty payload
	MeanRatio   float64
	MedianRatio float64
	P95Ratio    float64

	MeanElapsed   time.Duration
	MedianElapsed time.Duration
	P95Elapsed    time.Duration
}

// BytesSaved returns how many bytes compression removed
func (s CodecStats) BytesSaved() int64 {
	return s.BytesIn - s.BytesOut
}

// Summary holds derived metrics computed from a BatchResult.
// Read-only; computing it does not mutate the result.
type Summary struct {
	Items     int
	Succeeded int
	Failed    int

	// OriginalBytes is the sum of all item payload sizes
	OriginalBytes int64

	// PerCodec is ordered by first appearance across items
	PerCodec []CodecStats
}

// Aggregate computes derived statistics over a batch result
func Aggregate(b *BatchResult) *Summary {
	s := &Summary{
		Items:     b.Len(),
		Succeeded: b.Succeeded(),
		Failed:    b.Failed(),
	}

	type samples struct {
		stats   CodecStats
		ratios  []float64
		elapsed []time.Duration
	}
	byCodec := make(map[codec.ID]*samples)
	var order []codec.ID

	for _, item := range b.Items() {
		s.OriginalBytes += item.OriginalSize

		for _, id := range item.Codecs() {
			cr := item.PerCodec[id]
			agg, ok := byCodec[id]
			if !ok {
				agg = &samples{stats: CodecStats{Codec: id}}
				byCodec[id] = agg
				order = append(order, id)
			}

			agg.stats.Attempts++
			if cr.Err != nil {
				agg.stats.Failures++
				continue
			}
			agg.stats.Successes++
			agg.stats.BytesIn += item.OriginalSize
			agg.stats.BytesOut += cr.CompressedSize
			agg.elapsed = append(agg.elapsed, cr.Elapsed)
			if item.OriginalSize > 0 {
				agg.ratios = append(agg.ratios, cr.Ratio(item.OriginalSize))
			}
		}
	}

	for _, id := range order {
		agg := byCodec[id]

		sort.Float64s(agg.ratios)
		agg.stats.MeanRatio = meanFloat(agg.ratios)
		agg.stats.MedianRatio = percentileFloat(agg.ratios, 0.5)
		agg.stats.P95Ratio = percentileFloat(agg.ratios, 0.95)

		sort.Slice(agg.elapsed, func(i, j int) bool { return agg.elapsed[i] < agg.elapsed[j] })
		agg.stats.MeanElapsed = meanDuration(agg.elapsed)
		agg.stats.MedianElapsed = percentileDuration(agg.elapsed, 0.5)
		agg.stats.P95Elapsed = percentileDuration(agg.elapsed, 0.95)

		s.PerCodec = append(s.PerCodec, agg.stats)
	}
	return s
}

// percentileFloat returns the nearest-rank percentile of sorted values
func percentileFloat(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func percentileDuration(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanDuration(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range values {
		sum += v
	}
	return sum / time.Duration(len(values))
}
