// pkg/squash/progress.go
package squash

import (
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// ProgressCallback is called for progress events during a batch run.
// Callbacks may be invoked from multiple goroutines.
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type           EventType
	ItemID         string
	Codec          codec.ID
	Current        int64
	Total          int64
	OriginalSize   int64
	CompressedSize int64
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventItemStart
	EventItemProgress
	EventItemComplete
	EventComplete
	EventError
)

// ProgressBarCallback creates a progress callback that displays
// multi-progress bars: one per in-flight item plus an overall counter.
// Call Wait() on the returned container after the batch run.
func ProgressBarCallback() (ProgressCallback, *mpb.Progress) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	var overallBar *mpb.Bar
	var itemBars sync.Map // map[string]*mpb.Bar

	callback := func(event ProgressEvent) {
		switch event.Type {
		case EventStart:
			overallBar = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("Total", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarPriority(1000), // High priority = bottom
			)

		case EventItemStart:
			if event.Total == 0 {
				return
			}
			bar := progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name(truncateLeft(event.ItemID, 30), decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarRemoveOnComplete(),
			)
			itemBars.Store(event.ItemID, bar)

		case EventItemProgress:
			if bar, ok := itemBars.Load(event.ItemID); ok {
				bar.(*mpb.Bar).SetCurrent(event.Current)
			}

		case EventItemComplete:
			if bar, ok := itemBars.Load(event.ItemID); ok {
				b := bar.(*mpb.Bar)
				if event.Total > 0 {
					b.SetCurrent(event.Total)
				} else {
					b.Abort(true)
				}
				itemBars.Delete(event.ItemID)
			}
			if overallBar != nil {
				overallBar.Increment()
			}

		case EventError:
			if bar, ok := itemBars.Load(event.ItemID); ok {
				bar.(*mpb.Bar).Abort(true)
				itemBars.Delete(event.ItemID)
			}
			if overallBar != nil {
				overallBar.Increment()
			}
		}
	}

	return callback, progress
}

// truncateLeft truncates an id from the left to fit maxLen, preserving
// the trailing path component
func truncateLeft(id string, maxLen int) string {
	if len(id) <= maxLen {
		return id
	}
	return "..." + id[len(id)-(maxLen-3):]
}
