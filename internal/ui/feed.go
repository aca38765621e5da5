package ui

import (
	"context"

	"github.com/five82/gitlook/internal/listing"
)

// snapshotFeed hands the newest listing snapshot to the Bubble Tea loop.
// It holds at most one value; publishing replaces whatever was not yet read.
type snapshotFeed struct {
	ch chan listing.Snapshot
}

func newSnapshotFeed() *snapshotFeed {
	return &snapshotFeed{ch: make(chan listing.Snapshot, 1)}
}

// publish never blocks. The controller serialises calls.
func (f *snapshotFeed) publish(s listing.Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// next waits for a snapshot or for ctx to end.
func (f *snapshotFeed) next(ctx context.Context) (listing.Snapshot, bool) {
	select {
	case s := <-f.ch:
		return s, true
	case <-ctx.Done():
		return listing.Snapshot{}, false
	}
}
