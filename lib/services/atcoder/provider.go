package atcoder

import "context"

// Snapshot is the scraped state of one user at one point in time.
// Rating defaults to 0 and Tier to gray when the profile page does not
// expose a rating; Graph is always required.
type Snapshot struct {
	Rating int
	Tier   Tier
	Rank   string // promotion rank text (級/段/伝), empty when not shown
	Graph  []byte // PNG bytes of the rating-history graph region
}

// SnapshotProvider abstracts the layout-dependent scraping of the AtCoder
// profile page. Everything downstream of the provider is layout-agnostic,
// which keeps the pipeline testable with a fake provider.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, atcoderID string) (*Snapshot, error)
}
