// Package banner builds the profile banner image from a scraped snapshot.
package banner

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"profileupdater/lib/services/atcoder"
)

const (
	// Twitter profile banners are rendered at 1500x500
	canvasWidth  = 1500
	canvasHeight = 500
)

// Compose renders the fixed-size banner: a canvas filled with the snapshot's
// tier color, with the rating graph resized to full height (aspect preserved)
// and centered horizontally. Deterministic for identical input bytes.
func Compose(snapshot *atcoder.Snapshot) ([]byte, error) {
	graph, err := imaging.Decode(bytes.NewReader(snapshot.Graph))
	if err != nil {
		return nil, fmt.Errorf("failed to decode graph image: %w", err)
	}

	// Height 0 keeps the aspect ratio
	graph = imaging.Resize(graph, 0, canvasHeight, imaging.Lanczos)

	canvas := imaging.New(canvasWidth, canvasHeight, snapshot.Tier.Color)
	offsetX := (canvasWidth - graph.Bounds().Dx()) / 2
	canvas = imaging.Paste(canvas, graph, image.Pt(offsetX, 0))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode banner: %w", err)
	}
	return buf.Bytes(), nil
}
