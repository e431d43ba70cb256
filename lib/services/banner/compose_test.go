package banner

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"profileupdater/lib/services/atcoder"
)

// graphPNG renders a solid-color PNG of the given size for use as a
// stand-in rating graph
func graphPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test graph: %v", err)
	}
	return buf.Bytes()
}

func decodeBanner(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("banner is not valid PNG: %v", err)
	}
	return img
}

func TestCompose_CanvasDimensions(t *testing.T) {
	snapshot := &atcoder.Snapshot{
		Rating: 800,
		Tier:   atcoder.TierFor(800),
		Graph:  graphPNG(t, 640, 445, color.NRGBA{R: 1, G: 2, B: 3, A: 255}),
	}

	data, err := Compose(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := decodeBanner(t, data)
	bounds := img.Bounds()
	if bounds.Dx() != 1500 || bounds.Dy() != 500 {
		t.Errorf("expected 1500x500 banner, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCompose_TierColorMargins(t *testing.T) {
	// unrated user: gray background
	snapshot := &atcoder.Snapshot{
		Rating: 0,
		Tier:   atcoder.TierFor(0),
		Graph:  graphPNG(t, 640, 445, color.NRGBA{R: 10, G: 20, B: 30, A: 255}),
	}

	data, err := Compose(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := decodeBanner(t, data)
	r, g, b, _ := img.At(5, 250).RGBA()
	if uint8(r>>8) != 0xD9 || uint8(g>>8) != 0xD9 || uint8(b>>8) != 0xD9 {
		t.Errorf("expected #D9D9D9 margin for unrated user, got #%02X%02X%02X",
			uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}

func TestCompose_GraphCenteredHorizontally(t *testing.T) {
	graphColor := color.NRGBA{R: 200, G: 0, B: 0, A: 255}
	snapshot := &atcoder.Snapshot{
		Rating: 1600,
		Tier:   atcoder.TierFor(1600),
		// 500x500 source stays 500 wide after the height-500 resize
		Graph: graphPNG(t, 500, 500, graphColor),
	}

	data, err := Compose(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := decodeBanner(t, data)

	// graph occupies x in [500, 1000); sample well inside each region
	r, _, _, _ := img.At(750, 250).RGBA()
	if uint8(r>>8) != 200 {
		t.Errorf("expected graph pixel at center, got red component %d", uint8(r>>8))
	}

	r, g, b, _ := img.At(250, 250).RGBA()
	tier := atcoder.TierFor(1600).Color
	if uint8(r>>8) != tier.R || uint8(g>>8) != tier.G || uint8(b>>8) != tier.B {
		t.Errorf("expected tier color in left margin, got #%02X%02X%02X",
			uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}

func TestCompose_InvalidGraphBytes(t *testing.T) {
	snapshot := &atcoder.Snapshot{
		Rating: 800,
		Tier:   atcoder.TierFor(800),
		Graph:  []byte("not an image"),
	}

	if _, err := Compose(snapshot); err == nil {
		t.Error("expected error for undecodable graph bytes")
	}
}

func TestCompose_Deterministic(t *testing.T) {
	snapshot := &atcoder.Snapshot{
		Rating: 2400,
		Tier:   atcoder.TierFor(2400),
		Graph:  graphPNG(t, 640, 445, color.NRGBA{R: 30, G: 30, B: 30, A: 255}),
	}

	first, err := Compose(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compose(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected identical output for identical input")
	}
}
