package atcoder

import "image/color"

// Tier is one of the 8 AtCoder rating bands. Label and Color always come from
// the same band index, so the bio text and the banner background can never
// disagree about a user's tier.
type Tier struct {
	Index int
	Label string
	Color color.NRGBA
}

// tierWidth is the rating span of a single band
const tierWidth = 400

var tierLabels = [8]string{
	"灰", // GRAY
	"茶", // BROWN
	"緑", // GREEN
	"水", // CYAN
	"青", // BLUE
	"黄", // YELLOW
	"橙", // ORANGE
	"赤", // RED
}

var tierColors = [8]color.NRGBA{
	{R: 0xD9, G: 0xD9, B: 0xD9, A: 0xFF}, // GRAY
	{R: 0xD8, G: 0xC5, B: 0xB6, A: 0xFF}, // BROWN
	{R: 0xB5, G: 0xD9, B: 0xB7, A: 0xFF}, // GREEN
	{R: 0xB8, G: 0xEC, B: 0xED, A: 0xFF}, // CYAN
	{R: 0xB3, G: 0xB2, B: 0xFF, A: 0xFF}, // BLUE
	{R: 0xEB, G: 0xEC, B: 0xBD, A: 0xFF}, // YELLOW
	{R: 0xFC, G: 0xD9, B: 0xBC, A: 0xFF}, // ORANGE
	{R: 0xFA, G: 0xB2, B: 0xBA, A: 0xFF}, // RED
}

// TierFor maps a rating to its band. Ratings at or above the top band are
// clamped to red; negative ratings (unrated defaults to 0) map to gray.
func TierFor(rating int) Tier {
	idx := rating / tierWidth
	if idx < 0 {
		idx = 0
	}
	if idx > 7 {
		idx = 7
	}
	return Tier{
		Index: idx,
		Label: tierLabels[idx],
		Color: tierColors[idx],
	}
}
