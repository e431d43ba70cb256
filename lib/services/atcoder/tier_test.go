package atcoder

import "testing"

func TestTierFor_BandBoundaries(t *testing.T) {
	cases := []struct {
		rating int
		index  int
		label  string
	}{
		{0, 0, "灰"},
		{399, 0, "灰"},
		{400, 1, "茶"},
		{799, 1, "茶"},
		{800, 2, "緑"},
		{1200, 3, "水"},
		{1600, 4, "青"},
		{2000, 5, "黄"},
		{2400, 6, "橙"},
		{2800, 7, "赤"},
		{3199, 7, "赤"},
	}

	for _, c := range cases {
		tier := TierFor(c.rating)
		if tier.Index != c.index {
			t.Errorf("rating %d: expected index %d, got %d", c.rating, c.index, tier.Index)
		}
		if tier.Label != c.label {
			t.Errorf("rating %d: expected label %s, got %s", c.rating, c.label, tier.Label)
		}
	}
}

func TestTierFor_ClampsAboveRed(t *testing.T) {
	tier := TierFor(4200)
	if tier.Index != 7 || tier.Label != "赤" {
		t.Errorf("expected red tier for 4200, got index %d label %s", tier.Index, tier.Label)
	}
}

func TestTierFor_NegativeRatingIsGray(t *testing.T) {
	tier := TierFor(-50)
	if tier.Index != 0 || tier.Label != "灰" {
		t.Errorf("expected gray tier for negative rating, got index %d label %s", tier.Index, tier.Label)
	}
}

func TestTierFor_LabelAndColorAgree(t *testing.T) {
	for rating := 0; rating < 3200; rating += 137 {
		tier := TierFor(rating)
		if tier.Label != tierLabels[tier.Index] {
			t.Errorf("rating %d: label %s does not match index %d", rating, tier.Label, tier.Index)
		}
		if tier.Color != tierColors[tier.Index] {
			t.Errorf("rating %d: color does not match index %d", rating, tier.Index)
		}
	}
}

func TestTierFor_GrayColor(t *testing.T) {
	tier := TierFor(0)
	if tier.Color.R != 0xD9 || tier.Color.G != 0xD9 || tier.Color.B != 0xD9 {
		t.Errorf("expected #D9D9D9 for gray, got %+v", tier.Color)
	}
}
