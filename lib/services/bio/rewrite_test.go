package bio

import (
	"testing"

	"profileupdater/lib/services/atcoder"
)

func snapshotFor(rating int, rank string) *atcoder.Snapshot {
	return &atcoder.Snapshot{
		Rating: rating,
		Tier:   atcoder.TierFor(rating),
		Rank:   rank,
	}
}

func TestRewrite_FullMarker(t *testing.T) {
	text := "競プロやってます AtCoder 緑 (1200) よろしく"
	got := Rewrite(text, snapshotFor(1600, ""))

	want := "競プロやってます AtCoder 青 (1600) よろしく"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRewrite_PreservesAbsentFields(t *testing.T) {
	// marker without a rating: rewrite must not add one
	text := "AtCoder 茶"
	got := Rewrite(text, snapshotFor(900, ""))

	want := "AtCoder 緑"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRewrite_RatingOnlyMarker(t *testing.T) {
	text := "AtCoder (800)"
	got := Rewrite(text, snapshotFor(1250, ""))

	want := "AtCoder (1250)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRewrite_BareMarkerUnchanged(t *testing.T) {
	text := "I love AtCoder problems"
	got := Rewrite(text, snapshotFor(2000, ""))

	if got != text {
		t.Errorf("bare marker should pass through, got %q", got)
	}
}

func TestRewrite_RankField(t *testing.T) {
	text := "AtCoder 青 三段 (1700)"
	got := Rewrite(text, snapshotFor(2100, "四段"))

	want := "AtCoder 黄 四段 (2100)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRewrite_MultipleOccurrences(t *testing.T) {
	text := "AtCoder 灰 (100) / sub: AtCoder 茶"
	got := Rewrite(text, snapshotFor(450, ""))

	want := "AtCoder 茶 (450) / sub: AtCoder 茶"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	snap := snapshotFor(1325, "初段")
	text := "bio text AtCoder 緑 二段 (900) tail"

	once := Rewrite(text, snap)
	twice := Rewrite(once, snap)
	if once != twice {
		t.Errorf("rewrite not idempotent: %q vs %q", once, twice)
	}
}

func TestRewrite_SurroundingTextUntouched(t *testing.T) {
	text := "前置き text (with parens) AtCoder 水 (1300) 後書き (999)"
	got := Rewrite(text, snapshotFor(1600, ""))

	want := "前置き text (with parens) AtCoder 青 (1600) 後書き (999)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestContainsMarker(t *testing.T) {
	if !ContainsMarker("AtCoder 緑 (1000)") {
		t.Error("expected marker to be detected")
	}
	if ContainsMarker("just a normal bio") {
		t.Error("expected no marker in plain text")
	}
}
