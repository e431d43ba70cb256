// Package bio rewrites the AtCoder marker inside a user's free-form bio text.
package bio

import (
	"fmt"
	"regexp"

	"profileupdater/lib/services/atcoder"
)

// markerRegex matches the marker users keep in their bio: the literal
// "AtCoder" token, optionally followed by a tier color character, a promotion
// rank (級/段/伝 variants), and a parenthesized numeric rating. Each group is
// optional so the rewrite preserves exactly the fields the user chose to show.
var markerRegex = regexp.MustCompile(`AtCoder(\s*[色灰茶緑水青黄橙赤])?(\s*(?:級|\d+\s*級|[初二三四五六七八九十]段|[皆極]伝))?(\s*\(\d*?\))?`)

// Rewrite replaces every marker occurrence with one rebuilt from the
// snapshot. Sub-fields absent in an occurrence stay absent; all surrounding
// text passes through untouched. Rewriting is idempotent, so a redelivered
// job that runs twice produces the same bio.
func Rewrite(text string, snapshot *atcoder.Snapshot) string {
	return markerRegex.ReplaceAllStringFunc(text, func(match string) string {
		groups := markerRegex.FindStringSubmatch(match)

		rebuilt := "AtCoder"
		if groups[1] != "" {
			rebuilt += " " + snapshot.Tier.Label
		}
		if groups[2] != "" {
			rebuilt += " " + snapshot.Rank
		}
		if groups[3] != "" {
			rebuilt += fmt.Sprintf(" (%d)", snapshot.Rating)
		}
		return rebuilt
	})
}

// ContainsMarker reports whether the text has a marker the rewriter would
// touch. Useful for skipping the profile write when nothing would change.
func ContainsMarker(text string) bool {
	return markerRegex.MatchString(text)
}
