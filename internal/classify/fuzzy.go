package classify

import (
	"github.com/antzucaro/matchr"

	"github.com/voxhall/interject/internal/words"
)

const defaultFuzzyThreshold = 0.85

// fuzzyMatcher tests whether a token is a phonetic near-miss of a word in a
// set. A candidate must share a Double Metaphone code with the target word
// and score at or above the Jaro-Winkler threshold on the raw strings — the
// same two-stage scheme used for entity correction in noisy transcripts,
// narrowed here to set membership.
type fuzzyMatcher struct {
	threshold float64
}

func newFuzzyMatcher(threshold float64) *fuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}
	return &fuzzyMatcher{threshold: threshold}
}

// matchesAny reports whether token phonetically matches any word in set.
// Multi-word set entries are skipped — phrases cannot match a single token.
func (m *fuzzyMatcher) matchesAny(token string, set words.WordSet) bool {
	primary, secondary := matchr.DoubleMetaphone(token)

	for w := range set {
		wp, ws := matchr.DoubleMetaphone(w)
		if !codesOverlap(primary, secondary, wp, ws) {
			continue
		}
		if matchr.JaroWinkler(token, w, false) >= m.threshold {
			return true
		}
	}
	return false
}

// codesOverlap reports whether the two Double Metaphone code pairs share a
// non-empty code.
func codesOverlap(a1, a2, b1, b2 string) bool {
	for _, a := range [2]string{a1, a2} {
		if a == "" {
			continue
		}
		if a == b1 || a == b2 {
			return true
		}
	}
	return false
}
