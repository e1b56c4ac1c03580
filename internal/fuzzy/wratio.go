// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package fuzzy

const (
	unbaseScale = 0.95
	// Length ratio at which partial alignments stop being trusted as much.
	partialCutover = 8.0
)

// WRatio combines Ratio, the token ratios and the partial ratios, weighting
// each by how different the two string lengths are. Empty input scores 0.
//
// Strings of similar length (ratio below 1.5) are compared whole and by
// token. Otherwise the shorter string is aligned against windows of the
// longer one, scaled by 0.9, or by 0.6 once one string is eight times the
// other.
func WRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	shorter, longer := len(ra), len(rb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lenRatio := float64(longer) / float64(shorter)

	end := ratio(ra, rb)
	if lenRatio < 1.5 {
		tokens := max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return max(end, tokens*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= partialCutover {
		partialScale = 0.6
	}
	end = max(end, partialRatio(ra, rb)*partialScale)
	return max(end, PartialTokenRatio(a, b)*unbaseScale*partialScale)
}
