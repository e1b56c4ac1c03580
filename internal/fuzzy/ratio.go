// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package fuzzy

// Ratio returns the normalized Indel similarity of a and b on a 0-100 scale:
// 200 * LCS(a, b) / (len(a) + len(b)). Two empty strings are identical.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

// lcsLength is the length of the longest common subsequence. Two rows of the
// DP table are enough since only the previous row is read.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// PartialRatio scores the shorter string against every alignment window of
// the longer one, including the windows that hang off either end, and
// returns the best Ratio.
func PartialRatio(a, b string) float64 {
	return partialRatio([]rune(a), []rune(b))
}

func partialRatio(s1, s2 []rune) float64 {
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	if len(s1) == 0 {
		if len(s2) == 0 {
			return 100
		}
		return 0
	}
	best := bestWindow(s1, s2)
	if best < 100 && len(s1) == len(s2) {
		if alt := bestWindow(s2, s1); alt > best {
			best = alt
		}
	}
	return best
}

func bestWindow(needle, hay []rune) float64 {
	n, m := len(needle), len(hay)
	best := 0.0
	try := func(window []rune) bool {
		if r := ratio(needle, window); r > best {
			best = r
		}
		return best == 100
	}

	for i := 1; i < n; i++ {
		if try(hay[:i]) {
			return best
		}
	}
	for i := 0; i <= m-n; i++ {
		if try(hay[i : i+n]) {
			return best
		}
	}
	for i := m - n + 1; i < m; i++ {
		if try(hay[i:]) {
			return best
		}
	}
	return best
}
