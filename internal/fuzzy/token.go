// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package fuzzy

import (
	"sort"
	"strings"
)

// TokenSortRatio compares the whitespace tokens of a and b after sorting
// them, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the token sets of a and b. Shared tokens count as a
// common prefix, so a string that is a token subset of the other scores 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	sect, diffAB, diffBA := splitSets(ta, tb)
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	abJoined := sortedJoin(diffAB)
	baJoined := sortedJoin(diffBA)
	abLen := runeLen(abJoined)
	baLen := runeLen(baJoined)
	sectLen := runeLen(sortedJoin(sect))

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// Indel distance of "sect ab" vs "sect ba" equals that of ab vs ba.
	dist := abLen + baLen - 2*lcsLength([]rune(abJoined), []rune(baJoined))
	result := normalized(dist, sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// "sect" vs "sect ab" differ only by the appended tokens.
	sectAB := normalized(sep+abLen, sectLen+sectABLen)
	sectBA := normalized(sep+baLen, sectLen+sectBALen)
	return max(result, sectAB, sectBA)
}

// PartialTokenRatio is 100 when a and b share any token, otherwise the
// PartialRatio of their sorted token strings.
func PartialTokenRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	for t := range ta {
		if _, ok := tb[t]; ok {
			return 100
		}
	}
	return PartialRatio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

func normalized(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func splitSets(a, b map[string]struct{}) (sect, onlyA, onlyB []string) {
	for t := range a {
		if _, ok := b[t]; ok {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	return sect, onlyA, onlyB
}

func sortedJoin(tokens []string) string {
	s := append([]string(nil), tokens...)
	sort.Strings(s)
	return strings.Join(s, " ")
}

func runeLen(s string) int {
	return len([]rune(s))
}
