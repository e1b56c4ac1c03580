// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package fuzzy implements approximate string similarity scores on a 0-100
// scale: Ratio, PartialRatio, TokenSortRatio, TokenSetRatio,
// PartialTokenRatio and the weighted combination WRatio used for brand
// matching.
//
// Scores are computed over runes. Callers normalize case and punctuation
// before scoring; no processing happens here.
package fuzzy
