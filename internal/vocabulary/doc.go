// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package vocabulary holds the term lists the query interpreter matches
against: the three-tier category hierarchy, brands, colors, seasons and usage
tags.

The category hierarchy and usage tags come from the product catalogue CSV
(LoadCSV). Brands, colors and seasons ship built in and can be replaced or
extended with a YAML overrides file:

	replace:
	  seasons: [spring, summer, fall, winter]
	extend:
	  brands: [arket, cos]

A Vocabulary is immutable once built. Hash gives a stable digest used to key
persisted embedding snapshots, so a vocabulary change always forces a
rebuild.
*/
package vocabulary
