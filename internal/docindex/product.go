// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package docindex

import "fmt"

// Product is a document's _source as stored in the index. The catalogue
// schema belongs to the indexer, so fields are kept untyped.
type Product map[string]any

// ProductID returns the ProductID field as a string. Numeric ids are
// formatted without a fractional part.
func (p Product) ProductID() (string, bool) {
	switch v := p["ProductID"].(type) {
	case string:
		return v, v != ""
	case float64:
		return fmt.Sprintf("%.0f", v), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	}
	return "", false
}

// orderByIDs returns the products whose ProductID appears in ids, in ids
// order. Ids with no document are skipped.
func orderByIDs(products []Product, ids []string) []Product {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		if id, ok := p.ProductID(); ok {
			if _, dup := byID[id]; !dup {
				byID[id] = p
			}
		}
	}
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
