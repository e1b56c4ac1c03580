// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package docindex

import (
	"strings"
	"unicode"

	"github.com/tomtom215/shopsense/internal/query"
)

// Body is a search request body in the Elasticsearch query DSL.
type Body map[string]any

// Result sizes for the fixed queries.
const (
	SearchSize  = 10
	AllSize     = 100
	LatestLimit = 10
)

// BuildSearch translates a predicate into a bool query. Only the first
// color and first season are used. When the predicate carries no usable
// signal the raw text is matched against productDisplayName.
func BuildSearch(p *query.Predicate) Body {
	var must, filter []any

	if p.Brand != nil {
		must = append(must, Body{"match": Body{"productDisplayName": *p.Brand}})
	}
	if p.ArticleType != nil {
		filter = append(filter, Body{"term": Body{"articleType": *p.ArticleType}})
	}
	if len(p.Colors) > 0 {
		filter = append(filter, Body{"term": Body{"baseColour": titleCase(p.Colors[0])}})
	}
	if len(p.Seasons) > 0 {
		filter = append(filter, Body{"term": Body{"season": titleCase(p.Seasons[0])}})
	}
	if p.PriceRange != nil {
		rng := Body{}
		if p.PriceRange.Min != nil {
			rng["gte"] = *p.PriceRange.Min
		}
		if p.PriceRange.Max != nil {
			rng["lte"] = *p.PriceRange.Max
		}
		if len(rng) > 0 {
			filter = append(filter, Body{"range": Body{"price": rng}})
		}
	}

	boolQuery := Body{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	if len(must) == 0 && len(filter) == 0 {
		boolQuery["must"] = Body{"match": Body{"productDisplayName": p.OriginalQuery}}
	}

	return Body{
		"query": Body{"bool": boolQuery},
		"size":  SearchSize,
	}
}

// ByIDQuery matches a single document by its id field.
func ByIDQuery(id string) Body {
	return Body{
		"query": Body{"term": Body{"id": id}},
		"size":  1,
	}
}

// AllQuery returns the first AllSize documents.
func AllQuery() Body {
	return Body{
		"query": Body{"match_all": Body{}},
		"size":  AllSize,
	}
}

// LatestQuery returns the newest documents by timestamp.
func LatestQuery(limit int) Body {
	return Body{
		"query": Body{"match_all": Body{}},
		"sort":  []any{Body{"timestamp": Body{"order": "desc"}}},
		"size":  limit,
	}
}

// ByProductIDsQuery fetches the documents for ids in one request.
func ByProductIDsQuery(ids []string) Body {
	return Body{
		"query": Body{"terms": Body{"ProductID.keyword": ids}},
		"size":  len(ids),
	}
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "light blue" becomes "Light Blue" and
// "off-white" becomes "Off-White".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
