// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import "github.com/tomtom215/shopsense/internal/vocabulary"

// Predicate is the structured filter extracted from one search phrase.
// Absent signals are nil or empty, never errors. At most one of
// MasterCategory, SubCategory and ArticleType is set.
type Predicate struct {
	OriginalQuery  string      `json:"original_query"`
	MasterCategory *string     `json:"masterCategory"`
	SubCategory    *string     `json:"subCategory"`
	ArticleType    *string     `json:"articleType"`
	Brand          *string     `json:"brand"`
	PriceRange     *PriceRange `json:"price_range"`
	Colors         []string    `json:"colors"`
	Seasons        []string    `json:"seasons"`
	Usage          *string     `json:"usage"`

	// Keywords is filled only by the pass-through interpreter.
	Keywords []string `json:"keywords,omitempty"`
}

// PriceRange bounds are inclusive. A single price in the query becomes Max.
type PriceRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// NewPredicate returns an empty predicate for query with non-nil color and
// season sets, so they encode as [] rather than null.
func NewPredicate(query string) Predicate {
	return Predicate{
		OriginalQuery: query,
		Colors:        []string{},
		Seasons:       []string{},
	}
}

// Category returns the populated hierarchy tier and its term, or TierNone.
func (p *Predicate) Category() (vocabulary.Tier, string) {
	switch {
	case p.SubCategory != nil:
		return vocabulary.TierSub, *p.SubCategory
	case p.ArticleType != nil:
		return vocabulary.TierArticle, *p.ArticleType
	case p.MasterCategory != nil:
		return vocabulary.TierMaster, *p.MasterCategory
	}
	return vocabulary.TierNone, ""
}

// setCategory populates exactly one tier field and clears the others.
func (p *Predicate) setCategory(tier vocabulary.Tier, term string) {
	p.MasterCategory, p.SubCategory, p.ArticleType = nil, nil, nil
	switch tier {
	case vocabulary.TierSub:
		p.SubCategory = &term
	case vocabulary.TierArticle:
		p.ArticleType = &term
	case vocabulary.TierMaster:
		p.MasterCategory = &term
	}
}

// Fields lists the JSON names of the populated fields, for metrics.
func (p *Predicate) Fields() []string {
	var out []string
	if tier, _ := p.Category(); tier != vocabulary.TierNone {
		out = append(out, string(tier))
	}
	if p.Brand != nil {
		out = append(out, "brand")
	}
	if p.PriceRange != nil {
		out = append(out, "price_range")
	}
	if len(p.Colors) > 0 {
		out = append(out, "colors")
	}
	if len(p.Seasons) > 0 {
		out = append(out, "seasons")
	}
	if p.Usage != nil {
		out = append(out, "usage")
	}
	return out
}

// IsEmpty reports whether no signal at all was extracted.
func (p *Predicate) IsEmpty() bool {
	return len(p.Fields()) == 0
}
