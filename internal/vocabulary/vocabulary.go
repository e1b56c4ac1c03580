// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package vocabulary

import (
	"errors"
	"slices"
	"strings"
)

// ErrUnavailable reports an empty or missing term list. Callers treat it as
// a degraded pass, never as a fatal condition.
var ErrUnavailable = errors.New("vocabulary unavailable")

// Tier identifies one level of the category hierarchy.
type Tier string

const (
	TierNone    Tier = ""
	TierMaster  Tier = "masterCategory"
	TierSub     Tier = "subCategory"
	TierArticle Tier = "articleType"
)

// Vocabulary is the immutable set of term lists the query interpreter
// matches against. Build one with New, LoadCSV or Merge and never mutate it
// after it has been handed to an interpreter.
type Vocabulary struct {
	MasterCategories []string `yaml:"master_categories"`
	SubCategories    []string `yaml:"sub_categories"`
	ArticleTypes     []string `yaml:"article_types"`
	Usages           []string `yaml:"usages"`
	Brands           []string `yaml:"brands"`
	Colors           []string `yaml:"colors"`
	Seasons          []string `yaml:"seasons"`

	sub     map[string]struct{}
	article map[string]struct{}
	master  map[string]struct{}
}

// New returns a vocabulary with the built-in brand, color and season lists
// and the given category hierarchy and usage tags.
func New(master, sub, article, usages []string) *Vocabulary {
	v := &Vocabulary{
		MasterCategories: compact(master),
		SubCategories:    compact(sub),
		ArticleTypes:     compact(article),
		Usages:           compact(usages),
		Brands:           append([]string(nil), builtinBrands...),
		Colors:           append([]string(nil), builtinColors...),
		Seasons:          append([]string(nil), builtinSeasons...),
	}
	v.index()
	return v
}

func (v *Vocabulary) index() {
	v.sub = toSet(v.SubCategories)
	v.article = toSet(v.ArticleTypes)
	v.master = toSet(v.MasterCategories)
}

// CategoryTerms returns every hierarchy term exactly once, sub-categories
// first, then article types, then master categories. This is the order the
// embedding index stores and scans them in.
func (v *Vocabulary) CategoryTerms() []string {
	n := len(v.SubCategories) + len(v.ArticleTypes) + len(v.MasterCategories)
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, list := range [][]string{v.SubCategories, v.ArticleTypes, v.MasterCategories} {
		for _, t := range list {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Classify returns the tier of a hierarchy term. A label present in more than
// one tier resolves to the first of sub-category, article type, master
// category.
func (v *Vocabulary) Classify(term string) Tier {
	switch {
	case member(v.sub, v.SubCategories, term):
		return TierSub
	case member(v.article, v.ArticleTypes, term):
		return TierArticle
	case member(v.master, v.MasterCategories, term):
		return TierMaster
	}
	return TierNone
}

// member falls back to a scan for vocabularies built as struct literals.
func member(set map[string]struct{}, list []string, term string) bool {
	if set != nil {
		_, ok := set[term]
		return ok
	}
	return slices.Contains(list, term)
}

// Missing lists the names of the term lists that are empty.
func (v *Vocabulary) Missing() []string {
	var missing []string
	check := func(name string, list []string) {
		if len(list) == 0 {
			missing = append(missing, name)
		}
	}
	check("categories", v.CategoryTerms())
	check("brands", v.Brands)
	check("colors", v.Colors)
	check("seasons", v.Seasons)
	check("usages", v.Usages)
	return missing
}

// LowerAll returns a lower-cased copy of list, skipping blank entries.
func LowerAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// compact trims entries and removes blanks and duplicates, keeping first-seen
// order.
func compact(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, s := range list {
		m[s] = struct{}{}
	}
	return m
}
