// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package vocabulary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalogue CSV columns that feed the vocabulary.
const (
	ColumnMasterCategory = "masterCategory"
	ColumnSubCategory    = "subCategory"
	ColumnArticleType    = "articleType"
	ColumnUsage          = "usage"
)

// LoadCSV reads a product catalogue and collects the unique values of the
// category and usage columns in first-seen order.
func LoadCSV(path string) (*Vocabulary, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer f.Close()

	v, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	return v, nil
}

// ReadCSV is LoadCSV over an arbitrary reader. A missing column leaves the
// matching list empty; it is not an error.
func ReadCSV(r io.Reader) (*Vocabulary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var master, sub, article, usage []string
	collect := func(rec []string, col string, dst *[]string) {
		idx, ok := cols[col]
		if !ok || idx >= len(rec) {
			return
		}
		*dst = append(*dst, rec[idx])
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		collect(rec, ColumnMasterCategory, &master)
		collect(rec, ColumnSubCategory, &sub)
		collect(rec, ColumnArticleType, &article)
		collect(rec, ColumnUsage, &usage)
	}

	return New(master, sub, article, usage), nil
}

// Overrides adjusts the built-in lists from a YAML document. Lists under
// Replace take the place of the built-ins; lists under Extend are appended.
type Overrides struct {
	Replace Lists `yaml:"replace"`
	Extend  Lists `yaml:"extend"`
}

// Lists is the subset of term lists an overrides file may touch.
type Lists struct {
	Brands  []string `yaml:"brands"`
	Colors  []string `yaml:"colors"`
	Seasons []string `yaml:"seasons"`
	Usages  []string `yaml:"usages"`
}

// LoadOverrides parses an overrides file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return &o, nil
}

// Apply returns a copy of v with the overrides applied. The receiver may be
// nil, in which case v is returned unchanged.
func (o *Overrides) Apply(v *Vocabulary) *Vocabulary {
	out := v.clone()
	if o == nil {
		return out
	}
	pick := func(cur, replace, extend []string) []string {
		if len(replace) > 0 {
			cur = append([]string(nil), replace...)
		}
		return append(cur, extend...)
	}
	// Brand order is significant and may repeat, so brands are not compacted.
	out.Brands = pick(out.Brands, o.Replace.Brands, o.Extend.Brands)
	out.Colors = compact(pick(out.Colors, o.Replace.Colors, o.Extend.Colors))
	out.Seasons = compact(pick(out.Seasons, o.Replace.Seasons, o.Extend.Seasons))
	out.Usages = compact(pick(out.Usages, o.Replace.Usages, o.Extend.Usages))
	out.index()
	return out
}

func (v *Vocabulary) clone() *Vocabulary {
	c := &Vocabulary{
		MasterCategories: append([]string(nil), v.MasterCategories...),
		SubCategories:    append([]string(nil), v.SubCategories...),
		ArticleTypes:     append([]string(nil), v.ArticleTypes...),
		Usages:           append([]string(nil), v.Usages...),
		Brands:           append([]string(nil), v.Brands...),
		Colors:           append([]string(nil), v.Colors...),
		Seasons:          append([]string(nil), v.Seasons...),
	}
	c.index()
	return c
}
