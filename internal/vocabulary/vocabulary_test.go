// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package vocabulary

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const catalogue = `id,gender,masterCategory,subCategory,articleType,baseColour,season,year,usage,productDisplayName
15970,Men,Apparel,Topwear,Shirts,Navy Blue,Fall,2011,Casual,Turtle Check Men Navy Blue Shirt
39386,Men,Apparel,Bottomwear,Jeans,Blue,Summer,2012,Casual,Peter England Men Party Blue Jeans
59263,Women,Accessories,Watches,Watches,Silver,Winter,2016,Casual,Titan Women Silver Watch
21379,Men,Footwear,Shoes,Sports Shoes,Black,Fall,2011,Sports,Nike Men Black Sports Shoes
53759,Men,Apparel,Topwear,Tshirts,Grey,Summer,2012,,Puma Men Grey T-shirt
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	v, err := ReadCSV(strings.NewReader(catalogue))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"master", v.MasterCategories, []string{"Apparel", "Accessories", "Footwear"}},
		{"sub", v.SubCategories, []string{"Topwear", "Bottomwear", "Watches", "Shoes"}},
		{"article", v.ArticleTypes, []string{"Shirts", "Jeans", "Watches", "Sports Shoes", "Tshirts"}},
		{"usage", v.Usages, []string{"Casual", "Sports"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if len(v.Brands) == 0 || v.Brands[0] != "nike" {
		t.Errorf("Brands[0] = %v, want built-in list starting with nike", v.Brands)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	t.Parallel()

	if _, err := ReadCSV(strings.NewReader("")); err != ErrUnavailable {
		t.Errorf("ReadCSV(empty) error = %v, want %v", err, ErrUnavailable)
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	t.Parallel()

	v, err := ReadCSV(strings.NewReader("id,masterCategory\n1,Apparel\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(v.SubCategories) != 0 || len(v.Usages) != 0 {
		t.Errorf("expected empty sub/usage lists, got %v / %v", v.SubCategories, v.Usages)
	}
	missing := v.Missing()
	if !contains(missing, "usages") {
		t.Errorf("Missing() = %v, want usages listed", missing)
	}
}

func TestCategoryTerms_OrderAndDedup(t *testing.T) {
	t.Parallel()

	v := New(
		[]string{"Apparel", "Watches"},
		[]string{"Topwear", "Watches"},
		[]string{"Shirts", "Watches", "Topwear"},
		nil,
	)
	want := []string{"Topwear", "Watches", "Shirts", "Apparel"}
	if got := v.CategoryTerms(); !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryTerms() = %v, want %v", got, want)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	v := New(
		[]string{"Apparel", "Watches", "Footwear"},
		[]string{"Topwear", "Watches"},
		[]string{"Shirts", "Watches", "Flip Flops", "Footwear"},
		nil,
	)
	tests := []struct {
		term string
		want Tier
	}{
		{"Topwear", TierSub},
		{"Watches", TierSub}, // present in all three tiers
		{"Footwear", TierArticle},
		{"Flip Flops", TierArticle},
		{"Apparel", TierMaster},
		{"Unknown", TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := v.Classify(tt.term); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestOverridesApply(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	body := `replace:
  seasons: [spring, summer]
extend:
  brands: [arket]
  usages: [Formal, Formal]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	base := Builtin()
	got := o.Apply(base)

	if want := []string{"spring", "summer"}; !reflect.DeepEqual(got.Seasons, want) {
		t.Errorf("Seasons = %v, want %v", got.Seasons, want)
	}
	if got.Brands[len(got.Brands)-1] != "arket" {
		t.Errorf("last brand = %q, want arket", got.Brands[len(got.Brands)-1])
	}
	if len(got.Brands) != len(base.Brands)+1 {
		t.Errorf("len(Brands) = %d, want %d", len(got.Brands), len(base.Brands)+1)
	}
	if want := []string{"Formal"}; !reflect.DeepEqual(got.Usages, want) {
		t.Errorf("Usages = %v, want %v", got.Usages, want)
	}
	if len(base.Seasons) != 5 {
		t.Errorf("Apply mutated its input: base seasons = %v", base.Seasons)
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := New([]string{"Apparel"}, []string{"Topwear"}, []string{"Shirts"}, []string{"Casual"})
	b := New([]string{"Apparel"}, []string{"Topwear"}, []string{"Shirts"}, []string{"Casual"})
	c := New([]string{"Apparel"}, []string{"Topwear"}, []string{"Shirts"}, []string{"Sports"})

	if a.Hash() != b.Hash() {
		t.Error("Hash() differs for identical vocabularies")
	}
	if a.Hash() == c.Hash() {
		t.Error("Hash() equal for different usage lists")
	}
	// Boundary shifts between adjacent entries must change the digest.
	d := New([]string{"ab", "c"}, nil, nil, nil)
	e := New([]string{"a", "bc"}, nil, nil, nil)
	if d.Hash() == e.Hash() {
		t.Error("Hash() ignores term boundaries")
	}
	if got := len(a.HashHex()); got != HashSize*2 {
		t.Errorf("len(HashHex()) = %d, want %d", got, HashSize*2)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
