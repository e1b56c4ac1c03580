// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/embedding"
	"github.com/tomtom215/shopsense/internal/vocabulary"
)

// stubEmbedder maps exact texts to vectors; anything else is the zero
// vector, which never matches.
type stubEmbedder struct {
	vecs map[string][]float32
	err  error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vecs[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

func (s *stubEmbedder) Dimension() int { return 3 }

func testVocab() *vocabulary.Vocabulary {
	return vocabulary.New(
		[]string{"Footwear", "Apparel"},
		[]string{"Shoes", "Topwear"},
		[]string{"Sports Shoes", "Shirts"},
		[]string{"Casual", "Sports", "Formal"},
	)
}

func newTestParser(t *testing.T, emb *stubEmbedder) *Parser {
	t.Helper()
	vocab := testVocab()
	termVecs := &stubEmbedder{vecs: map[string][]float32{
		"shoes":        {1, 0, 0},
		"topwear":      {0, 1, 0},
		"sports shoes": {0.6, 0, 0.8},
		"shirts":       {0, 0.8, 0.6},
		"footwear":     {0.8, 0, 0.6},
		"apparel":      {0, 0.6, 0.8},
	}}
	idx, err := embedding.Build(context.Background(), termVecs, vocab.CategoryTerms(), embedding.BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p, err := NewParser(DefaultConfig(), vocab, emb, idx, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	return p
}

func intPtr(v int) *int { return &v }

func TestExtractPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  *PriceRange
	}{
		{"red nike shoes under $50", &PriceRange{Max: intPtr(50)}},
		{"shoes between 20 and 100", &PriceRange{Min: intPtr(20), Max: intPtr(100)}},
		{"from 100 down to 20", &PriceRange{Min: intPtr(20), Max: intPtr(100)}},
		{"45 then 9999 then 300", &PriceRange{Min: intPtr(45), Max: intPtr(9999)}},
		{"$ 45", &PriceRange{Max: intPtr(45)}},
		{"3 shirts", nil},
		{"plain text", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := extractPrice(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractPrice(%q) = %s, want %s", tt.query, fmtRange(got), fmtRange(tt.want))
			}
		})
	}
}

func fmtRange(r *PriceRange) string {
	if r == nil {
		return "nil"
	}
	b, _ := json.Marshal(r)
	return string(b)
}

func TestParse_Brand(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{})
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"red nike shoes under $50", "nike"},
		{"Nike!!", "nike"},
		{"nike", "nike"},
		{"ADIDAS", "adidas"},
		{"h&m tops", "h&m"},
		{"blue cotton shirt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := p.Parse(ctx, tt.query).Brand
			if tt.want == "" {
				if got != nil {
					t.Errorf("Parse(%q).Brand = %q, want nil", tt.query, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("Parse(%q).Brand = %v, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestParse_BrandPunctuationInsensitive(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{})
	ctx := context.Background()
	a := p.Parse(ctx, "Nike!!").Brand
	b := p.Parse(ctx, "nike").Brand
	if a == nil || b == nil || *a != *b {
		t.Errorf("Brand(Nike!!) = %v, Brand(nike) = %v; want identical", a, b)
	}
}

func TestParse_Category(t *testing.T) {
	t.Parallel()

	emb := &stubEmbedder{vecs: map[string][]float32{
		"running trainers":    {1, 0, 0},
		"trainers for gym":    {0.6, 0, 0.8},
		"something to wear":   {0, 0.6, 0.8},
		"unrelated gadget":    {-1, -1, -1},
		"close to footwear":   {0.79, 0, 0.61},
		"collared office top": {0, 0.8, 0.6},
	}}
	p := newTestParser(t, emb)
	ctx := context.Background()

	tests := []struct {
		query    string
		wantTier vocabulary.Tier
		wantTerm string
	}{
		{"running trainers", vocabulary.TierSub, "Shoes"},
		{"trainers for gym", vocabulary.TierArticle, "Sports Shoes"},
		{"something to wear", vocabulary.TierMaster, "Apparel"},
		{"close to footwear", vocabulary.TierMaster, "Footwear"},
		{"collared office top", vocabulary.TierArticle, "Shirts"},
		{"unrelated gadget", vocabulary.TierNone, ""},
		{"not embedded", vocabulary.TierNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			pred := p.Parse(ctx, tt.query)
			tier, term := pred.Category()
			if tier != tt.wantTier || term != tt.wantTerm {
				t.Errorf("Parse(%q).Category() = %q %q, want %q %q", tt.query, tier, term, tt.wantTier, tt.wantTerm)
			}

			set := 0
			for _, f := range []*string{pred.MasterCategory, pred.SubCategory, pred.ArticleType} {
				if f != nil {
					set++
				}
			}
			if set > 1 {
				t.Errorf("Parse(%q) populated %d category fields", tt.query, set)
			}
		})
	}
}

func TestParse_EncodingFailureLeavesCategoryUnset(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{err: errors.New("model unavailable")})
	pred := p.Parse(context.Background(), "red nike shoes under $50")

	if tier, _ := pred.Category(); tier != vocabulary.TierNone {
		t.Errorf("Category() tier = %q, want none", tier)
	}
	if pred.Brand == nil || *pred.Brand != "nike" {
		t.Errorf("Brand = %v, want nike despite encoding failure", pred.Brand)
	}
	if pred.PriceRange == nil || *pred.PriceRange.Max != 50 {
		t.Errorf("PriceRange = %s, want max 50", fmtRange(pred.PriceRange))
	}
}

func TestParse_ColorsSeasonsUsage(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{})
	ctx := context.Background()

	tests := []struct {
		query       string
		wantColors  []string
		wantSeasons []string
		wantUsage   string
	}{
		{"light blue and red summer dress for fall", []string{"red", "blue", "light blue"}, []string{"summer", "fall"}, ""},
		{"Formal CASUAL shirt", []string{}, []string{}, "casual"},
		{"sports jacket for winter", []string{}, []string{"winter"}, "sports"},
		{"", []string{}, []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			pred := p.Parse(ctx, tt.query)
			if !reflect.DeepEqual(pred.Colors, tt.wantColors) {
				t.Errorf("Colors = %v, want %v", pred.Colors, tt.wantColors)
			}
			if !reflect.DeepEqual(pred.Seasons, tt.wantSeasons) {
				t.Errorf("Seasons = %v, want %v", pred.Seasons, tt.wantSeasons)
			}
			gotUsage := ""
			if pred.Usage != nil {
				gotUsage = *pred.Usage
			}
			if gotUsage != tt.wantUsage {
				t.Errorf("Usage = %q, want %q", gotUsage, tt.wantUsage)
			}
		})
	}
}

func TestParse_EndToEnd(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{})
	pred := p.Parse(context.Background(), "red nike shoes under $50")

	if pred.OriginalQuery != "red nike shoes under $50" {
		t.Errorf("OriginalQuery = %q", pred.OriginalQuery)
	}
	if !reflect.DeepEqual(pred.Colors, []string{"red"}) {
		t.Errorf("Colors = %v, want [red]", pred.Colors)
	}
	if pred.Brand == nil || *pred.Brand != "nike" {
		t.Errorf("Brand = %v, want nike", pred.Brand)
	}
	if pred.PriceRange == nil || pred.PriceRange.Min != nil || pred.PriceRange.Max == nil || *pred.PriceRange.Max != 50 {
		t.Errorf("PriceRange = %s, want {max:50}", fmtRange(pred.PriceRange))
	}
}

func TestParse_EmptyVocabularyDegrades(t *testing.T) {
	t.Parallel()

	vocab := &vocabulary.Vocabulary{}
	p, err := NewParser(DefaultConfig(), vocab, &stubEmbedder{}, embedding.NewHolder(nil), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	pred := p.Parse(context.Background(), "red nike shoes under $50 summer")
	if pred.Brand != nil || len(pred.Colors) != 0 || len(pred.Seasons) != 0 || pred.Usage != nil {
		t.Errorf("empty vocabulary still matched: %+v", pred)
	}
	if pred.PriceRange == nil {
		t.Error("price extraction should not depend on the vocabulary")
	}
}

func TestNewParser_Errors(t *testing.T) {
	t.Parallel()

	bad := DefaultConfig()
	bad.BrandEarlyExit = 50
	if _, err := NewParser(bad, testVocab(), &stubEmbedder{}, embedding.NewHolder(nil), zerolog.Nop()); err == nil {
		t.Error("NewParser() with early exit below accept should fail")
	}
	if _, err := NewParser(DefaultConfig(), nil, &stubEmbedder{}, embedding.NewHolder(nil), zerolog.Nop()); !errors.Is(err, vocabulary.ErrUnavailable) {
		t.Errorf("NewParser(nil vocab) error = %v, want ErrUnavailable", err)
	}
	if _, err := NewParser(DefaultConfig(), testVocab(), nil, embedding.NewHolder(nil), zerolog.Nop()); err == nil {
		t.Error("NewParser() without embedder should fail")
	}
}

func TestParser_VersionTracksInputs(t *testing.T) {
	t.Parallel()

	holder := embedding.NewHolder(nil)
	version := func(cfg Config, emb embedding.Embedder, searcher embedding.Searcher) string {
		t.Helper()
		p, err := NewParser(cfg, testVocab(), emb, searcher, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewParser() error = %v", err)
		}
		return p.Version()
	}
	with := func(mutate func(*Config)) Config {
		cfg := DefaultConfig()
		mutate(&cfg)
		return cfg
	}
	idx, err := embedding.NewIndex([]string{"Shoes"}, [][]float32{{1, 0, 0}})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}

	base := version(DefaultConfig(), &stubEmbedder{}, holder)
	if again := version(DefaultConfig(), &stubEmbedder{}, holder); again != base {
		t.Errorf("Version() = %q then %q for identical inputs", base, again)
	}
	if got := version(with(func(c *Config) { c.EncodeTimeout = time.Second }), &stubEmbedder{}, holder); got != base {
		t.Errorf("Version() changed with EncodeTimeout: %q, want %q", got, base)
	}

	changed := map[string]string{
		"category threshold": version(with(func(c *Config) { c.CategoryThreshold = 0.5 }), &stubEmbedder{}, holder),
		"brand accept":       version(with(func(c *Config) { c.BrandAccept = 85 }), &stubEmbedder{}, holder),
		"brand early exit":   version(with(func(c *Config) { c.BrandEarlyExit = 95 }), &stubEmbedder{}, holder),
		"embedder":           version(DefaultConfig(), embedding.NewHashEmbedder(3), holder),
		"searcher":           version(DefaultConfig(), &stubEmbedder{}, idx),
	}
	for name, got := range changed {
		if got == base {
			t.Errorf("%s: Version() = %q, same as base", name, got)
		}
	}
}

func TestPredicate_JSONShape(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, &stubEmbedder{})
	data, err := json.Marshal(p.Parse(context.Background(), "red nike shoes under $50"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`"original_query":"red nike shoes under $50"`,
		`"masterCategory":null`,
		`"subCategory":null`,
		`"articleType":null`,
		`"brand":"nike"`,
		`"price_range":{"max":50}`,
		`"colors":["red"]`,
		`"seasons":[]`,
		`"usage":null`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON %s missing %s", got, want)
		}
	}
	if strings.Contains(got, "keywords") {
		t.Errorf("JSON %s should omit keywords", got)
	}
}
