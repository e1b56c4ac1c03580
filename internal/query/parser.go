// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/shopsense/internal/embedding"
	"github.com/tomtom215/shopsense/internal/fuzzy"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/vocabulary"
)

var (
	priceRe       = regexp.MustCompile(`\$?\s*(\d{2,5})`)
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

type brand struct {
	name       string // lower-cased vocabulary entry, returned to callers
	normalized string // punctuation stripped, used for scoring
}

// Parser is the full interpreter. It runs five independent passes over
// each query: price, brand, category, color/season and usage.
type Parser struct {
	cfg      Config
	vocab    *vocabulary.Vocabulary
	brands   []brand
	colors   []string
	seasons  []string
	usages   []string
	embedder embedding.Embedder
	searcher embedding.Searcher
	hasTerms bool
	version  string
	logger   zerolog.Logger
}

// NewParser builds a parser over vocab. Empty term lists are logged and
// turn their pass into a no-op. The embedder encodes queries; searcher
// finds the nearest category term for the resulting vector.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewParser(cfg Config, vocab *vocabulary.Vocabulary, embedder embedding.Embedder, searcher embedding.Searcher, logger zerolog.Logger) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if vocab == nil {
		return nil, vocabulary.ErrUnavailable
	}
	if embedder == nil || searcher == nil {
		return nil, errors.New("embedder and searcher are required")
	}

	p := &Parser{
		cfg:      cfg,
		vocab:    vocab,
		colors:   vocabulary.LowerAll(vocab.Colors),
		seasons:  vocabulary.LowerAll(vocab.Seasons),
		usages:   vocabulary.LowerAll(vocab.Usages),
		embedder: embedder,
		searcher: searcher,
		hasTerms: len(vocab.CategoryTerms()) > 0,
		version:  parserVersion(cfg, vocab, embedder, searcher),
		logger:   logger.With().Str("component", "query").Logger(),
	}
	for _, name := range vocabulary.LowerAll(vocab.Brands) {
		p.brands = append(p.brands, brand{name: name, normalized: normalize(name)})
	}

	if missing := vocab.Missing(); len(missing) > 0 {
		p.logger.Warn().
			Err(vocabulary.ErrUnavailable).
			Strs("lists", missing).
			Msg("vocabulary lists empty; matching passes disabled")
	}
	return p, nil
}

// Mode implements Interpreter.
func (p *Parser) Mode() string { return ModeSemantic }

// Version implements Interpreter.
func (p *Parser) Version() string { return p.version }

// parserVersion digests everything a parse result depends on: the
// vocabulary, the match thresholds, the embedder and the search backend.
// EncodeTimeout is left out because it only decides whether the category
// pass completes.
func parserVersion(cfg Config, vocab *vocabulary.Vocabulary, embedder embedding.Embedder, searcher embedding.Searcher) string {
	h, _ := blake2b.New(8, nil) // only errors on bad size or key
	fmt.Fprintf(h, "%g|%g|%g|%s|%s",
		cfg.CategoryThreshold, cfg.BrandAccept, cfg.BrandEarlyExit,
		embedding.Identity(embedder), embedding.Identity(searcher))
	return vocab.HashHex()[:8] + hex.EncodeToString(h.Sum(nil))
}

// Parse implements Interpreter.
func (p *Parser) Parse(ctx context.Context, query string) Predicate {
	pred, _ := p.parseComplete(ctx, query)
	return pred
}

// parseComplete runs every pass. complete is false when the category pass
// could not run because encoding or search failed, so the result reflects
// a transient outage rather than the query.
func (p *Parser) parseComplete(ctx context.Context, query string) (pred Predicate, complete bool) {
	start := time.Now()
	pred = NewPredicate(query)
	lowered := strings.ToLower(query)

	pred.PriceRange = extractPrice(query)
	pred.Brand = p.matchBrand(normalize(lowered))
	complete = p.matchCategory(ctx, query, &pred)
	pred.Colors = containedIn(lowered, p.colors)
	pred.Seasons = containedIn(lowered, p.seasons)
	pred.Usage = p.matchUsage(lowered)

	metrics.RecordParse(ModeSemantic, time.Since(start), pred.Fields())
	return pred, complete
}

// extractPrice reads every 2-5 digit run. One price caps the range; several
// span from the smallest to the largest regardless of order.
func extractPrice(query string) *PriceRange {
	matches := priceRe.FindAllStringSubmatch(query, -1)
	if len(matches) == 0 {
		return nil
	}
	prices := make([]int, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		prices = append(prices, v)
	}
	if len(prices) == 0 {
		return nil
	}
	if len(prices) == 1 {
		return &PriceRange{Max: &prices[0]}
	}
	lo, hi := prices[0], prices[0]
	for _, v := range prices[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return &PriceRange{Min: &lo, Max: &hi}
}

// matchBrand scans brands in vocabulary order. Only a strictly better
// score replaces the current best, so earlier brands win ties.
func (p *Parser) matchBrand(normalizedQuery string) *string {
	if len(p.brands) == 0 {
		return nil
	}
	var best *brand
	bestScore := 0.0
	for i := range p.brands {
		score := fuzzy.WRatio(normalizedQuery, p.brands[i].normalized)
		if score > bestScore {
			bestScore = score
			best = &p.brands[i]
		}
		if bestScore > p.cfg.BrandEarlyExit {
			break
		}
	}
	if best == nil || bestScore < p.cfg.BrandAccept {
		return nil
	}
	name := best.name
	return &name
}

// matchCategory encodes the raw query once and looks up the nearest
// category term. It returns false when encoding or search failed, which
// leaves the category unset.
func (p *Parser) matchCategory(ctx context.Context, query string, pred *Predicate) bool {
	if !p.hasTerms {
		return true
	}
	if p.cfg.EncodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.EncodeTimeout)
		defer cancel()
	}

	start := time.Now()
	vec, err := embedding.Encode(ctx, p.embedder, query)
	metrics.RecordEmbedding(time.Since(start), err)
	if err != nil {
		p.logger.Warn().Err(err).Str("query", query).Msg("query encoding failed; category left unset")
		return false
	}

	match, ok, err := p.searcher.Search(ctx, vec, float32(p.cfg.CategoryThreshold))
	if err != nil {
		p.logger.Warn().Err(err).Msg("category search failed; category left unset")
		return false
	}
	if ok {
		pred.setCategory(p.vocab.Classify(match.Term), match.Term)
	}
	return true
}

func (p *Parser) matchUsage(lowered string) *string {
	for _, u := range p.usages {
		if strings.Contains(lowered, u) {
			usage := u
			return &usage
		}
	}
	return nil
}

// containedIn returns every term that occurs as a substring of text, in
// term order and without duplicates.
func containedIn(text string, terms []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		if strings.Contains(text, t) {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// normalize lower-cases s and strips everything but letters, digits,
// underscores and whitespace.
func normalize(s string) string {
	return punctuationRe.ReplaceAllString(strings.ToLower(s), "")
}
