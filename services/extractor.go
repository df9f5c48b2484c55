package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"product-research/models"
	"product-research/utils"
)

// CategoryUnknown is the category assigned when no rule matches.
const CategoryUnknown = "unknown"

// CategoryRule maps a category label to its trigger keywords. Rules are
// evaluated in declaration order and the first whole-word hit wins, so
// keyword sets are kept disjoint by convention.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// ExtractorConfig carries the keyword lists and thresholds the extractor
// works with. Callers thread their own lists through here; there is no
// process-wide mutable keyword state.
type ExtractorConfig struct {
	RelevanceKeywords []string
	Categories        []CategoryRule
	Colors            []string
	Sizes             []string
	Materials         []string

	// BrandStrategy is config.BrandStrategyFuzzy or config.BrandStrategyKeyword.
	BrandStrategy  string
	BrandThreshold int
	ModelThreshold int
}

// DefaultRelevanceKeywords gate which posts enter the pipeline at all.
func DefaultRelevanceKeywords() []string {
	return []string{
		"baby", "newborn", "infant", "stroller", "pram", "crib", "cot",
		"diaper", "nappy", "bottle", "pacifier", "onesie", "swaddle",
		"carrier", "sling", "car seat", "high chair",
	}
}

// DefaultCategories is the ordered category rule list.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "stroller", Keywords: []string{"stroller", "pram", "pushchair", "buggy"}},
		{Name: "crib", Keywords: []string{"crib", "cot", "bassinet"}},
		{Name: "baby bottle", Keywords: []string{"bottle", "feeding bottle"}},
		{Name: "pacifier", Keywords: []string{"pacifier", "soother", "dummy"}},
		{Name: "diaper", Keywords: []string{"diaper", "nappy"}},
		{Name: "onesie", Keywords: []string{"onesie", "bodysuit", "romper"}},
		{Name: "carrier", Keywords: []string{"carrier", "wrap", "sling"}},
		{Name: "car seat", Keywords: []string{"car seat", "infant seat"}},
		{Name: "high chair", Keywords: []string{"high chair"}},
		{Name: "toy", Keywords: []string{"rattle", "teether"}},
	}
}

// DefaultColors are matched as exact tokens.
func DefaultColors() []string {
	return []string{
		"white", "black", "blue", "pink", "green", "gray", "grey", "beige",
		"brown", "yellow", "purple", "red", "navy",
	}
}

// DefaultSizes are matched as substrings, since sizes carry punctuation.
func DefaultSizes() []string {
	return []string{
		"newborn", "0-3m", "3-6m", "6-9m", "9-12m", "12m", "12-18m", "18m",
		"2t", "3t", "one size", "small", "medium", "large",
	}
}

// DefaultMaterials are matched as exact tokens.
func DefaultMaterials() []string {
	return []string{
		"cotton", "organic", "bamboo", "wool", "linen", "silicone", "glass",
		"stainless", "wood",
	}
}

// DefaultExtractorConfig returns a config with the built-in keyword lists.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		RelevanceKeywords: DefaultRelevanceKeywords(),
		Categories:        DefaultCategories(),
		Colors:            DefaultColors(),
		Sizes:             DefaultSizes(),
		Materials:         DefaultMaterials(),
		BrandStrategy:     "fuzzy",
		BrandThreshold:    80,
		ModelThreshold:    75,
	}
}

// Vocabulary holds the distinct brand and model values of the catalog, in
// first-occurrence catalog order so detection tie-breaks are deterministic.
type Vocabulary struct {
	Brands []string
	Models []string
}

// BuildVocabulary collects distinct non-empty brands and models from the
// catalog, preserving catalog order.
func BuildVocabulary(catalog []*models.CatalogEntry) Vocabulary {
	var vocab Vocabulary
	seenBrand := make(map[string]struct{})
	seenModel := make(map[string]struct{})

	for _, entry := range catalog {
		if b := strings.TrimSpace(entry.Brand); b != "" {
			if _, ok := seenBrand[strings.ToLower(b)]; !ok {
				seenBrand[strings.ToLower(b)] = struct{}{}
				vocab.Brands = append(vocab.Brands, b)
			}
		}
		if m := strings.TrimSpace(entry.Model); m != "" {
			if _, ok := seenModel[strings.ToLower(m)]; !ok {
				seenModel[strings.ToLower(m)] = struct{}{}
				vocab.Models = append(vocab.Models, m)
			}
		}
	}
	return vocab
}

// Extractor classifies posts into categories and detects brand, model and
// attribute signals from their text.
type Extractor struct {
	cfg    ExtractorConfig
	logger *utils.Logger

	relevanceRe *regexp.Regexp
	categoryRes []categoryMatcher
	colorSet    map[string]struct{}
	materialSet map[string]struct{}
}

type categoryMatcher struct {
	name string
	re   *regexp.Regexp
}

// NewExtractor compiles the keyword matchers for the given config.
func NewExtractor(cfg ExtractorConfig, logger *utils.Logger) *Extractor {
	e := &Extractor{
		cfg:         cfg,
		logger:      logger,
		relevanceRe: wordListRegexp(cfg.RelevanceKeywords),
		colorSet:    toSet(cfg.Colors),
		materialSet: toSet(cfg.Materials),
	}
	for _, rule := range cfg.Categories {
		e.categoryRes = append(e.categoryRes, categoryMatcher{
			name: rule.Name,
			re:   wordListRegexp(rule.Keywords),
		})
	}
	return e
}

// wordListRegexp builds a whole-word alternation for the keyword list.
func wordListRegexp(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(kw)))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

// IsRelevant reports whether any relevance keyword appears in the normalized
// text as a whole word.
func (e *Extractor) IsRelevant(text string) bool {
	return e.relevanceRe != nil && e.relevanceRe.MatchString(text)
}

// InferCategory returns the first category (in rule order) with a whole-word
// keyword hit, or CategoryUnknown.
func (e *Extractor) InferCategory(text string) string {
	for _, m := range e.categoryRes {
		if m.re != nil && m.re.MatchString(text) {
			return m.name
		}
	}
	return CategoryUnknown
}

// ExtractAttributes scans normalized text for color/material tokens and size
// substrings and returns the sorted union of hits.
func (e *Extractor) ExtractAttributes(text string) []string {
	tokens := Tokenize(text)
	found := make(map[string]struct{})

	for tok := range tokens {
		if _, ok := e.colorSet[tok]; ok {
			found[tok] = struct{}{}
		}
		if _, ok := e.materialSet[tok]; ok {
			found[tok] = struct{}{}
		}
	}
	for _, size := range e.cfg.Sizes {
		if strings.Contains(text, strings.ToLower(size)) {
			found[strings.ToLower(size)] = struct{}{}
		}
	}

	if len(found) == 0 {
		return nil
	}
	attrs := make([]string, 0, len(found))
	for a := range found {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// Enrich filters out irrelevant posts and fills in category, brand, model,
// attributes and the product key on the survivors.
func (e *Extractor) Enrich(posts []*models.SocialPost, vocab Vocabulary) []*models.SocialPost {
	kept := make([]*models.SocialPost, 0, len(posts))

	for _, p := range posts {
		if !e.IsRelevant(p.TextBlob) {
			e.logger.Debug("[extractor] Post %s filtered out (no relevance keyword)", p.PostID)
			continue
		}

		p.Category = e.InferCategory(p.TextBlob)
		p.Attributes = e.ExtractAttributes(p.TextBlob)
		e.detectBrandModel(p, vocab)
		p.ProductKey = BuildProductKey(p.Category, p.Brand, p.Model)
		kept = append(kept, p)
	}

	e.logger.Info("[extractor] %d of %d posts relevant", len(kept), len(posts))
	return kept
}

func (e *Extractor) detectBrandModel(p *models.SocialPost, vocab Vocabulary) {
	if e.cfg.BrandStrategy == "keyword" {
		p.Brand = keywordBrand(p.TextBlob, vocab.Brands)
		p.Model = capitalizedToken(p.Caption)
		return
	}

	p.Brand, p.BrandScore = bestFuzzyMatch(p.TextBlob, vocab.Brands, e.cfg.BrandThreshold)
	p.Model, p.ModelScore = bestFuzzyMatch(p.TextBlob, vocab.Models, e.cfg.ModelThreshold)
}

// keywordBrand returns the first catalog brand whose lowercased form appears
// as a substring of the normalized text, in catalog enumeration order.
func keywordBrand(text string, brands []string) string {
	for _, brand := range brands {
		if strings.Contains(text, Normalize(brand)) {
			return brand
		}
	}
	return ""
}

// capitalizedToken returns the first whitespace-delimited token of the
// original text that is title-cased or all-uppercase. It can false-positive
// on hashtags and sentence-initial words.
func capitalizedToken(original string) string {
	for _, tok := range strings.Fields(original) {
		if isTitleCase(tok) || isAllUpper(tok) {
			return tok
		}
	}
	return ""
}

func isTitleCase(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// bestFuzzyMatch scores text against every candidate with a token-set ratio
// (insensitive to token order and partial overlap) and accepts the best one
// only when it clears the threshold. Ties keep the earliest candidate.
func bestFuzzyMatch(text string, candidates []string, threshold int) (string, int) {
	if text == "" || len(candidates) == 0 {
		return "", 0
	}

	best, bestScore := "", 0
	for _, cand := range candidates {
		if score := fuzzy.TokenSetRatio(text, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore >= threshold {
		return best, bestScore
	}
	return "", 0
}

// BuildProductKey derives the grouping key from the inferred
// (category, brand, model) triple. It is a proxy identity built from text
// signals, not the catalog's product id.
func BuildProductKey(category, brand, model string) string {
	if category == "" {
		category = CategoryUnknown
	}
	if brand == "" {
		brand = "unknown"
	}
	return strings.TrimSpace(strings.Join([]string{category, brand, model}, " | "))
}
