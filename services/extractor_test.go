package services

import (
	"reflect"
	"testing"

	"product-research/models"
	"product-research/utils"
)

func newTestExtractor(strategy string) *Extractor {
	cfg := DefaultExtractorConfig()
	cfg.BrandStrategy = strategy
	return NewExtractor(cfg, utils.NewLogger())
}

func testCatalog() []*models.CatalogEntry {
	return []*models.CatalogEntry{
		{ProductID: "P1", ProductName: "City stroller", Brand: "Bugaboo", Model: "Fox"},
		{ProductID: "P2", ProductName: "Wooden crib", Brand: "IKEA", Model: "SNIGLAR"},
		{ProductID: "P3", ProductName: "Another crib", Brand: "IKEA", Model: "GULLIVER"},
	}
}

func TestInferCategory(t *testing.T) {
	e := newTestExtractor("fuzzy")

	tests := []struct {
		text string
		want string
	}{
		{"a lovely pram for our walks", "stroller"},
		{"new crib arrived", "crib"},
		{"no keywords at all", CategoryUnknown},
		{"pushchair and bassinet", "stroller"}, // first rule in order wins
		{"pampering myself", CategoryUnknown},  // whole words only
	}

	for _, tt := range tests {
		if got := e.InferCategory(tt.text); got != tt.want {
			t.Errorf("InferCategory(%q) = %q; want %q", tt.text, got, tt.want)
		}
	}
}

func TestIsRelevantWholeWord(t *testing.T) {
	e := newTestExtractor("fuzzy")

	if !e.IsRelevant("our newborn essentials") {
		t.Error("expected text with a relevance keyword to pass")
	}
	if e.IsRelevant("strollerless vacation plans") {
		t.Error("keyword inside a longer word must not count")
	}
}

func TestExtractAttributes(t *testing.T) {
	e := newTestExtractor("fuzzy")

	got := e.ExtractAttributes("pink organic cotton onesie size 0-3m pink")
	want := []string{"0-3m", "cotton", "organic", "pink"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAttributes: got %v, want %v", got, want)
	}

	if attrs := e.ExtractAttributes("plain text"); attrs != nil {
		t.Errorf("expected nil for text without attribute keywords, got %v", attrs)
	}
}

func TestBuildVocabularyOrderAndDistinct(t *testing.T) {
	vocab := BuildVocabulary(testCatalog())

	if !reflect.DeepEqual(vocab.Brands, []string{"Bugaboo", "IKEA"}) {
		t.Errorf("Brands: got %v", vocab.Brands)
	}
	if !reflect.DeepEqual(vocab.Models, []string{"Fox", "SNIGLAR", "GULLIVER"}) {
		t.Errorf("Models: got %v", vocab.Models)
	}
}

func TestFuzzyBrandModelDetection(t *testing.T) {
	e := newTestExtractor("fuzzy")
	vocab := BuildVocabulary(testCatalog())

	post := &models.SocialPost{
		PostID:   "1",
		Caption:  "our IKEA SNIGLAR crib",
		TextBlob: "our ikea sniglar crib",
	}
	kept := e.Enrich([]*models.SocialPost{post}, vocab)
	if len(kept) != 1 {
		t.Fatalf("expected 1 relevant post, got %d", len(kept))
	}

	if post.Brand != "IKEA" {
		t.Errorf("Brand: got %q, want IKEA", post.Brand)
	}
	if post.BrandScore < e.cfg.BrandThreshold {
		t.Errorf("BrandScore %d below threshold %d", post.BrandScore, e.cfg.BrandThreshold)
	}
	if post.Model != "SNIGLAR" {
		t.Errorf("Model: got %q, want SNIGLAR", post.Model)
	}
}

func TestFuzzyDetectionBelowThreshold(t *testing.T) {
	e := newTestExtractor("fuzzy")
	vocab := BuildVocabulary(testCatalog())

	post := &models.SocialPost{
		PostID:   "1",
		Caption:  "just a generic baby picture",
		TextBlob: "just a generic baby picture",
	}
	e.Enrich([]*models.SocialPost{post}, vocab)

	if post.Brand != "" || post.BrandScore != 0 {
		t.Errorf("expected no brand, got %q (%d)", post.Brand, post.BrandScore)
	}
	if post.Model != "" || post.ModelScore != 0 {
		t.Errorf("expected no model, got %q (%d)", post.Model, post.ModelScore)
	}
}

func TestKeywordStrategyBrandAndModel(t *testing.T) {
	e := newTestExtractor("keyword")
	vocab := BuildVocabulary(testCatalog())

	post := &models.SocialPost{
		PostID:   "1",
		Caption:  "our new ikea crib Sniglar edition",
		TextBlob: "our new ikea crib sniglar edition",
	}
	e.Enrich([]*models.SocialPost{post}, vocab)

	if post.Brand != "IKEA" {
		t.Errorf("Brand: got %q, want IKEA (substring search)", post.Brand)
	}
	// First title-cased or all-caps token of the original caption.
	if post.Model != "Sniglar" {
		t.Errorf("Model: got %q, want Sniglar", post.Model)
	}
}

func TestCapitalizedToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"our new IKEA crib", "IKEA"},
		{"lowercase only here", ""},
		{"something With title", "With"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalizedToken(tt.in); got != tt.want {
			t.Errorf("capitalizedToken(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildProductKey(t *testing.T) {
	a := BuildProductKey("crib", "IKEA", "SNIGLAR")
	b := BuildProductKey("crib", "IKEA", "SNIGLAR")
	if a != b {
		t.Errorf("identical triples must yield identical keys: %q vs %q", a, b)
	}

	empty := BuildProductKey("crib", "IKEA", "")
	if empty == a {
		t.Error("empty model must yield a different key than a non-empty model")
	}

	if got := BuildProductKey("", "", ""); got != "unknown | unknown |" {
		t.Errorf("all-defaults key: got %q", got)
	}
}

func TestEnrichFiltersIrrelevantPosts(t *testing.T) {
	e := newTestExtractor("fuzzy")
	posts := []*models.SocialPost{
		{PostID: "1", TextBlob: "brunch with friends"},
		{PostID: "2", TextBlob: "new stroller day"},
	}

	kept := e.Enrich(posts, Vocabulary{})
	if len(kept) != 1 || kept[0].PostID != "2" {
		t.Fatalf("expected only the stroller post to survive, got %v", kept)
	}
	if kept[0].ProductKey == "" {
		t.Error("surviving posts must carry a product key")
	}
}

func TestCustomRelevanceKeywordsAreIsolated(t *testing.T) {
	cfg := DefaultExtractorConfig()
	cfg.RelevanceKeywords = []string{"gadget"}
	custom := NewExtractor(cfg, utils.NewLogger())
	standard := newTestExtractor("fuzzy")

	if !custom.IsRelevant("shiny new gadget") {
		t.Error("custom keyword list should match")
	}
	if custom.IsRelevant("new stroller day") {
		t.Error("custom extractor must not use the default list")
	}
	if !standard.IsRelevant("new stroller day") {
		t.Error("default extractor must be unaffected by custom configs")
	}
}
