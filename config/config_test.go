package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.BrandThreshold != 80 || cfg.ModelThreshold != 75 || cfg.MatchThreshold != 75 {
		t.Errorf("thresholds: got %d/%d/%d", cfg.BrandThreshold, cfg.ModelThreshold, cfg.MatchThreshold)
	}
	if cfg.BrandStrategy != BrandStrategyFuzzy {
		t.Errorf("default strategy: got %q", cfg.BrandStrategy)
	}
	if cfg.TopN != 10 || cfg.OutputDir != "./output" {
		t.Errorf("output defaults: got %d / %q", cfg.TopN, cfg.OutputDir)
	}
	if cfg.RelevanceKeywords != nil {
		t.Errorf("keywords default to nil, got %v", cfg.RelevanceKeywords)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "60")
	t.Setenv("BRAND_STRATEGY", "KEYWORD")
	t.Setenv("RELEVANCE_KEYWORDS", " baby , stroller ,, crib ")
	t.Setenv("TOP_N", "5")

	cfg := Load()

	if cfg.MatchThreshold != 60 {
		t.Errorf("MATCH_THRESHOLD: got %d", cfg.MatchThreshold)
	}
	if cfg.BrandStrategy != BrandStrategyKeyword {
		t.Errorf("strategy must parse case-insensitively, got %q", cfg.BrandStrategy)
	}
	if !reflect.DeepEqual(cfg.RelevanceKeywords, []string{"baby", "stroller", "crib"}) {
		t.Errorf("keyword list: got %v", cfg.RelevanceKeywords)
	}
	if cfg.TopN != 5 {
		t.Errorf("TOP_N: got %d", cfg.TopN)
	}
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	t.Setenv("BRAND_STRATEGY", "hybrid")

	if cfg := Load(); cfg.BrandStrategy != BrandStrategyFuzzy {
		t.Errorf("unknown strategy must fall back to fuzzy, got %q", cfg.BrandStrategy)
	}
}

func TestLoadMalformedInt(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "seventy")

	if cfg := Load(); cfg.MatchThreshold != 75 {
		t.Errorf("malformed int must fall back to the default, got %d", cfg.MatchThreshold)
	}
}
