package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Brand/model detection strategies. Exactly one is active per run; the two
// are never blended.
const (
	BrandStrategyFuzzy   = "fuzzy"
	BrandStrategyKeyword = "keyword"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Matching thresholds on the 0-100 similarity scale.
	BrandThreshold int
	ModelThreshold int
	MatchThreshold int

	// BrandStrategy selects how brand/model are inferred from post text:
	// "fuzzy" (threshold-gated similarity) or "keyword" (substring search
	// plus capitalized-token model heuristic).
	BrandStrategy string

	// Trend windows, in months, anchored at the latest observed timestamp.
	TrendRecentMonths int
	TrendPriorMonths  int

	// RelevanceKeywords optionally overrides the built-in relevance filter
	// keyword list. Empty means use the defaults.
	RelevanceKeywords []string

	TopN      int
	OutputDir string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	// Tax-record lookup utility.
	MasothueBaseURL string
	HTTPTimeoutMs   int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BrandThreshold: getEnvInt("BRAND_THRESHOLD", 80),
		ModelThreshold: getEnvInt("MODEL_THRESHOLD", 75),
		MatchThreshold: getEnvInt("MATCH_THRESHOLD", 75),

		BrandStrategy: getStrategy("BRAND_STRATEGY", BrandStrategyFuzzy),

		TrendRecentMonths: getEnvInt("TREND_RECENT_MONTHS", 3),
		TrendPriorMonths:  getEnvInt("TREND_PRIOR_MONTHS", 3),

		RelevanceKeywords: getEnvList("RELEVANCE_KEYWORDS"),

		TopN:      getEnvInt("TOP_N", 10),
		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		MasothueBaseURL: getEnv("MASOTHUE_BASE_URL", "https://masothue.com"),
		HTTPTimeoutMs:   getEnvInt("HTTP_TIMEOUT_MS", 15000),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvList parses a comma-separated env var into a trimmed string slice.
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getStrategy(key, fallback string) string {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case BrandStrategyFuzzy, BrandStrategyKeyword:
		return val
	case "":
		return fallback
	default:
		log.Printf("[config] Unknown %s=%q, using %q", key, val, fallback)
		return fallback
	}
}
