package services

import (
	"github.com/google/uuid"

	"product-research/config"
	"product-research/models"
	"product-research/utils"
)

// Pipeline wires the cleaning, extraction, aggregation, resolution, pricing
// and ranking stages into one run over pre-loaded in-memory tables.
type Pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewPipeline creates a Pipeline with the given config.
func NewPipeline(cfg *config.Config, logger *utils.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// extractorConfig builds the extractor config from defaults plus any
// caller-supplied overrides.
func (p *Pipeline) extractorConfig() ExtractorConfig {
	ec := DefaultExtractorConfig()
	ec.BrandStrategy = p.cfg.BrandStrategy
	ec.BrandThreshold = p.cfg.BrandThreshold
	ec.ModelThreshold = p.cfg.ModelThreshold
	if len(p.cfg.RelevanceKeywords) > 0 {
		ec.RelevanceKeywords = p.cfg.RelevanceKeywords
	}
	return ec
}

// Run executes the full pipeline. Inputs are read-only; the returned result
// holds freshly built records and is never mutated afterwards.
func (p *Pipeline) Run(rawPosts []*models.RawPost, rawCatalog []*models.RawCatalogRow, rawImageMatches []*models.ImageMatch) *models.RunResult {
	runID := uuid.NewString()
	p.logger.Info("[pipeline] Run %s — %d posts, %d catalog rows, %d image matches",
		runID, len(rawPosts), len(rawCatalog), len(rawImageMatches))

	cleaner := NewCleaner(p.logger)
	posts := cleaner.CleanPosts(rawPosts)
	catalog := cleaner.CleanCatalog(rawCatalog)
	imageMatches := cleaner.CleanImageMatches(rawImageMatches)

	extractor := NewExtractor(p.extractorConfig(), p.logger)
	posts = extractor.Enrich(posts, BuildVocabulary(catalog))

	aggregator := NewAggregator(AggregatorConfig{
		RecentMonths: p.cfg.TrendRecentMonths,
		PriorMonths:  p.cfg.TrendPriorMonths,
	}, p.logger)
	groups := aggregator.Aggregate(posts)

	resolver := NewResolver(ResolverConfig{
		SimilarityThreshold: p.cfg.MatchThreshold,
		EnableImageTier:     len(imageMatches) > 0,
		Workers:             p.cfg.MaxConcurrency,
	}, p.logger, catalog, imageMatches)
	matches := resolver.Resolve(groups)

	prices := NewPriceSummarizer(p.logger).Summarize(catalog)

	for _, g := range groups {
		g.Match = matches[g.ProductKey]
		if g.Match.CatalogID != "" {
			g.Prices = prices[g.Match.CatalogID]
		}
	}

	result := &models.RunResult{
		RunID:         runID,
		Posts:         posts,
		Products:      groups,
		TopProducts:   RankTopProducts(groups, p.cfg.TopN),
		TopCategories: SummarizeCategories(posts, p.cfg.TopN),
	}

	p.logger.Info("[pipeline] Run %s done — %d product rows", runID, len(result.Products))
	return result
}
