package services

import (
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"product-research/models"
	"product-research/utils"
)

// ResolverConfig controls the matching tiers and the fan-out width.
type ResolverConfig struct {
	// SimilarityThreshold is the minimum (inclusive) token-set score for a
	// text match, on the 0-100 scale.
	SimilarityThreshold int
	// EnableImageTier toggles the precedence-one image-match lookup.
	EnableImageTier bool
	// Workers bounds the per-group resolution fan-out.
	Workers int
}

// Resolver matches aggregated product groups to catalog entries. The catalog
// and image-match tables are immutable once the Resolver is built, so group
// resolutions are pure and can run concurrently in any order.
type Resolver struct {
	cfg     ResolverConfig
	logger  *utils.Logger
	catalog []*models.CatalogEntry
	byID    map[string]*models.CatalogEntry
	byImage map[string]string
}

// NewResolver builds a Resolver over an immutable catalog snapshot and an
// optional image-match table.
func NewResolver(cfg ResolverConfig, logger *utils.Logger, catalog []*models.CatalogEntry, imageMatches []*models.ImageMatch) *Resolver {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 75
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	r := &Resolver{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		byID:    make(map[string]*models.CatalogEntry, len(catalog)),
		byImage: make(map[string]string, len(imageMatches)),
	}
	for _, entry := range catalog {
		if _, dup := r.byID[entry.ProductID]; !dup {
			r.byID[entry.ProductID] = entry
		}
	}
	for _, m := range imageMatches {
		if _, dup := r.byImage[m.ImageID]; !dup {
			r.byImage[m.ImageID] = m.ProductID
		}
	}
	return r
}

// Resolve matches every group against the catalog and returns the outcomes
// keyed by product key. Groups are processed concurrently; each key is
// written exactly once, so ordering never affects the result.
func (r *Resolver) Resolve(groups []*models.AggregatedProduct) map[string]models.ResolvedMatch {
	results := make(map[string]models.ResolvedMatch, len(groups))
	var mu sync.Mutex

	pool := utils.NewWorkerPool(r.cfg.Workers, 0)
	for _, g := range groups {
		g := g
		pool.Submit(func() {
			match := r.resolveGroup(g)
			mu.Lock()
			results[g.ProductKey] = match
			mu.Unlock()
		})
	}
	pool.Wait()

	var image, text, miss int
	for _, m := range results {
		switch m.Source {
		case models.SourceImageMatch:
			image++
		case models.SourceTextMatch:
			text++
		default:
			miss++
		}
	}
	r.logger.Info("[resolver] Resolved %d groups — image: %d, text: %d, no match: %d",
		len(groups), image, text, miss)

	return results
}

// resolveGroup runs the tiered strategy for one group. It never fails: an
// empty catalog or empty candidate text yields a no_match outcome.
func (r *Resolver) resolveGroup(g *models.AggregatedProduct) models.ResolvedMatch {
	if r.cfg.EnableImageTier {
		if match, ok := r.imageTier(g); ok {
			return match
		}
	}
	return r.textTier(g)
}

// imageTier checks the group's image ids in post order and adopts the first
// one mapped to a product that exists in the catalog. Visual matches are
// treated as ground truth: score is fixed at 100 and no further tier runs.
func (r *Resolver) imageTier(g *models.AggregatedProduct) (models.ResolvedMatch, bool) {
	for _, imageID := range g.ImageIDs {
		if imageID == "" {
			continue
		}
		productID, ok := r.byImage[imageID]
		if !ok {
			continue
		}
		entry, ok := r.byID[productID]
		if !ok {
			r.logger.Warn("[resolver] Image match for %s points at unknown product %s", imageID, productID)
			continue
		}
		return models.ResolvedMatch{
			SocialKey:   g.ProductKey,
			CatalogID:   entry.ProductID,
			CatalogName: entry.ProductName,
			Score:       100,
			Source:      models.SourceImageMatch,
		}, true
	}
	return models.ResolvedMatch{}, false
}

// textTier compares the group's blob against every catalog search blob with
// a token-set ratio and accepts the best score at or above the threshold.
// Ties keep the first catalog entry; callers must not rely on which tied
// entry wins, only on the score.
func (r *Resolver) textTier(g *models.AggregatedProduct) models.ResolvedMatch {
	miss := models.ResolvedMatch{SocialKey: g.ProductKey, Source: models.SourceNoMatch}

	blob := groupBlob(g)
	if blob == "" || len(r.catalog) == 0 {
		return miss
	}

	var best *models.CatalogEntry
	bestScore := 0
	for _, entry := range r.catalog {
		if entry.SearchBlob == "" {
			continue
		}
		if score := fuzzy.TokenSetRatio(blob, entry.SearchBlob); score > bestScore {
			best, bestScore = entry, score
		}
	}

	if best == nil || bestScore < r.cfg.SimilarityThreshold {
		return miss
	}
	return models.ResolvedMatch{
		SocialKey:   g.ProductKey,
		CatalogID:   best.ProductID,
		CatalogName: best.ProductName,
		Score:       float64(bestScore),
		Source:      models.SourceTextMatch,
	}
}

// groupBlob builds the normalized comparison text for a group from its
// inferred signals.
func groupBlob(g *models.AggregatedProduct) string {
	parts := make([]string, 0, 4+len(g.Attributes))
	for _, p := range []string{g.Brand, g.Model, g.Category} {
		if p != "" && p != CategoryUnknown {
			parts = append(parts, p)
		}
	}
	parts = append(parts, g.Attributes...)
	parts = append(parts, g.ProductKey)
	return Normalize(strings.Join(parts, " "))
}
