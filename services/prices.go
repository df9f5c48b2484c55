package services

import (
	"sort"

	"product-research/models"
	"product-research/utils"
)

// maxPriceURLs bounds how many distinct representative URLs are kept per
// product; the first one doubles as the example URL.
const maxPriceURLs = 3

// PriceSummarizer computes per-catalog-product price statistics.
type PriceSummarizer struct {
	logger *utils.Logger
}

// NewPriceSummarizer creates a PriceSummarizer.
func NewPriceSummarizer(logger *utils.Logger) *PriceSummarizer {
	return &PriceSummarizer{logger: logger}
}

// Summarize aggregates catalog rows by product id. Unparseable prices and
// ratings are excluded from the statistics, not coerced to zero. Currency is
// taken from the first row seen per product and is not validated for
// consistency across rows.
func (s *PriceSummarizer) Summarize(catalog []*models.CatalogEntry) map[string]*models.PriceSummary {
	summaries := make(map[string]*models.PriceSummary)
	prices := make(map[string][]float64)
	ratings := make(map[string][]float64)

	for _, entry := range catalog {
		sum, ok := summaries[entry.ProductID]
		if !ok {
			sum = &models.PriceSummary{ProductID: entry.ProductID, Currency: entry.Currency}
			summaries[entry.ProductID] = sum
		}

		if entry.HasPrice {
			prices[entry.ProductID] = append(prices[entry.ProductID], entry.Price)
		}
		if entry.HasRating {
			ratings[entry.ProductID] = append(ratings[entry.ProductID], entry.Rating)
		}
		if entry.URL != "" && len(sum.URLs) < maxPriceURLs && !containsString(sum.URLs, entry.URL) {
			sum.URLs = append(sum.URLs, entry.URL)
		}
	}

	for id, sum := range summaries {
		if vals := prices[id]; len(vals) > 0 {
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			sum.PriceMin = sorted[0]
			sum.PriceMax = sorted[len(sorted)-1]
			sum.PriceMedian = median(sorted)
			sum.HasPrice = true
		}
		if vals := ratings[id]; len(vals) > 0 {
			sum.AvgRating = mean(vals)
			sum.HasRating = true
		}
	}

	s.logger.Info("[prices] Summarized %d catalog products", len(summaries))
	return summaries
}

// median expects a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
