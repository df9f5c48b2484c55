package services

import (
	"sort"

	"product-research/models"
)

// RankTopProducts returns the top n products by engagement score descending,
// breaking ties by post count descending. The input is not modified.
func RankTopProducts(products []*models.AggregatedProduct, n int) []*models.AggregatedProduct {
	ranked := append([]*models.AggregatedProduct(nil), products...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EngagementScore != ranked[j].EngagementScore {
			return ranked[i].EngagementScore > ranked[j].EngagementScore
		}
		return ranked[i].PostCount > ranked[j].PostCount
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// SummarizeCategories rolls up posts by inferred category and returns the top
// n categories by post count descending, then total likes descending.
func SummarizeCategories(posts []*models.SocialPost, n int) []*models.CategorySummary {
	byCategory := make(map[string]*models.CategorySummary)
	order := make([]string, 0)

	for _, p := range posts {
		s, ok := byCategory[p.Category]
		if !ok {
			s = &models.CategorySummary{Category: p.Category}
			byCategory[p.Category] = s
			order = append(order, p.Category)
		}
		s.PostCount++
		s.TotalLikes += p.Likes
		s.TotalComments += p.Comments
	}

	summaries := make([]*models.CategorySummary, 0, len(order))
	for _, cat := range order {
		s := byCategory[cat]
		if s.PostCount > 0 {
			s.AvgLikes = float64(s.TotalLikes) / float64(s.PostCount)
		}
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].PostCount != summaries[j].PostCount {
			return summaries[i].PostCount > summaries[j].PostCount
		}
		return summaries[i].TotalLikes > summaries[j].TotalLikes
	})
	if n > 0 && len(summaries) > n {
		summaries = summaries[:n]
	}
	return summaries
}
