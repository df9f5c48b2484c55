package services

import (
	"fmt"
	"strings"

	"product-research/models"
	"product-research/utils"
)

// ReportService prints a run summary to the console.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Print renders the run's category and product summaries.
func (s *ReportService) Print(r *models.RunResult) {
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 PRODUCT RESEARCH — run %s\033[0m\n", r.RunID)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Top categories by volume and engagement\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopCategories) == 0 {
		fmt.Printf("  No classified posts\n")
	}
	for _, c := range r.TopCategories {
		fmt.Printf("  %-16s posts: \033[1m%-4d\033[0m likes: %-7d comments: %-6d avg likes: %.1f\n",
			truncate(c.Category, 16), c.PostCount, c.TotalLikes, c.TotalComments, c.AvgLikes)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top products by engagement and posts\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopProducts) == 0 {
		fmt.Printf("  No product groups\n")
	}
	for i, p := range r.TopProducts {
		fmt.Printf("  \033[1m%2d.\033[0m %-34s engagement: \033[1;32m%d\033[0m (%d posts)\n",
			i+1, truncate(p.ProductKey, 34), p.EngagementScore, p.PostCount)
		switch p.Match.Source {
		case models.SourceNoMatch:
			fmt.Printf("      no catalog match\n")
		default:
			fmt.Printf("      catalog: %s (%s, score %.0f)%s\n",
				truncate(p.Match.CatalogName, 34), p.Match.Source, p.Match.Score, priceRange(p.Prices))
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func priceRange(p *models.PriceSummary) string {
	if p == nil || !p.HasPrice {
		return ""
	}
	return fmt.Sprintf(" — price %.2f–%.2f %s (median %.2f)",
		p.PriceMin, p.PriceMax, p.Currency, p.PriceMedian)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
