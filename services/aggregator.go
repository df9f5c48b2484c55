package services

import (
	"sort"
	"time"

	"product-research/models"
	"product-research/utils"
)

// AggregatorConfig sets the trend windows, in months. The recent window is
// anchored at the latest observed timestamp; the prior window of PriorMonths
// length immediately precedes it.
type AggregatorConfig struct {
	RecentMonths int
	PriorMonths  int
}

// Aggregator groups posts by product key and computes engagement and trend
// metrics per group.
type Aggregator struct {
	cfg    AggregatorConfig
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given config.
func NewAggregator(cfg AggregatorConfig, logger *utils.Logger) *Aggregator {
	if cfg.RecentMonths <= 0 {
		cfg.RecentMonths = 3
	}
	if cfg.PriorMonths <= 0 {
		cfg.PriorMonths = 3
	}
	return &Aggregator{cfg: cfg, logger: logger}
}

// Aggregate groups posts by product key, preserving first-seen key order.
// Category, brand and model are taken from the first post of each group;
// attributes are the sorted union across the group.
func (a *Aggregator) Aggregate(posts []*models.SocialPost) []*models.AggregatedProduct {
	byKey := make(map[string]*models.AggregatedProduct)
	order := make([]string, 0)

	for _, p := range posts {
		g, ok := byKey[p.ProductKey]
		if !ok {
			g = &models.AggregatedProduct{
				ProductKey: p.ProductKey,
				Category:   p.Category,
				Brand:      p.Brand,
				Model:      p.Model,
			}
			byKey[p.ProductKey] = g
			order = append(order, p.ProductKey)
		}

		g.PostIDs = append(g.PostIDs, p.PostID)
		g.ImageIDs = append(g.ImageIDs, p.ImageID)
		g.PostCount++
		g.TotalLikes += p.Likes
		g.TotalComments += p.Comments
		g.Attributes = mergeAttributes(g.Attributes, p.Attributes)
	}

	groups := make([]*models.AggregatedProduct, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		if g.PostCount > 0 {
			g.AvgLikes = float64(g.TotalLikes) / float64(g.PostCount)
			g.AvgComments = float64(g.TotalComments) / float64(g.PostCount)
		}
		g.EngagementScore = g.TotalLikes + g.TotalComments
		groups = append(groups, g)
	}

	a.applyTrends(groups, posts)

	a.logger.Info("[aggregator] %d posts grouped into %d products", len(posts), len(groups))
	return groups
}

// applyTrends computes the recent-window post count and the smoothed growth
// ratio (recent+1)/(prior+1) per group. When no post in the whole dataset
// has a parseable timestamp, growth is 0.0 for every key.
func (a *Aggregator) applyTrends(groups []*models.AggregatedProduct, posts []*models.SocialPost) {
	var latest *time.Time
	for _, p := range posts {
		if p.PostedAt != nil && (latest == nil || p.PostedAt.After(*latest)) {
			latest = p.PostedAt
		}
	}

	if latest == nil {
		for _, g := range groups {
			g.TrendGrowth = 0.0
		}
		return
	}

	recentCutoff := latest.AddDate(0, -a.cfg.RecentMonths, 0)
	priorCutoff := recentCutoff.AddDate(0, -a.cfg.PriorMonths, 0)

	recent := make(map[string]int)
	prior := make(map[string]int)
	for _, p := range posts {
		if p.PostedAt == nil {
			continue
		}
		switch {
		case !p.PostedAt.Before(recentCutoff):
			recent[p.ProductKey]++
		case !p.PostedAt.Before(priorCutoff):
			prior[p.ProductKey]++
		}
	}

	for _, g := range groups {
		g.RecentPostCount = recent[g.ProductKey]
		g.TrendGrowth = float64(recent[g.ProductKey]+1) / float64(prior[g.ProductKey]+1)
	}
}

// mergeAttributes unions two sorted attribute lists into a sorted list.
func mergeAttributes(existing, extra []string) []string {
	if len(extra) == 0 {
		return existing
	}
	set := make(map[string]struct{}, len(existing)+len(extra))
	for _, a := range existing {
		set[a] = struct{}{}
	}
	for _, a := range extra {
		set[a] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for a := range set {
		merged = append(merged, a)
	}
	sort.Strings(merged)
	return merged
}
