package models

// Match source tags. Score 100 is reserved for image-table hits; text matches
// carry their similarity score; no_match carries zero and no catalog id.
const (
	SourceImageMatch = "image_match"
	SourceTextMatch  = "text_match"
	SourceNoMatch    = "no_match"
)

// ResolvedMatch is the outcome of resolving one product group against the
// catalog. CatalogID is empty for no_match.
type ResolvedMatch struct {
	SocialKey   string
	CatalogID   string
	CatalogName string
	Score       float64
	Source      string
}

// AggregatedProduct is one row of the final output table: a product group
// with engagement metrics, resolution outcome and price statistics. Rows are
// built once per run and never mutated afterwards.
type AggregatedProduct struct {
	ProductKey string
	Category   string
	Brand      string
	Model      string
	Attributes []string

	PostIDs  []string
	ImageIDs []string

	PostCount       int
	TotalLikes      int
	TotalComments   int
	AvgLikes        float64
	AvgComments     float64
	RecentPostCount int
	TrendGrowth     float64
	EngagementScore int

	Match  ResolvedMatch
	Prices *PriceSummary
}

// CategorySummary is one row of the category rollup view.
type CategorySummary struct {
	Category      string
	PostCount     int
	TotalLikes    int
	TotalComments int
	AvgLikes      float64
}

// RunResult bundles everything a single pipeline run produces.
type RunResult struct {
	RunID         string
	Posts         []*SocialPost
	Products      []*AggregatedProduct
	TopProducts   []*AggregatedProduct
	TopCategories []*CategorySummary
}
