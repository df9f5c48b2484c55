package models

// RawCatalogRow holds an unprocessed catalog row as read from the input file.
type RawCatalogRow struct {
	ProductID   string
	ProductName string
	Brand       string
	Model       string
	Category    string
	Price       string
	Currency    string
	URL         string
	Rating      string
	Marketplace string
}

// CatalogEntry is a cleaned catalog row. ProductID is synthesized from the
// row position when the catalog supplies none; such ids are only stable for
// a given input row order.
type CatalogEntry struct {
	ProductID   string
	ProductName string
	Brand       string
	Model       string
	Category    string
	Price       float64
	HasPrice    bool
	Currency    string
	URL         string
	Rating      float64
	HasRating   bool
	Marketplace string

	// SearchBlob is the normalized concatenation of name, brand, model and
	// category used as the text-similarity comparison target.
	SearchBlob string
}

// ImageMatch maps a post image id to a catalog product id, produced by an
// external visual-similarity service. Treated as precedence-one evidence.
type ImageMatch struct {
	ImageID   string
	ProductID string
	Score     float64
}

// PriceSummary holds per-catalog-product price statistics. Prices that failed
// to parse are excluded from the statistics, never coerced to zero.
type PriceSummary struct {
	ProductID   string
	PriceMin    float64
	PriceMedian float64
	PriceMax    float64
	HasPrice    bool
	AvgRating   float64
	HasRating   bool
	Currency    string
	URLs        []string
}

// ExampleURL returns the representative URL for the product, if any.
func (p *PriceSummary) ExampleURL() string {
	if len(p.URLs) == 0 {
		return ""
	}
	return p.URLs[0]
}
