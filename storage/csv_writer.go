package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"product-research/models"
)

// Output file names inside the result directory.
const (
	ProductsFile      = "product_popularity.csv"
	TopProductsFile   = "top_products_summary.csv"
	TopCategoriesFile = "top_categories_summary.csv"
)

// CSVResultWriter writes the run's result tables as CSV files into one
// output directory, created automatically.
type CSVResultWriter struct {
	dir string
}

// NewCSVResultWriter creates the output directory if needed.
func NewCSVResultWriter(dir string) (*CSVResultWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVResultWriter{dir: dir}, nil
}

// Dir returns the output directory.
func (w *CSVResultWriter) Dir() string { return w.dir }

// WriteProducts writes the full denormalized product table: one row per
// resolved/aggregated product.
func (w *CSVResultWriter) WriteProducts(products []*models.AggregatedProduct) error {
	header := []string{
		"product_key", "category", "brand", "model", "attributes",
		"post_count", "total_likes", "total_comments", "avg_likes", "avg_comments",
		"recent_post_count", "trend_growth", "engagement_score",
		"catalog_id", "catalog_name", "match_score", "match_source",
		"price_min", "price_median", "price_max", "currency", "avg_rating",
		"price_url_1", "price_url_2", "price_url_3",
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}
	return w.writeFile(ProductsFile, header, rows)
}

// WriteTopProducts writes the top-N product summary view.
func (w *CSVResultWriter) WriteTopProducts(products []*models.AggregatedProduct) error {
	header := []string{
		"product_key", "brand", "model", "category",
		"engagement_score", "post_count", "trend_growth",
		"price_min", "price_median", "price_max", "currency",
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		row := []string{
			p.ProductKey, p.Brand, p.Model, p.Category,
			strconv.Itoa(p.EngagementScore), strconv.Itoa(p.PostCount),
			formatFloat(p.TrendGrowth),
		}
		row = append(row, priceColumns(p.Prices)[:4]...)
		rows = append(rows, row)
	}
	return w.writeFile(TopProductsFile, header, rows)
}

// WriteCategories writes the category rollup view.
func (w *CSVResultWriter) WriteCategories(categories []*models.CategorySummary) error {
	header := []string{"category", "post_count", "total_likes", "total_comments", "avg_likes"}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			c.Category,
			strconv.Itoa(c.PostCount),
			strconv.Itoa(c.TotalLikes),
			strconv.Itoa(c.TotalComments),
			formatFloat(c.AvgLikes),
		})
	}
	return w.writeFile(TopCategoriesFile, header, rows)
}

func (w *CSVResultWriter) writeFile(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func productRow(p *models.AggregatedProduct) []string {
	row := []string{
		p.ProductKey, p.Category, p.Brand, p.Model,
		strings.Join(p.Attributes, "; "),
		strconv.Itoa(p.PostCount),
		strconv.Itoa(p.TotalLikes),
		strconv.Itoa(p.TotalComments),
		formatFloat(p.AvgLikes),
		formatFloat(p.AvgComments),
		strconv.Itoa(p.RecentPostCount),
		formatFloat(p.TrendGrowth),
		strconv.Itoa(p.EngagementScore),
		p.Match.CatalogID,
		p.Match.CatalogName,
		formatFloat(p.Match.Score),
		p.Match.Source,
	}
	row = append(row, priceColumns(p.Prices)...)
	return row
}

// priceColumns renders price_min, price_median, price_max, currency,
// avg_rating and three URL slots. Absent statistics stay empty rather than
// reading as zero.
func priceColumns(p *models.PriceSummary) []string {
	cols := make([]string, 0, 8)
	if p != nil && p.HasPrice {
		cols = append(cols, formatFloat(p.PriceMin), formatFloat(p.PriceMedian), formatFloat(p.PriceMax), p.Currency)
	} else {
		cols = append(cols, "", "", "", "")
	}
	if p != nil && p.HasRating {
		cols = append(cols, formatFloat(p.AvgRating))
	} else {
		cols = append(cols, "")
	}
	for i := 0; i < 3; i++ {
		if p != nil && i < len(p.URLs) {
			cols = append(cols, p.URLs[i])
		} else {
			cols = append(cols, "")
		}
	}
	return cols
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
