package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"product-research/models"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func sampleProducts() []*models.AggregatedProduct {
	return []*models.AggregatedProduct{
		{
			ProductKey: "crib | IKEA | SNIGLAR",
			Category:   "crib", Brand: "IKEA", Model: "SNIGLAR",
			Attributes: []string{"white", "wood"},
			PostCount:  2, TotalLikes: 30, TotalComments: 6,
			AvgLikes: 15, AvgComments: 3,
			RecentPostCount: 2, TrendGrowth: 3, EngagementScore: 36,
			Match: models.ResolvedMatch{
				CatalogID: "P2", CatalogName: "Wooden crib",
				Score: 100, Source: models.SourceImageMatch,
			},
			Prices: &models.PriceSummary{
				ProductID: "P2", PriceMin: 100, PriceMedian: 110, PriceMax: 120,
				HasPrice: true, Currency: "USD",
				AvgRating: 4.5, HasRating: true,
				URLs: []string{"https://shop.example/p2"},
			},
		},
		{
			ProductKey: "stroller | unknown |",
			Category:   "stroller",
			PostCount:  1,
			Match:      models.ResolvedMatch{SocialKey: "stroller | unknown |", Source: models.SourceNoMatch},
		},
	}
}

func TestWriteProducts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVResultWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteProducts(sampleProducts()); err != nil {
		t.Fatal(err)
	}

	records := readBack(t, filepath.Join(dir, ProductsFile))
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	header, matched, unmatched := records[0], records[1], records[2]

	for _, row := range records[1:] {
		if len(row) != len(header) {
			t.Fatalf("row width %d does not match header width %d", len(row), len(header))
		}
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	if matched[col["attributes"]] != "white; wood" {
		t.Errorf("attributes: got %q", matched[col["attributes"]])
	}
	if matched[col["match_source"]] != models.SourceImageMatch || matched[col["match_score"]] != "100.00" {
		t.Errorf("match cells: got %q / %q", matched[col["match_source"]], matched[col["match_score"]])
	}
	if matched[col["price_min"]] != "100.00" || matched[col["currency"]] != "USD" {
		t.Errorf("price cells: got %q / %q", matched[col["price_min"]], matched[col["currency"]])
	}
	if matched[col["price_url_1"]] != "https://shop.example/p2" || matched[col["price_url_2"]] != "" {
		t.Errorf("url cells: got %q / %q", matched[col["price_url_1"]], matched[col["price_url_2"]])
	}

	// Unmatched products leave catalog and price cells empty, not zeroed.
	for _, name := range []string{"catalog_id", "price_min", "price_median", "price_max", "avg_rating"} {
		if unmatched[col[name]] != "" {
			t.Errorf("%s must be empty for an unmatched product, got %q", name, unmatched[col[name]])
		}
	}
	if unmatched[col["match_source"]] != models.SourceNoMatch {
		t.Errorf("match_source: got %q", unmatched[col["match_source"]])
	}
}

func TestWriteTopProducts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVResultWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTopProducts(sampleProducts()); err != nil {
		t.Fatal(err)
	}

	records := readBack(t, filepath.Join(dir, TopProductsFile))
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	for _, row := range records {
		if len(row) != 11 {
			t.Fatalf("expected 11 columns, got %d", len(row))
		}
	}
	if records[1][0] != "crib | IKEA | SNIGLAR" || records[1][7] != "100.00" {
		t.Errorf("first row: got %v", records[1])
	}
}

func TestWriteCategories(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVResultWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	err = w.WriteCategories([]*models.CategorySummary{
		{Category: "crib", PostCount: 2, TotalLikes: 30, TotalComments: 6, AvgLikes: 15},
	})
	if err != nil {
		t.Fatal(err)
	}

	records := readBack(t, filepath.Join(dir, TopCategoriesFile))
	want := []string{"crib", "2", "30", "6", "15.00"}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	for i, cell := range want {
		if records[1][i] != cell {
			t.Errorf("cell %d: got %q, want %q", i, records[1][i], cell)
		}
	}
}

func TestNewCSVResultWriterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewCSVResultWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if w.Dir() != dir {
		t.Errorf("Dir: got %q", w.Dir())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("output dir must exist: %v", err)
	}
}
