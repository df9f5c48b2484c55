package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"product-research/models"
)

// Required input columns. product_id and rating are optional on the catalog:
// missing ids are synthesized downstream and a missing rating column reads
// as no ratings.
var (
	requiredPostColumns = []string{
		"post_id", "image_id", "image_url", "caption", "hashtags",
		"likes", "comments", "posted_at", "platform",
	}
	requiredCatalogColumns = []string{
		"product_name", "brand", "model", "category",
		"price", "currency", "url", "marketplace",
	}
	requiredImageMatchColumns = []string{"image_id", "product_id", "score"}
)

// table is a parsed input file: a header index plus string-valued rows.
type table struct {
	headers map[string]int
	rows    []map[string]string
}

// ReadPosts loads the social posts dataset from a CSV or JSON file.
func ReadPosts(path string) ([]*models.RawPost, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := validateColumns("social_posts", t.headers, requiredPostColumns); err != nil {
		return nil, err
	}

	posts := make([]*models.RawPost, 0, len(t.rows))
	for _, row := range t.rows {
		posts = append(posts, &models.RawPost{
			PostID:   row["post_id"],
			ImageID:  row["image_id"],
			ImageURL: row["image_url"],
			Caption:  row["caption"],
			Hashtags: row["hashtags"],
			Likes:    row["likes"],
			Comments: row["comments"],
			PostedAt: row["posted_at"],
			Platform: row["platform"],
		})
	}
	return posts, nil
}

// ReadCatalog loads the product catalog dataset from a CSV or JSON file.
func ReadCatalog(path string) ([]*models.RawCatalogRow, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := validateColumns("products_catalog", t.headers, requiredCatalogColumns); err != nil {
		return nil, err
	}

	rows := make([]*models.RawCatalogRow, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, &models.RawCatalogRow{
			ProductID:   row["product_id"],
			ProductName: row["product_name"],
			Brand:       row["brand"],
			Model:       row["model"],
			Category:    row["category"],
			Price:       row["price"],
			Currency:    row["currency"],
			URL:         row["url"],
			Rating:      row["rating"],
			Marketplace: row["marketplace"],
		})
	}
	return rows, nil
}

// ReadImageMatches loads the optional image-match dataset. An empty path
// yields no matches and no error.
func ReadImageMatches(path string) ([]*models.ImageMatch, error) {
	if path == "" {
		return nil, nil
	}
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := validateColumns("image_matches", t.headers, requiredImageMatchColumns); err != nil {
		return nil, err
	}

	matches := make([]*models.ImageMatch, 0, len(t.rows))
	for _, row := range t.rows {
		score, _ := strconv.ParseFloat(strings.TrimSpace(row["score"]), 64)
		matches = append(matches, &models.ImageMatch{
			ImageID:   row["image_id"],
			ProductID: row["product_id"],
			Score:     score,
		})
	}
	return matches, nil
}

// readTable reads a CSV, JSON array or JSONL file into string-valued rows.
// Column names are matched case-insensitively.
func readTable(path string) (*table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return readJSONTable(path)
	default:
		return readCSVTable(path)
	}
}

func readCSVTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv %s: empty file", path)
	}

	headers := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		headers[strings.ToLower(strings.TrimSpace(h))] = i
	}

	t := &table{headers: headers}
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for col, idx := range headers {
			if idx < len(record) {
				row[col] = record[idx]
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func readJSONTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var objects []map[string]any

	// Try a JSON array first, then fall back to one object per line.
	dec := json.NewDecoder(f)
	if err := dec.Decode(&objects); err != nil {
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("parse json %s: %w", path, err)
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("parse jsonl %s: %w", path, err)
			}
			objects = append(objects, obj)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	t := &table{headers: make(map[string]int)}
	for _, obj := range objects {
		row := make(map[string]string, len(obj))
		for key, val := range obj {
			col := strings.ToLower(strings.TrimSpace(key))
			if _, ok := t.headers[col]; !ok {
				t.headers[col] = len(t.headers)
			}
			row[col] = stringifyJSONValue(val)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func stringifyJSONValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
