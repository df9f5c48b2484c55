package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"product-research/config"
	"product-research/scraper/masothue"
	"product-research/utils"
)

func main() {
	input := flag.String("input", "", "CSV file with tax ids")
	column := flag.String("column", "tax_id", "Name of the tax id column")
	output := flag.String("output", "masothue_results.csv", "Output CSV path")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	if *input == "" {
		logger.Error("Usage: taxlookup -input ids.csv [-column tax_id] [-output results.csv]")
		os.Exit(1)
	}

	ids, err := readTaxIDs(*input, *column)
	if err != nil {
		logger.Error("Failed to read tax ids: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d tax ids from %s", len(ids), *input)

	client := masothue.New(
		cfg.MasothueBaseURL,
		time.Duration(cfg.HTTPTimeoutMs)*time.Millisecond,
		logger,
		&utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger},
	)

	// One worker: the registry is queried sequentially with a politeness
	// delay between requests.
	pool := utils.NewWorkerPool(1, cfg.RateLimitMs)
	ctx := context.Background()

	records := make([]*masothue.Record, len(ids))
	for i, id := range ids {
		i, id := i, id
		pool.Submit(func() {
			record, err := client.Lookup(ctx, id)
			if err != nil {
				logger.Warn("[%d/%d] %s: %v", i+1, len(ids), id, err)
				return
			}
			logger.Info("[%d/%d] %s → %s", i+1, len(ids), id, record.Name)
			records[i] = record
		})
	}
	pool.Wait()

	kept := make([]*masothue.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		logger.Error("No records could be fetched")
		os.Exit(1)
	}

	if err := writeRecords(*output, kept); err != nil {
		logger.Error("Failed to write results: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %d records to %s\n", len(kept), *output)
}

// readTaxIDs extracts the non-empty, de-duplicated values of the id column.
func readTaxIDs(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv %s", path)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}

	seen := utils.NewStringSet()
	var ids []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[col])
		if id != "" && seen.Add(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// writeRecords writes one row per record; columns are tax_id, name, url plus
// the union of field labels in first-seen order.
func writeRecords(path string, records []*masothue.Record) error {
	var labels []string
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, label := range r.FieldOrder {
			if _, ok := seen[label]; !ok {
				seen[label] = struct{}{}
				labels = append(labels, label)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"tax_id", "name", "url"}, labels...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.TaxID, r.Name, r.URL}
		for _, label := range labels {
			row = append(row, r.Fields[label])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
