// Package masothue looks up business tax records on masothue.com by tax id.
// It is a standalone network client, unrelated to the analytics pipeline.
package masothue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"product-research/utils"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Record holds the details scraped from one tax-record page. Fields preserves
// the two-column table labels in page order.
type Record struct {
	TaxID      string
	URL        string
	Name       string
	Fields     map[string]string
	FieldOrder []string
}

// Client fetches and parses tax-record pages.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *utils.Logger
	retry   *utils.RetryConfig
}

// New creates a Client for the given registry base URL.
func New(baseURL string, timeout time.Duration, logger *utils.Logger, retry *utils.RetryConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		retry:   retry,
	}
}

// Lookup resolves a tax id to its detail page and parses the record.
func (c *Client) Lookup(ctx context.Context, taxID string) (*Record, error) {
	detailURL, err := c.findDetailURL(ctx, taxID)
	if err != nil {
		return nil, err
	}

	doc, err := c.fetch(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	record := &Record{
		TaxID:  taxID,
		URL:    detailURL,
		Fields: make(map[string]string),
	}
	record.Name = squash(doc.Find("h1").First().Text())

	// Detail pages present the record as two-column tables.
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() != 2 {
			return
		}
		label := squash(cells.Eq(0).Text())
		value := squash(cells.Eq(1).Text())
		if label == "" {
			return
		}
		if _, dup := record.Fields[label]; dup {
			return
		}
		record.Fields[label] = value
		record.FieldOrder = append(record.FieldOrder, label)
	})

	if record.Name == "" && len(record.Fields) == 0 {
		return nil, fmt.Errorf("no usable data on %s for tax id %s", detailURL, taxID)
	}
	return record, nil
}

// findDetailURL queries the auto-search endpoint and returns the first result
// link containing "/<taxID>-".
func (c *Client) findDetailURL(ctx context.Context, taxID string) (string, error) {
	searchURL := fmt.Sprintf("%s/Search/?type=auto&q=%s", c.baseURL, url.QueryEscape(taxID))
	doc, err := c.fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	needle := "/" + taxID + "-"
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, needle) {
			found = href
			return false
		}
		return true
	})

	if found == "" {
		return "", fmt.Errorf("no result link for tax id %s", taxID)
	}
	if strings.HasPrefix(found, "http") {
		return found, nil
	}
	return c.baseURL + found, nil
}

// fetch GETs a page with retries and parses it.
func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := c.retry.Do("fetch "+pageURL, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// squash trims and collapses whitespace in extracted cell text.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
