package services

import (
	"strconv"
	"strings"
	"time"

	"product-research/models"
	"product-research/utils"
)

// timeLayouts are tried in order when parsing post timestamps. A value that
// matches none of them is treated as missing, never as an error.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Cleaner transforms raw input rows into clean, typed records. Malformed
// numeric and date fields are defaulted locally; a bad row never aborts the
// run.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanPosts parses raw social rows into SocialPosts. Rows without a post id
// are dropped, duplicate post ids keep the first occurrence.
func (c *Cleaner) CleanPosts(raw []*models.RawPost) []*models.SocialPost {
	seen := make(map[string]struct{})
	result := make([]*models.SocialPost, 0, len(raw))

	for _, r := range raw {
		id := strings.TrimSpace(r.PostID)
		if id == "" {
			c.logger.Warn("[cleaner] Dropping post with empty post_id (caption: %.40q)", r.Caption)
			continue
		}
		if _, dup := seen[id]; dup {
			c.logger.Debug("[cleaner] Duplicate post_id skipped: %s", id)
			continue
		}
		seen[id] = struct{}{}

		caption := Normalize(r.Caption)
		hashtags := Normalize(r.Hashtags)

		post := &models.SocialPost{
			PostID:   id,
			ImageID:  strings.TrimSpace(r.ImageID),
			Caption:  strings.TrimSpace(r.Caption),
			Hashtags: c.parseHashtags(hashtags),
			Likes:    c.parseCount(r.Likes),
			Comments: c.parseCount(r.Comments),
			PostedAt: c.parseTime(r.PostedAt),
			Platform: strings.ToLower(strings.TrimSpace(r.Platform)),
			TextBlob: strings.TrimSpace(caption + " " + hashtags),
		}
		result = append(result, post)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d posts (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// CleanCatalog parses raw catalog rows into CatalogEntries. Rows with a
// missing product id get one synthesized from the row position; such ids are
// only stable while the input row order is.
func (c *Cleaner) CleanCatalog(raw []*models.RawCatalogRow) []*models.CatalogEntry {
	result := make([]*models.CatalogEntry, 0, len(raw))

	for i, r := range raw {
		id := strings.TrimSpace(r.ProductID)
		if id == "" {
			id = strconv.Itoa(i)
		}

		entry := &models.CatalogEntry{
			ProductID:   id,
			ProductName: strings.TrimSpace(r.ProductName),
			Brand:       strings.TrimSpace(r.Brand),
			Model:       strings.TrimSpace(r.Model),
			Category:    strings.TrimSpace(r.Category),
			Currency:    strings.TrimSpace(r.Currency),
			URL:         strings.TrimSpace(r.URL),
			Marketplace: strings.TrimSpace(r.Marketplace),
		}
		entry.Price, entry.HasPrice = c.parseFloat(r.Price)
		entry.Rating, entry.HasRating = c.parseFloat(r.Rating)
		entry.SearchBlob = Normalize(strings.Join([]string{
			entry.ProductName, entry.Brand, entry.Model, entry.Category,
		}, " "))

		result = append(result, entry)
	}

	c.logger.Info("[cleaner] Cleaned %d catalog rows", len(result))
	return result
}

// CleanImageMatches parses raw image-match rows, dropping rows without both
// identifiers. The first mapping per image id wins.
func (c *Cleaner) CleanImageMatches(raw []*models.ImageMatch) []*models.ImageMatch {
	seen := make(map[string]struct{})
	result := make([]*models.ImageMatch, 0, len(raw))

	for _, m := range raw {
		imageID := strings.TrimSpace(m.ImageID)
		productID := strings.TrimSpace(m.ProductID)
		if imageID == "" || productID == "" {
			c.logger.Debug("[cleaner] Dropping incomplete image match (%q → %q)", m.ImageID, m.ProductID)
			continue
		}
		if _, dup := seen[imageID]; dup {
			continue
		}
		seen[imageID] = struct{}{}
		result = append(result, &models.ImageMatch{ImageID: imageID, ProductID: productID, Score: m.Score})
	}
	return result
}

// parseCount parses a like/comment count. Missing or malformed values
// default to 0; counts are never negative.
func (c *Cleaner) parseCount(raw string) int {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// parseFloat parses a price or rating field. The second return reports
// whether the value was present and numeric; callers exclude absent values
// from statistics instead of coercing them to zero.
func (c *Cleaner) parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (c *Cleaner) parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// parseHashtags pulls hashtag bodies out of the hashtag column. Columns that
// store plain comma-separated tags (no '#') are split on commas instead.
func (c *Cleaner) parseHashtags(raw string) []string {
	if tags := ExtractHashtags(raw); len(tags) > 0 {
		return tags
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
