package models

import "time"

// RawPost holds an unprocessed social post row exactly as read from the
// input file. All fields are strings; parsing happens in the cleaner.
type RawPost struct {
	PostID   string
	ImageID  string
	ImageURL string
	Caption  string
	Hashtags string
	Likes    string
	Comments string
	PostedAt string
	Platform string
}

// SocialPost is a cleaned, enriched post ready for aggregation.
type SocialPost struct {
	PostID   string
	ImageID  string
	Caption  string
	Hashtags []string
	Likes    int
	Comments int
	PostedAt *time.Time
	Platform string

	// Derived signals
	TextBlob   string
	Attributes []string
	Category   string
	Brand      string
	BrandScore int
	Model      string
	ModelScore int
	ProductKey string
}
