package models

import "time"

// Conflict categories recognized by the categorization pass. Any value
// outside this set is clamped to CategoryUnknown.
const (
	CategoryBanditry     = "Banditry"
	CategoryKidnapping   = "Kidnapping"
	CategoryGunmen       = "Gunmen Violence"
	CategoryFarmerHerder = "Farmer-Herder Clashes"
	CategoryUnknown      = "Unknown"
)

// ValidCategories is the closed set accepted from the categorization model.
var ValidCategories = map[string]bool{
	CategoryBanditry:     true,
	CategoryKidnapping:   true,
	CategoryGunmen:       true,
	CategoryFarmerHerder: true,
	CategoryUnknown:      true,
}

// Casualties holds structured casualty counts extracted from an article.
type Casualties struct {
	Fatalities    int `json:"fatalities"`
	Injured       int `json:"injured"`
	KidnapVictims int `json:"kidnapVictims"`
}

// Geography is the coarse location attribution attached to an article.
type Geography struct {
	State     string `json:"state"`
	LGA       string `json:"lga"`
	Community string `json:"community"`
}

// Features carries the classification annotations attached to an Article
// after ingestion. ConflictType starts as Unknown and is upgraded by the
// categorization pass together with a confidence in 0..100.
type Features struct {
	ConflictType       string     `json:"conflictType"`
	Confidence         float64    `json:"confidence"`
	Casualties         Casualties `json:"casualties"`
	Geography          Geography  `json:"geography"`
	VerificationNeeded bool       `json:"verificationNeeded"`
}

// Article is a deduplicated, fingerprinted news item. Identity is the URL;
// the fingerprint is SHA-256 over title+content and partitions articles
// into duplicate classes across sources.
type Article struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Source        string     `json:"source"`
	URL           string     `json:"url"`
	ScrapedAt     time.Time  `json:"scrapedAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Author        string     `json:"author,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Features      Features   `json:"features"`
	Fingerprint   string     `json:"fingerprint"`
	VeracityScore float64    `json:"veracityScore"`
	SourceCount   int        `json:"sourceCount"`
}

// IsVerified reports whether the article crossed the multi-source
// verification threshold.
func (a *Article) IsVerified() bool {
	return a.VeracityScore > 0.8
}
