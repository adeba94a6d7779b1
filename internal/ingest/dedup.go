package ingest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Content-addressed deduplication. Articles carrying the same title and
// content under different URLs collapse into one representative whose
// veracity grows with the number of distinct publishing sources:
// corroboration across outlets is treated as weak verification.

const verificationThreshold = 0.8

// Fingerprint returns the hex SHA-256 of title concatenated with content.
func Fingerprint(title, content string) string {
	sum := sha256.Sum256([]byte(title + content))
	return hex.EncodeToString(sum[:])
}

// Deduplicate partitions the cycle's articles by fingerprint and keeps
// one representative per class (first in iteration order). For each
// representative:
//
//	source_count   = number of distinct sources in its class
//	veracity_score = min(1.0, 0.5 * source_count)
//
// A multi-source article that still scores below the verification
// threshold is flagged for manual verification. Running Deduplicate on
// already-deduplicated output leaves the fingerprint groupings unchanged.
func Deduplicate(articles []models.Article) []models.Article {
	type class struct {
		representative int
		sources        map[string]bool
	}

	classes := make(map[string]*class)
	order := make([]string, 0, len(articles))

	for i := range articles {
		if articles[i].Fingerprint == "" {
			articles[i].Fingerprint = Fingerprint(articles[i].Title, articles[i].Content)
		}
		fp := articles[i].Fingerprint

		c, ok := classes[fp]
		if !ok {
			c = &class{representative: i, sources: make(map[string]bool)}
			classes[fp] = c
			order = append(order, fp)
		}
		c.sources[articles[i].Source] = true
	}

	out := make([]models.Article, 0, len(order))
	for _, fp := range order {
		c := classes[fp]
		rep := articles[c.representative]

		rep.SourceCount = len(c.sources)
		if rep.SourceCount < 1 {
			rep.SourceCount = 1
		}
		rep.VeracityScore = 0.5 * float64(rep.SourceCount)
		if rep.VeracityScore > 1.0 {
			rep.VeracityScore = 1.0
		}
		if rep.SourceCount > 1 && rep.VeracityScore < verificationThreshold {
			rep.Features.VerificationNeeded = true
		}

		out = append(out, rep)
	}
	return out
}
