package ingest

import (
	"math"
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Clash in Zamfara", "Armed men attacked a village.")
	b := Fingerprint("Clash in Zamfara", "Armed men attacked a village.")
	if a != b {
		t.Errorf("same content produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}

	c := Fingerprint("Clash in Zamfara", "Armed men attacked a village")
	if a == c {
		t.Error("different content produced the same fingerprint")
	}
}

func TestDeduplicateCorroboration(t *testing.T) {
	articles := []models.Article{
		{Title: "Clash in Zamfara", Content: "Armed men attacked a village.", Source: "Premium Times", URL: "https://a.example/1"},
		{Title: "Clash in Zamfara", Content: "Armed men attacked a village.", Source: "Daily Trust", URL: "https://b.example/1"},
		{Title: "Fuel subsidy protest", Content: "Protesters gathered in Lagos over fuel prices.", Source: "The Punch", URL: "https://c.example/1"},
	}

	out := Deduplicate(articles)
	if len(out) != 2 {
		t.Fatalf("deduplicated count = %d, want 2", len(out))
	}

	// The representative is the first occurrence; corroboration raises
	// its veracity to the cap.
	corroborated := out[0]
	if corroborated.URL != "https://a.example/1" {
		t.Errorf("representative = %s, want first occurrence", corroborated.URL)
	}
	if corroborated.SourceCount != 2 {
		t.Errorf("source count = %d, want 2", corroborated.SourceCount)
	}
	if math.Abs(corroborated.VeracityScore-1.0) > 0.001 {
		t.Errorf("veracity = %v, want 1.0", corroborated.VeracityScore)
	}
	if !corroborated.IsVerified() {
		t.Error("two-source article should be verified")
	}
	if corroborated.Features.VerificationNeeded {
		t.Error("verified article should not be flagged for manual verification")
	}

	single := out[1]
	if single.SourceCount != 1 {
		t.Errorf("source count = %d, want 1", single.SourceCount)
	}
	if math.Abs(single.VeracityScore-0.5) > 0.001 {
		t.Errorf("veracity = %v, want 0.5", single.VeracityScore)
	}
}

func TestDeduplicateSameSourceRepeats(t *testing.T) {
	// The same outlet republishing identical content is one source, not
	// corroboration.
	articles := []models.Article{
		{Title: "Kidnapping in Kaduna", Content: "Gunmen abducted three travellers.", Source: "Vanguard", URL: "https://v.example/1"},
		{Title: "Kidnapping in Kaduna", Content: "Gunmen abducted three travellers.", Source: "Vanguard", URL: "https://v.example/2"},
	}

	out := Deduplicate(articles)
	if len(out) != 1 {
		t.Fatalf("deduplicated count = %d, want 1", len(out))
	}
	if out[0].SourceCount != 1 {
		t.Errorf("source count = %d, want 1 (distinct sources only)", out[0].SourceCount)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	articles := []models.Article{
		{Title: "Clash in Zamfara", Content: "Armed men attacked a village.", Source: "Premium Times", URL: "https://a.example/1"},
		{Title: "Clash in Zamfara", Content: "Armed men attacked a village.", Source: "Daily Trust", URL: "https://b.example/1"},
	}

	once := Deduplicate(articles)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Fingerprint != twice[i].Fingerprint {
			t.Errorf("fingerprint changed on second pass: %s -> %s", once[i].Fingerprint, twice[i].Fingerprint)
		}
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if out := Deduplicate(nil); len(out) != 0 {
		t.Errorf("deduplicating nil returned %d articles", len(out))
	}
}
