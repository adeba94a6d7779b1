package ingest

import (
	"fmt"
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func TestAuditLogBounded(t *testing.T) {
	log := NewAuditLog()
	for i := 0; i < maxAuditEntries+25; i++ {
		log.Append("scrape_cycle", "success", fmt.Sprintf("cycle %d", i))
	}

	entries := log.Entries()
	if len(entries) != maxAuditEntries {
		t.Fatalf("retained = %d, want %d", len(entries), maxAuditEntries)
	}
	// Most recent first; the oldest 25 were trimmed.
	if entries[0].Details != fmt.Sprintf("cycle %d", maxAuditEntries+24) {
		t.Errorf("newest entry = %q", entries[0].Details)
	}
	if entries[len(entries)-1].Details != "cycle 25" {
		t.Errorf("oldest retained entry = %q", entries[len(entries)-1].Details)
	}
	if entries[0].ID == "" {
		t.Error("entries should carry generated IDs")
	}
}

func TestHighRiskLogThreshold(t *testing.T) {
	log := NewHighRiskLog()

	if log.Record(models.RiskSignal{RiskScore: 85.0}) {
		t.Error("score at the threshold should not be recorded")
	}
	if !log.Record(models.RiskSignal{RiskScore: 85.1}) {
		t.Error("score above the threshold should be recorded")
	}
	if got := len(log.Signals()); got != 1 {
		t.Errorf("retained = %d, want 1", got)
	}
}

func TestHighRiskLogBounded(t *testing.T) {
	log := NewHighRiskLog()
	for i := 0; i < maxHighRiskEntries+5; i++ {
		log.Record(models.RiskSignal{RiskScore: 90, LGA: fmt.Sprintf("LGA %d", i)})
	}

	signals := log.Signals()
	if len(signals) != maxHighRiskEntries {
		t.Fatalf("retained = %d, want %d", len(signals), maxHighRiskEntries)
	}
	if signals[0].LGA != fmt.Sprintf("LGA %d", maxHighRiskEntries+4) {
		t.Errorf("newest signal = %q", signals[0].LGA)
	}
}
