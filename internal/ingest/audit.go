package ingest

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Bounded in-memory logs the scheduler and dashboard read back. The
// automation log keeps the last 100 cycle entries; the high-risk log
// keeps the last 20 signals that crossed the alert threshold.

const (
	maxAuditEntries    = 100
	maxHighRiskEntries = 20

	// HighRiskThreshold is the score above which a signal lands in the
	// out-of-band pickup log.
	HighRiskThreshold = 85.0
)

// AuditEntry records one scheduler event.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Status    string    `json:"status"` // success / partial / warning / error
	Details   string    `json:"details"`
}

// AuditLog is an append-only ring of scheduler events.
type AuditLog struct {
	mu      sync.RWMutex
	entries []AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{entries: make([]AuditEntry, 0, maxAuditEntries)}
}

// Append records an entry, trimming to the retention bound.
func (l *AuditLog) Append(eventType, status, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Status:    status,
		Details:   details,
	})
	if len(l.entries) > maxAuditEntries {
		l.entries = l.entries[len(l.entries)-maxAuditEntries:]
	}
}

// Entries returns the retained log, most recent first.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]AuditEntry, len(l.entries))
	for i := range l.entries {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// HighRiskLog retains the most recent signals above the alert threshold.
type HighRiskLog struct {
	mu      sync.RWMutex
	signals []models.RiskSignal
}

func NewHighRiskLog() *HighRiskLog {
	return &HighRiskLog{signals: make([]models.RiskSignal, 0, maxHighRiskEntries)}
}

// Record keeps the signal if it crosses the threshold.
func (l *HighRiskLog) Record(sig models.RiskSignal) bool {
	if sig.RiskScore <= HighRiskThreshold {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.signals = append(l.signals, sig)
	if len(l.signals) > maxHighRiskEntries {
		l.signals = l.signals[len(l.signals)-maxHighRiskEntries:]
	}
	return true
}

// Signals returns the retained high-risk signals, most recent first.
func (l *HighRiskLog) Signals() []models.RiskSignal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.RiskSignal, len(l.signals))
	for i := range l.signals {
		out[i] = l.signals[len(l.signals)-1-i]
	}
	return out
}
