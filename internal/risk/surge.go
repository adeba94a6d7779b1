package risk

import (
	"strings"
	"sync"
)

// SurgeTracker keeps the previous risk score per (state, lga) and flags
// hotspots whose score jumped by more than 20% between consecutive
// observations. State is in-memory only; a restart loses history and the
// first observation after it never surges.
type SurgeTracker struct {
	mu   sync.Mutex
	prev map[string]float64
}

func NewSurgeTracker() *SurgeTracker {
	return &SurgeTracker{prev: make(map[string]float64)}
}

// Observe records the new score and reports whether it constitutes a
// surge relative to the previous one. The map is always updated, even
// when no surge fires, so the baseline tracks the latest observation.
func (t *SurgeTracker) Observe(state, lga string, score float64) (bool, float64) {
	key := strings.ToLower(state) + "|" + strings.ToLower(lga)

	t.mu.Lock()
	defer t.mu.Unlock()

	previous, seen := t.prev[key]
	t.prev[key] = score

	if !seen || previous <= 0 {
		return false, 0
	}

	pct := (score - previous) / previous * 100
	if pct > surgeThresholdPct {
		return true, pct
	}
	return false, 0
}
