package risk

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Alert & Webhook System
//
// Structured alert emission for situation-room operations. Alerts are:
//   1. Broadcast via WebSocket to connected dashboards
//   2. Pushed to registered webhook endpoints (Slack, Discord, SIEM)
//   3. Stored in memory for recent alert history
//
// Rate of emission is bounded upstream: only High and Critical signals
// reach the manager, so webhook receivers are not flooded during surges.

// Alert is a structured early-warning notification.
type Alert struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Level       string             `json:"level"`     // Medium/High/Critical
	AlertType   string             `json:"alertType"` // high_risk/surge/escalation
	Title       string             `json:"title"`
	Description string             `json:"description"`
	State       string             `json:"state,omitempty"`
	LGA         string             `json:"lga,omitempty"`
	Signal      *models.RiskSignal `json:"signal,omitempty"`
}

// WebhookEndpoint is a registered webhook receiver.
type WebhookEndpoint struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Enabled  bool              `json:"enabled"`
	Headers  map[string]string `json:"headers,omitempty"`
	MinLevel string            `json:"minLevel"` // Only send alerts >= this risk level
}

// AlertManager handles alert emission and webhook delivery.
type AlertManager struct {
	mu            sync.RWMutex
	webhooks      []WebhookEndpoint
	recentAlerts  []Alert
	maxHistory    int
	httpClient    *http.Client
	alertCallback func(Alert) // WebSocket broadcast callback
}

func NewAlertManager(broadcastFn func(Alert)) *AlertManager {
	return &AlertManager{
		webhooks:      make([]WebhookEndpoint, 0),
		recentAlerts:  make([]Alert, 0),
		maxHistory:    1000,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		alertCallback: broadcastFn,
	}
}

// RegisterWebhook adds a webhook endpoint.
func (am *AlertManager) RegisterWebhook(name, url, minLevel string, headers map[string]string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.webhooks = append(am.webhooks, WebhookEndpoint{
		Name:     name,
		URL:      url,
		Enabled:  true,
		Headers:  headers,
		MinLevel: minLevel,
	})

	log.Printf("[AlertManager] Registered webhook: %s → %s (min: %s)", name, url, minLevel)
}

// RemoveWebhook removes a webhook by name.
func (am *AlertManager) RemoveWebhook(name string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	for i, wh := range am.webhooks {
		if wh.Name == name {
			am.webhooks = append(am.webhooks[:i], am.webhooks[i+1:]...)
			return
		}
	}
}

// EmitAlert processes and distributes an alert.
func (am *AlertManager) EmitAlert(alert Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	am.mu.Lock()
	am.recentAlerts = append(am.recentAlerts, alert)
	if len(am.recentAlerts) > am.maxHistory {
		am.recentAlerts = am.recentAlerts[len(am.recentAlerts)-am.maxHistory:]
	}
	webhooks := make([]WebhookEndpoint, len(am.webhooks))
	copy(webhooks, am.webhooks)
	am.mu.Unlock()

	if am.alertCallback != nil {
		am.alertCallback(alert)
	}

	// Webhook delivery is async and best-effort.
	for _, wh := range webhooks {
		if !wh.Enabled {
			continue
		}
		if !levelMeetsThreshold(alert.Level, wh.MinLevel) {
			continue
		}
		go am.sendWebhook(wh, alert)
	}

	log.Printf("[Alert] [%s] %s: %s (%s, %s)", alert.Level, alert.AlertType, alert.Title, alert.LGA, alert.State)
}

// EmitFromSignal creates and emits an alert from a scored signal.
// Signals below High risk never alert.
func (am *AlertManager) EmitFromSignal(sig models.RiskSignal) {
	if !levelMeetsThreshold(sig.RiskLevel, models.RiskHigh) {
		return
	}

	alertType := "high_risk"
	title := sig.RiskLevel + " risk signal: " + sig.EventType + " in " + sig.LGA
	switch {
	case sig.SurgeDetected:
		alertType = "surge"
		title = "⚠️ Risk surge in " + sig.LGA + ", " + sig.State
	case sig.HighEscalationPotential:
		alertType = "escalation"
		title = "🚨 High escalation potential in " + sig.LGA + ", " + sig.State
	}

	am.EmitAlert(Alert{
		Level:       sig.RiskLevel,
		AlertType:   alertType,
		Title:       title,
		Description: sig.TriggerReason,
		State:       sig.State,
		LGA:         sig.LGA,
		Signal:      &sig,
	})
}

// GetRecentAlerts returns the most recent alerts, newest first.
func (am *AlertManager) GetRecentAlerts(limit int) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	if limit <= 0 || limit > len(am.recentAlerts) {
		limit = len(am.recentAlerts)
	}

	start := len(am.recentAlerts) - limit
	result := make([]Alert, limit)
	for i := 0; i < limit; i++ {
		result[i] = am.recentAlerts[start+limit-1-i]
	}
	return result
}

// GetAlertsByLevel returns alerts matching a minimum risk level.
func (am *AlertManager) GetAlertsByLevel(minLevel string) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	var filtered []Alert
	for _, alert := range am.recentAlerts {
		if levelMeetsThreshold(alert.Level, minLevel) {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}

// sendWebhook delivers an alert to a webhook endpoint.
func (am *AlertManager) sendWebhook(wh WebhookEndpoint, alert Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("[Webhook] Failed to marshal alert: %v", err)
		return
	}

	req, err := http.NewRequest("POST", wh.URL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("[Webhook] Failed to create request for %s: %v", wh.Name, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	for key, val := range wh.Headers {
		req.Header.Set(key, val)
	}

	resp, err := am.httpClient.Do(req)
	if err != nil {
		log.Printf("[Webhook] Failed to send to %s: %v", wh.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[Webhook] %s returned status %d", wh.Name, resp.StatusCode)
	}
}

// levelMeetsThreshold checks if a risk level meets the minimum.
func levelMeetsThreshold(level, minimum string) bool {
	ranks := map[string]int{
		models.RiskMinimal: 0, models.RiskLow: 1, models.RiskMedium: 2,
		models.RiskHigh: 3, models.RiskCritical: 4,
	}
	return ranks[level] >= ranks[minimum]
}
