package risk

import (
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func TestEmitFromSignalThreshold(t *testing.T) {
	var received []Alert
	am := NewAlertManager(func(a Alert) { received = append(received, a) })

	am.EmitFromSignal(models.RiskSignal{RiskLevel: models.RiskMedium, RiskScore: 45})
	if len(received) != 0 {
		t.Fatal("medium-risk signal should not alert")
	}

	am.EmitFromSignal(models.RiskSignal{
		RiskLevel: models.RiskHigh, RiskScore: 65,
		EventType: "clash", State: "Benue", LGA: "Guma",
	})
	if len(received) != 1 {
		t.Fatal("high-risk signal should alert")
	}
	if received[0].AlertType != "high_risk" {
		t.Errorf("alert type = %q, want high_risk", received[0].AlertType)
	}
	if received[0].ID == "" {
		t.Error("alert should carry a generated ID")
	}
}

func TestEmitFromSignalTypePrecedence(t *testing.T) {
	var received []Alert
	am := NewAlertManager(func(a Alert) { received = append(received, a) })

	am.EmitFromSignal(models.RiskSignal{
		RiskLevel: models.RiskCritical, RiskScore: 88,
		SurgeDetected: true, HighEscalationPotential: true,
		State: "Zamfara", LGA: "Anka",
	})
	if len(received) != 1 {
		t.Fatal("expected one alert")
	}
	// Surge outranks escalation in the alert type.
	if received[0].AlertType != "surge" {
		t.Errorf("alert type = %q, want surge", received[0].AlertType)
	}

	am.EmitFromSignal(models.RiskSignal{
		RiskLevel: models.RiskCritical, RiskScore: 88,
		HighEscalationPotential: true,
		State:                   "Zamfara", LGA: "Anka",
	})
	if received[1].AlertType != "escalation" {
		t.Errorf("alert type = %q, want escalation", received[1].AlertType)
	}
}

func TestRecentAlertsNewestFirst(t *testing.T) {
	am := NewAlertManager(nil)
	am.EmitAlert(Alert{Level: models.RiskHigh, Title: "first"})
	am.EmitAlert(Alert{Level: models.RiskHigh, Title: "second"})
	am.EmitAlert(Alert{Level: models.RiskCritical, Title: "third"})

	recent := am.GetRecentAlerts(2)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Title != "third" || recent[1].Title != "second" {
		t.Errorf("order = [%s, %s], want newest first", recent[0].Title, recent[1].Title)
	}

	critical := am.GetAlertsByLevel(models.RiskCritical)
	if len(critical) != 1 || critical[0].Title != "third" {
		t.Errorf("level filter returned %d alerts", len(critical))
	}
}

func TestLevelMeetsThreshold(t *testing.T) {
	tests := []struct {
		level, minimum string
		want           bool
	}{
		{models.RiskCritical, models.RiskHigh, true},
		{models.RiskHigh, models.RiskHigh, true},
		{models.RiskMedium, models.RiskHigh, false},
		{models.RiskMinimal, models.RiskLow, false},
	}
	for _, tt := range tests {
		if got := levelMeetsThreshold(tt.level, tt.minimum); got != tt.want {
			t.Errorf("levelMeetsThreshold(%s, %s) = %v, want %v", tt.level, tt.minimum, got, tt.want)
		}
	}
}
