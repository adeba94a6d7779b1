package models

import "testing"

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, RiskCritical},
		{80, RiskCritical},
		{79.9, RiskHigh},
		{60, RiskHigh},
		{59.9, RiskMedium},
		{40, RiskMedium},
		{39.9, RiskLow},
		{20, RiskLow},
		{19.9, RiskMinimal},
		{0, RiskMinimal},
	}
	for _, tt := range tests {
		if got := RiskLevelForScore(tt.score); got != tt.want {
			t.Errorf("RiskLevelForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestArticleIsVerified(t *testing.T) {
	borderline := Article{VeracityScore: 0.8}
	if borderline.IsVerified() {
		t.Error("0.8 is not above the verification threshold")
	}
	corroborated := Article{VeracityScore: 1.0}
	if !corroborated.IsVerified() {
		t.Error("1.0 should be verified")
	}
}
