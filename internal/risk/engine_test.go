package risk

import (
	"math"
	"strings"
	"testing"

	"github.com/sahelwatch/sentinel-engine/internal/refdata"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func testEconomicTable() *refdata.EconomicTable {
	return refdata.NewEconomicTable([]models.EconomicRow{
		{State: "Lagos", LGA: "Ikeja", FuelPrice: 700, Inflation: 22},
		{State: "Sokoto", LGA: "Illela", FuelPrice: 640, Inflation: 18},
		{State: "Benue", LGA: "Guma", FuelPrice: 600, Inflation: 15},
		{State: "Zamfara", LGA: "Anka", FuelPrice: 620, Inflation: 19},
		{State: "Borno", LGA: "Bama", FuelPrice: 630, Inflation: 17},
		{State: "Kano", LGA: "Dala", FuelPrice: 600, Inflation: 21},
	})
}

func testEvent(eventType, state, lga, severity string) models.ParsedEvent {
	return models.ParsedEvent{
		EventType:   eventType,
		State:       state,
		LGA:         lga,
		Severity:    severity,
		SourceTitle: "Incident reported in " + lga,
		SourceURL:   "https://example.com/" + strings.ToLower(state),
	}
}

func TestScoreEconomicStress(t *testing.T) {
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	// base 30 + clash 40 + high 20 + inflation (22-20)*2 + fuel (700-650)*0.1
	sig, err := engine.Score(testEvent("clash", "Lagos", "Ikeja", "high"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	if !almostEqual(sig.RiskScore, 99.0, 0.01) {
		t.Errorf("score = %v, want 99.0", sig.RiskScore)
	}
	if sig.RiskLevel != models.RiskCritical {
		t.Errorf("level = %s, want Critical", sig.RiskLevel)
	}
	if !strings.Contains(sig.TriggerReason, "High inflation (22%)") {
		t.Errorf("trigger reason missing inflation clause: %s", sig.TriggerReason)
	}
	if !strings.Contains(sig.TriggerReason, "Elevated fuel prices") {
		t.Errorf("trigger reason missing fuel clause: %s", sig.TriggerReason)
	}
}

func TestScoreClashInflationFloor(t *testing.T) {
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	// base 30 + clash 40 + minor 3 + inflation 2 = 75, floored to 81.
	sig, err := engine.Score(testEvent("clash", "Kano", "Dala", "minor"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !almostEqual(sig.RiskScore, 81.0, 0.01) {
		t.Errorf("score = %v, want 81 (clash under economic stress)", sig.RiskScore)
	}
	if sig.RiskLevel != models.RiskCritical {
		t.Errorf("level = %s, want Critical", sig.RiskLevel)
	}
}

func TestScoreFloodMultiplier(t *testing.T) {
	climate := []refdata.ClimateRecord{
		{State: "Benue", LGA: "Guma", FloodInundationIndex: 25},
	}
	dry := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))
	flooded := NewEngine(testEconomicTable(), refdata.NewSnapshot(climate, nil, nil, nil, nil))

	base, err := dry.Score(testEvent("violence", "Benue", "Guma", "low"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	amplified, err := flooded.Score(testEvent("violence", "Benue", "Guma", "low"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	if !almostEqual(amplified.RiskScore, base.RiskScore*1.5, 0.1) {
		t.Errorf("flooded score = %v, want %v (1.5x dry score)", amplified.RiskScore, base.RiskScore*1.5)
	}
	if !strings.Contains(amplified.TriggerReason, "Flooding-induced displacement") {
		t.Errorf("trigger reason missing flood clause: %s", amplified.TriggerReason)
	}

	// Non-violent events are not amplified by flooding.
	protest, err := flooded.Score(testEvent("protest", "Benue", "Guma", "medium"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if strings.Contains(protest.TriggerReason, "Flooding-induced") {
		t.Errorf("protest should not carry flood multiplier: %s", protest.TriggerReason)
	}
}

func TestScoreMiningProximity(t *testing.T) {
	mining := []refdata.MiningSite{
		{SiteName: "Anka Gold Field", Latitude: 12.17, Longitude: 6.66, InformalTaxationRate: 0.3},
	}
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, mining, nil, nil))

	event := testEvent("banditry", "Zamfara", "Anka", "high")
	event.Latitude = floatPtr(12.19)
	event.Longitude = floatPtr(6.67)

	sig, err := engine.Score(event)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !sig.HighFundingPotential {
		t.Error("HighFundingPotential not set for event within 10km of a mining site")
	}
	if sig.MiningProximityKM >= 10 {
		t.Errorf("mining proximity = %v km, want < 10", sig.MiningProximityKM)
	}
	if !strings.Contains(sig.TriggerReason, "High Funding Potential") {
		t.Errorf("trigger reason missing funding clause: %s", sig.TriggerReason)
	}
}

func TestScoreMiningDensityEscalation(t *testing.T) {
	strategic := []refdata.StrategicIndicators{
		{State: "Zamfara", MiningDensity: 0.7},
	}
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, strategic))

	sig, err := engine.Score(testEvent("banditry", "Zamfara", "Anka", "high"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !sig.HighEscalationPotential {
		t.Error("HighEscalationPotential not set for mining density > 0.6")
	}
	if !strings.HasPrefix(sig.TriggerReason, "[HIGH ESCALATION POTENTIAL]") {
		t.Errorf("trigger reason missing escalation prefix: %s", sig.TriggerReason)
	}
}

func TestScoreLakurawaCorridor(t *testing.T) {
	border := []refdata.BorderSignal{
		{State: "Sokoto", LGA: "Illela", BorderActivity: "High"},
		{State: "Borno", LGA: "Bama", BorderActivity: "Critical"},
	}
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, border, nil))

	sokoto, err := engine.Score(testEvent("attack", "Sokoto", "Illela", "high"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !sokoto.LakurawaPresence {
		t.Error("LakurawaPresence not set for high border activity in Sokoto")
	}
	if !strings.Contains(sokoto.TriggerReason, "Lakurawa Presence Detected") {
		t.Errorf("trigger reason missing Lakurawa clause: %s", sokoto.TriggerReason)
	}

	// Critical border activity outside the northwest corridor gets the
	// flat bonus without the Lakurawa attribution.
	borno, err := engine.Score(testEvent("attack", "Borno", "Bama", "high"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if borno.LakurawaPresence {
		t.Error("LakurawaPresence set outside Sokoto/Kebbi")
	}
	if !strings.Contains(borno.TriggerReason, "Critical cross-border activity") {
		t.Errorf("trigger reason missing border clause: %s", borno.TriggerReason)
	}
}

func TestScoreFarmerHerderAmplifier(t *testing.T) {
	strategic := []refdata.StrategicIndicators{
		{State: "Benue", MigrationPressure: 0.8},
	}
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, strategic))

	event := testEvent("clash", "Benue", "Guma", "medium")
	event.SourceTitle = "Herders and farmers clash over grazing routes in Guma"

	sig, err := engine.Score(event)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !sig.IsFarmerHerderConflict {
		t.Error("IsFarmerHerderConflict not set")
	}
	// base 30 + clash 40 + medium 10 = 80, x1.8 = 144, clamped to 100
	if !almostEqual(sig.RiskScore, 100.0, 0.01) {
		t.Errorf("score = %v, want 100 (clamped)", sig.RiskScore)
	}
}

func TestScoreClimateZoneAttribution(t *testing.T) {
	zone := refdata.NewTestZone("Lake Chad Basin", "High", 0.85, [][2]float64{
		{11.0, 12.5}, {13.0, 12.5}, {13.0, 14.5}, {11.0, 14.5}, {11.0, 12.5},
	})
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, []refdata.ClimateZone{zone}, nil, nil, nil))

	event := testEvent("attack", "Borno", "Bama", "high")
	event.Latitude = floatPtr(11.83)
	event.Longitude = floatPtr(13.15)

	sig, err := engine.Score(event)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if sig.ClimateZoneRegion != "Lake Chad Basin" {
		t.Errorf("zone region = %q, want Lake Chad Basin", sig.ClimateZoneRegion)
	}
	if sig.ConflictDriver != "Environmental/Climate" {
		t.Errorf("conflict driver = %q, want Environmental/Climate", sig.ConflictDriver)
	}
	if !strings.Contains(sig.TriggerReason, "Climate stress zone (High impact)") {
		t.Errorf("trigger reason missing climate zone clause: %s", sig.TriggerReason)
	}
}

func TestScoreSurgeDetection(t *testing.T) {
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	// First observation establishes the baseline and never surges.
	first, err := engine.Score(testEvent("protest", "Benue", "Guma", "low"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if first.SurgeDetected {
		t.Error("first observation must not surge")
	}

	// A jump of more than 20% over the baseline surges.
	second, err := engine.Score(testEvent("clash", "Benue", "Guma", "critical"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !second.SurgeDetected {
		t.Fatalf("expected surge: %v -> %v", first.RiskScore, second.RiskScore)
	}
	if !strings.HasPrefix(second.TriggerReason, "⚠️ SURGE ALERT") {
		t.Errorf("trigger reason missing surge prefix: %s", second.TriggerReason)
	}
}

func TestScoreNoEconomicData(t *testing.T) {
	engine := NewEngine(refdata.NewEconomicTable(nil), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	if _, err := engine.Score(testEvent("clash", "Lagos", "Ikeja", "high")); err == nil {
		t.Error("Score() should fail without economic data")
	}
}

func TestScoreDeterministic(t *testing.T) {
	event := testEvent("conflict", "Sokoto", "Illela", "medium")

	a := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))
	b := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	sigA, err := a.Score(event)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	sigB, err := b.Score(event)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	if sigA.RiskScore != sigB.RiskScore {
		t.Errorf("scores differ: %v vs %v", sigA.RiskScore, sigB.RiskScore)
	}
	if sigA.TriggerReason != sigB.TriggerReason {
		t.Errorf("trigger reasons differ:\n%s\n%s", sigA.TriggerReason, sigB.TriggerReason)
	}
}

func TestScoreUnknownTypeAndSeverity(t *testing.T) {
	engine := NewEngine(testEconomicTable(), refdata.NewSnapshot(nil, nil, nil, nil, nil))

	// base 30 + unknown type 15 + unknown severity 5 = 50
	sig, err := engine.Score(testEvent("ritual", "Benue", "Guma", "weird"))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if !almostEqual(sig.RiskScore, 50.0, 0.01) {
		t.Errorf("score = %v, want 50.0", sig.RiskScore)
	}
	if sig.RiskLevel != models.RiskMedium {
		t.Errorf("level = %s, want Medium", sig.RiskLevel)
	}
}

func TestSurgeTracker(t *testing.T) {
	tracker := NewSurgeTracker()

	if detected, _ := tracker.Observe("Benue", "Guma", 50); detected {
		t.Error("first observation must not surge")
	}

	detected, pct := tracker.Observe("Benue", "Guma", 70)
	if !detected {
		t.Fatal("expected surge for 40% jump")
	}
	if !almostEqual(pct, 40.0, 0.01) {
		t.Errorf("surge pct = %v, want 40", pct)
	}

	// Baseline moved to 70; a small rise stays quiet but still updates.
	if detected, _ := tracker.Observe("Benue", "Guma", 75); detected {
		t.Error("7% rise should not surge")
	}
	if detected, _ := tracker.Observe("Benue", "Guma", 95); !detected {
		t.Error("26% rise over updated baseline should surge")
	}

	// Locations are tracked independently, case-insensitively.
	tracker.Observe("Benue", "Makurdi", 40)
	if detected, _ := tracker.Observe("benue", "MAKURDI", 60); !detected {
		t.Error("case-insensitive location keys should share a baseline")
	}
}
