package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sahelwatch/sentinel-engine/internal/refdata"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Multidimensional risk scoring. A parsed event is joined with the
// economic table and the reference snapshots, and every branch that
// touches the score appends a clause to the trigger reason, so the
// number and the explanation can never drift apart.

const (
	BaseRiskScore      = 30.0
	InflationThreshold = 20.0
	FuelPriceThreshold = 650.0

	clashInflationFloor = 81.0
	surgeThresholdPct   = 20.0
)

// eventTypeScores is the fixed per-type contribution.
var eventTypeScores = map[string]float64{
	"clash":     40,
	"conflict":  35,
	"violence":  30,
	"protest":   25,
	"security":  25,
	"political": 20,
	"crime":     20,
	"economic":  15,
	"social":    10,
	"unknown":   15,
	"sports":    5,
}

// severityModifiers is the fixed per-severity contribution.
var severityModifiers = map[string]float64{
	"critical": 30,
	"severe":   25,
	"high":     20,
	"medium":   10,
	"moderate": 8,
	"low":      5,
	"minor":    3,
	"unknown":  5,
}

var farmerHerderKeywords = []string{"farmer", "herder", "herdsmen", "pastoralist", "grazing"}

// Engine joins events with reference data and produces risk signals.
// The surge map is process-local, single-writer state.
type Engine struct {
	econ  *refdata.EconomicTable
	refs  *refdata.Snapshot
	surge *SurgeTracker
}

func NewEngine(econ *refdata.EconomicTable, refs *refdata.Snapshot) *Engine {
	return &Engine{
		econ:  econ,
		refs:  refs,
		surge: NewSurgeTracker(),
	}
}

// Score computes the risk signal for one event. Events with no economic
// row for their state are not scored.
func (e *Engine) Score(event models.ParsedEvent) (models.RiskSignal, error) {
	econ, ok := e.econ.Lookup(event.State, event.LGA)
	if !ok {
		return models.RiskSignal{}, fmt.Errorf("no economic data for %s/%s", event.State, event.LGA)
	}

	sig := models.RiskSignal{
		EventType:   event.EventType,
		State:       event.State,
		LGA:         event.LGA,
		Severity:    event.Severity,
		FuelPrice:      econ.FuelPrice,
		Inflation:      econ.Inflation,
		SourceTitle:    event.SourceTitle,
		SourceURL:      event.SourceURL,
		ConflictDriver: event.ConflictDriver,
		CalculatedAt:   time.Now().UTC(),
	}

	var reasons []string
	score := BaseRiskScore

	// ─── Event type and severity ─────────────────────────────────────
	typeScore, ok := eventTypeScores[event.EventType]
	if !ok {
		typeScore = eventTypeScores["unknown"]
	}
	score += typeScore
	reasons = append(reasons, fmt.Sprintf("%s event reported", event.EventType))

	sevScore, ok := severityModifiers[event.Severity]
	if !ok {
		sevScore = severityModifiers["unknown"]
	}
	score += sevScore
	reasons = append(reasons, fmt.Sprintf("%s severity", event.Severity))

	// ─── Economic stress ─────────────────────────────────────────────
	if econ.Inflation > InflationThreshold {
		score += math.Min((econ.Inflation-InflationThreshold)*2, 20)
		reasons = append(reasons, fmt.Sprintf("High inflation (%g%%)", econ.Inflation))
	}
	if econ.FuelPrice > FuelPriceThreshold {
		score += math.Min((econ.FuelPrice-FuelPriceThreshold)*0.1, 10)
		reasons = append(reasons, fmt.Sprintf("Elevated fuel prices (₦%g/litre)", econ.FuelPrice))
	}
	if event.EventType == "clash" && econ.Inflation > InflationThreshold && score < clashInflationFloor {
		score = clashInflationFloor
		reasons = append(reasons, "Economic hardship igniting communal clash")
	}

	// ─── Climate stress multiplier ───────────────────────────────────
	if climate, ok := e.refs.Climate(event.State, event.LGA); ok {
		sig.FloodInundationIndex = climate.FloodInundationIndex
		sig.PrecipitationAnomaly = climate.PrecipitationAnomaly
		sig.VegetationHealthIndex = climate.VegetationHealthIndex

		if climate.FloodInundationIndex > 20 && isViolentType(event.EventType) {
			score *= 1.5
			reasons = append(reasons, fmt.Sprintf("Flooding-induced displacement (inundation %g%%)", climate.FloodInundationIndex))
		}
	}

	// ─── Strategic state indicators ──────────────────────────────────
	strategic, hasStrategic := e.refs.Strategic(event.State)
	if hasStrategic {
		sig.ClimateVulnerability = strategic.ClimateVulnerability
		sig.MiningDensity = strategic.MiningDensity
		sig.MigrationPressure = strategic.MigrationPressure
		sig.PovertyRate = strategic.PovertyRate

		if strategic.ClimateVulnerability > 0.7 {
			score += 15 * strategic.ClimateVulnerability
			reasons = append(reasons, fmt.Sprintf("High climate vulnerability (%.2f)", strategic.ClimateVulnerability))
		}
	}

	// ─── Mining economy ──────────────────────────────────────────────
	if event.HasCoordinates() {
		if site, dist, ok := e.refs.NearestMiningSite(*event.Latitude, *event.Longitude); ok {
			sig.MiningProximityKM = math.Round(dist*10) / 10
			sig.MiningSiteName = site.SiteName
			sig.InformalTaxationRate = site.InformalTaxationRate

			if dist < 10 {
				score += 15
				sig.HighFundingPotential = true
				reasons = append(reasons, fmt.Sprintf("High Funding Potential: %s mining site %.1fkm away", site.SiteName, dist))
			}
		}
	}
	if hasStrategic && strategic.MiningDensity > 0.6 {
		score += 20 * strategic.MiningDensity
		sig.HighEscalationPotential = true
		reasons = append(reasons, fmt.Sprintf("Dense artisanal mining activity (%.2f)", strategic.MiningDensity))
	}

	// ─── Border / Sahelian corridor ──────────────────────────────────
	if border, ok := e.refs.Border(event.State, event.LGA); ok {
		sig.BorderActivity = border.BorderActivity
		sig.BorderPermeabilityScore = border.BorderPermeabilityScore
		sig.GroupAffiliation = border.GroupAffiliation
		sig.SophisticatedIEDUsage = border.SophisticatedIEDUsage

		stateLower := strings.ToLower(event.State)
		switch {
		case border.BorderActivity == "High" && (stateLower == "sokoto" || stateLower == "kebbi"):
			score += 20
			sig.LakurawaPresence = true
			reasons = append(reasons, fmt.Sprintf("Lakurawa Presence Detected: high border activity in %s", event.State))
		case border.BorderActivity == "Critical":
			score += 15
			reasons = append(reasons, "Critical cross-border activity")
		case border.BorderActivity == "High":
			score += 10
			reasons = append(reasons, "Elevated cross-border activity")
		}
	}

	// ─── Farmer-herder x migration pressure ──────────────────────────
	if hasStrategic && strategic.MigrationPressure > 0.5 && mentionsFarmerHerder(event) {
		score *= 1 + strategic.MigrationPressure
		sig.IsFarmerHerderConflict = true
		reasons = append(reasons, fmt.Sprintf("Farmer-herder tension amplified by migration pressure (%.2f)", strategic.MigrationPressure))
	}

	// ─── Climate-conflict correlation polygons ───────────────────────
	if event.HasCoordinates() {
		if zone, ok := e.refs.ClimateZoneAt(*event.Latitude, *event.Longitude); ok {
			sig.ClimateZoneRegion = zone.Region
			sig.ClimateRecessionIndex = zone.RecessionIndex
			sig.ClimateImpactZone = zone.ImpactZone
			sig.ClimateConflictCorrelation = zone.ConflictCorrelation
			sig.ConflictDriver = "Environmental/Climate"

			switch zone.ImpactZone {
			case "High":
				score += 25
				reasons = append(reasons, fmt.Sprintf("Climate stress zone (High impact): %s", zone.Region))
			case "Medium", "Medium-High":
				score += 15
				reasons = append(reasons, fmt.Sprintf("Climate stress zone (%s impact): %s", zone.ImpactZone, zone.Region))
			}
		}
	}

	// ─── Clamp, band, explain ────────────────────────────────────────
	sig.RiskScore = clampScore(score)
	sig.RiskLevel = models.RiskLevelForScore(sig.RiskScore)

	detected, pct := e.surge.Observe(event.State, event.LGA, sig.RiskScore)
	sig.SurgeDetected = detected
	sig.SurgePercentageIncrease = pct

	sig.TriggerReason = buildTriggerReason(sig, reasons)
	return sig, nil
}

func isViolentType(eventType string) bool {
	return eventType == "clash" || eventType == "conflict" || eventType == "violence"
}

func mentionsFarmerHerder(event models.ParsedEvent) bool {
	text := strings.ToLower(event.SourceTitle + " " + event.EventType)
	for _, word := range farmerHerderKeywords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}

// buildTriggerReason assembles the causal chain: the band, every clause,
// the escalation prefix, and the surge warning in front of everything.
func buildTriggerReason(sig models.RiskSignal, reasons []string) string {
	reason := fmt.Sprintf("%s Risk: %s", sig.RiskLevel, strings.Join(reasons, "; "))
	if sig.HighEscalationPotential {
		reason = "[HIGH ESCALATION POTENTIAL] " + reason
	}
	if sig.SurgeDetected {
		reason = fmt.Sprintf("⚠️ SURGE ALERT: risk up %.1f%% in %s, %s — %s",
			sig.SurgePercentageIncrease, sig.LGA, sig.State, reason)
	}
	return reason
}
