package models

import "time"

// Risk levels derived from the score bands: >=80 Critical, >=60 High,
// >=40 Medium, >=20 Low, else Minimal.
const (
	RiskCritical = "Critical"
	RiskHigh     = "High"
	RiskMedium   = "Medium"
	RiskLow      = "Low"
	RiskMinimal  = "Minimal"
)

// RiskSignal is the scored, explained output of the risk engine. Identity
// is source_url: re-scoring the same event replaces the previous signal.
type RiskSignal struct {
	EventType   string  `json:"event_type"`
	State       string  `json:"state"`
	LGA         string  `json:"lga"`
	Severity    string  `json:"severity"`
	FuelPrice   float64 `json:"fuel_price"`
	Inflation   float64 `json:"inflation"`
	RiskScore   float64 `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	SourceTitle string  `json:"source_title"`
	SourceURL   string  `json:"source_url"`

	// TriggerReason is the human-readable causal chain. Every bonus or
	// multiplier that touched the score contributes one clause.
	TriggerReason string `json:"trigger_reason"`

	// Climate indicators
	FloodInundationIndex  float64 `json:"flood_inundation_index,omitempty"`
	PrecipitationAnomaly  float64 `json:"precipitation_anomaly,omitempty"`
	VegetationHealthIndex float64 `json:"vegetation_health_index,omitempty"`

	// Mining indicators
	MiningProximityKM    float64 `json:"mining_proximity_km,omitempty"`
	MiningSiteName       string  `json:"mining_site_name,omitempty"`
	HighFundingPotential bool    `json:"high_funding_potential"`
	InformalTaxationRate float64 `json:"informal_taxation_rate,omitempty"`

	// Border / Sahelian corridor indicators
	BorderActivity          string  `json:"border_activity,omitempty"`
	LakurawaPresence        bool    `json:"lakurawa_presence"`
	BorderPermeabilityScore float64 `json:"border_permeability_score,omitempty"`
	GroupAffiliation        string  `json:"group_affiliation,omitempty"`
	SophisticatedIEDUsage   bool    `json:"sophisticated_ied_usage"`

	// Strategic state-level indicators
	ClimateVulnerability    float64 `json:"climate_vulnerability,omitempty"`
	MiningDensity           float64 `json:"mining_density,omitempty"`
	MigrationPressure       float64 `json:"migration_pressure,omitempty"`
	PovertyRate             float64 `json:"poverty_rate,omitempty"`
	HighEscalationPotential bool    `json:"high_escalation_potential"`
	IsFarmerHerderConflict  bool    `json:"is_farmer_herder_conflict"`

	// Surge detection
	SurgeDetected           bool    `json:"surge_detected"`
	SurgePercentageIncrease float64 `json:"surge_percentage_increase,omitempty"`

	// Climate stress zone attribution
	ClimateZoneRegion         string  `json:"climate_zone_region,omitempty"`
	ClimateRecessionIndex     float64 `json:"climate_recession_index,omitempty"`
	ClimateImpactZone         string  `json:"climate_impact_zone,omitempty"`
	ClimateConflictCorrelation float64 `json:"climate_conflict_correlation,omitempty"`
	ConflictDriver             string  `json:"conflict_driver,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// RiskLevelForScore maps a clamped score onto its band.
func RiskLevelForScore(score float64) string {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	case score >= 20:
		return RiskLow
	default:
		return RiskMinimal
	}
}
