package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sahelwatch/sentinel-engine/internal/refdata"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// What-if simulator: re-scores the live event set under three macro
// sliders instead of the recorded economic rows, and renders the result
// as a GeoJSON risk surface for the map layer.

const urbanFuelThreshold = 80.0

// simulatedCategoryBands is the legend rollup: each risk band maps
// onto the conflict category it most resembles under stress.
var simulatedCategoryBands = []struct {
	level      string
	category   string
	confidence float64
}{
	{models.RiskCritical, models.CategoryBanditry, 94},
	{models.RiskHigh, models.CategoryKidnapping, 87},
	{models.RiskMedium, models.CategoryGunmen, 91},
	{models.RiskLow, models.CategoryFarmerHerder, 89},
}

// Simulate re-scores every located event under the slider inputs. Events
// without coordinates cannot be placed on the map and are skipped.
func Simulate(events []models.ParsedEvent, params models.SimulationParameters) models.FeatureCollection {
	params.Clamp()

	features := make([]models.Feature, 0, len(events))
	bandCounts := map[string]int{}

	for _, event := range events {
		if !event.HasCoordinates() {
			continue
		}

		score, reasons := simulateScore(event, params)
		level := models.RiskLevelForScore(score)
		bandCounts[level]++

		radius := 5 + params.ChatterIntensity/100*45
		weight := math.Min(1, score/100*(1+params.ChatterIntensity/100))

		features = append(features, models.NewPoint(*event.Latitude, *event.Longitude, map[string]any{
			"event_type":        event.EventType,
			"state":             event.State,
			"lga":               event.LGA,
			"severity":          event.Severity,
			"risk_score":        score,
			"risk_level":        level,
			"trigger_reason":    fmt.Sprintf("%s Risk: %s", level, strings.Join(reasons, "; ")),
			"heatmap_radius_km": math.Round(radius*10) / 10,
			"heatmap_weight":    weight,
			"source_title":      event.SourceTitle,
			"source_url":        event.SourceURL,
		}))
	}

	categories := make([]models.SimulatedCategory, 0, len(simulatedCategoryBands))
	for _, band := range simulatedCategoryBands {
		categories = append(categories, models.SimulatedCategory{
			Category:   band.category,
			Count:      bandCounts[band.level],
			Confidence: band.confidence,
		})
	}

	return models.FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Metadata: models.SimulationMetadata{
			TotalEvents:         len(features),
			CriticalCount:       bandCounts[models.RiskCritical],
			HighCount:           bandCounts[models.RiskHigh],
			MediumCount:         bandCounts[models.RiskMedium],
			LowCount:            bandCounts[models.RiskLow],
			SimulatedCategories: categories,
			Timestamp:           time.Now().UTC().Format(time.RFC3339),
			SimulationActive:    true,
		},
		SimulationParams: params,
	}
}

// simulateScore follows the live scoring skeleton but substitutes the
// slider inputs for the recorded economic rows.
func simulateScore(event models.ParsedEvent, params models.SimulationParameters) (float64, []string) {
	var reasons []string
	score := BaseRiskScore

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

	if params.InflationRate > InflationThreshold {
		score += math.Min((params.InflationRate-InflationThreshold)*2, 20)
		reasons = append(reasons, fmt.Sprintf("Simulated inflation (%g%%)", params.InflationRate))
	}

	if params.FuelPriceIndex > 0 {
		score += params.FuelPriceIndex / 100 * 20
		if params.FuelPriceIndex > 50 {
			reasons = append(reasons, fmt.Sprintf("Fuel price pressure (index %g)", params.FuelPriceIndex))
		}
	}

	if params.FuelPriceIndex > urbanFuelThreshold && refdata.IsUrbanLGA(event.LGA) {
		score *= 1.5
		reasons = append(reasons, fmt.Sprintf("Urban economic igniter: fuel stress in %s", event.LGA))
	}

	return clampScore(score), reasons
}
