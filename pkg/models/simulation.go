package models

// SimulationParameters are the three macro sliders driving the what-if
// risk surface. Each value is expected in [0,100].
type SimulationParameters struct {
	FuelPriceIndex   float64 `json:"fuel_price_index"`
	InflationRate    float64 `json:"inflation_rate"`
	ChatterIntensity float64 `json:"chatter_intensity"`
}

// Clamp forces every slider into [0,100].
func (p *SimulationParameters) Clamp() {
	p.FuelPriceIndex = clamp01x100(p.FuelPriceIndex)
	p.InflationRate = clamp01x100(p.InflationRate)
	p.ChatterIntensity = clamp01x100(p.ChatterIntensity)
}

func clamp01x100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// GeoJSON encoding of the simulated risk surface.

type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   PointGeometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// SimulatedCategory is the per-category rollup the dashboard renders in
// the simulation legend.
type SimulatedCategory struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

type SimulationMetadata struct {
	TotalEvents         int                 `json:"total_events"`
	CriticalCount       int                 `json:"critical_count"`
	HighCount           int                 `json:"high_count"`
	MediumCount         int                 `json:"medium_count"`
	LowCount            int                 `json:"low_count"`
	SimulatedCategories []SimulatedCategory `json:"simulated_categories"`
	Timestamp           string              `json:"timestamp"`
	SimulationActive    bool                `json:"simulation_active"`
}

type FeatureCollection struct {
	Type             string               `json:"type"`
	Features         []Feature            `json:"features"`
	Metadata         SimulationMetadata   `json:"metadata"`
	SimulationParams SimulationParameters `json:"simulation_params"`
}

// NewPoint builds a GeoJSON point feature. GeoJSON orders coordinates
// longitude first.
func NewPoint(lat, lon float64, props map[string]any) Feature {
	return Feature{
		Type: "Feature",
		Geometry: PointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{lon, lat},
		},
		Properties: props,
	}
}
