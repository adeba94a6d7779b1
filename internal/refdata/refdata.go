package refdata

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Reference datasets are bulk-loaded at startup and immutable at runtime.
// A missing file degrades to an empty dataset with a warning; the risk
// engine simply scores without that dimension.

// ClimateRecord is one row of the per-location climate table.
type ClimateRecord struct {
	State                 string  `json:"state"`
	LGA                   string  `json:"lga"`
	FloodInundationIndex  float64 `json:"flood_inundation_index"`
	PrecipitationAnomaly  float64 `json:"precipitation_anomaly"`
	VegetationHealthIndex float64 `json:"vegetation_health_index"`
}

// MiningSite is a point-of-interest with its informal economy attributes.
type MiningSite struct {
	SiteName             string  `json:"site_name"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	InformalTaxationRate float64 `json:"informal_taxation_rate"`
}

// BorderSignal captures cross-border activity intelligence per location.
type BorderSignal struct {
	State                     string  `json:"state"`
	LGA                       string  `json:"lga"`
	BorderActivity            string  `json:"border_activity"` // Low / High / Critical
	LakurawaPresenceConfirmed bool    `json:"lakurawa_presence_confirmed"`
	BorderPermeabilityScore   float64 `json:"border_permeability_score"`
	GroupAffiliation          string  `json:"group_affiliation"`
	SophisticatedIEDUsage     bool    `json:"sophisticated_ied_usage"`
}

// StrategicIndicators are the state-level structural measures.
type StrategicIndicators struct {
	State                string  `json:"state"`
	PovertyRate          float64 `json:"poverty_rate"`
	UnemploymentRate     float64 `json:"unemployment_rate"`
	MigrationPressure    float64 `json:"migration_pressure"`
	MiningDensity        float64 `json:"mining_density"`
	ClimateVulnerability float64 `json:"climate_vulnerability"`
}

// ClimateZone is one climate stress polygon from the GeoJSON overlay.
type ClimateZone struct {
	Region              string
	Indicator           string
	RecessionIndex      float64
	ImpactZone          string // High / Medium-High / Medium / Low
	ConflictCorrelation float64
	rings               [][][2]float64 // outer ring per polygon
}

// Contains tests the point against each polygon's first ring.
func (z *ClimateZone) Contains(lat, lon float64) bool {
	for _, ring := range z.rings {
		if pointInRing(lat, lon, ring) {
			return true
		}
	}
	return false
}

// Snapshot bundles every reference dataset behind lookup methods. Built
// once at startup and shared read-only with the risk engine.
type Snapshot struct {
	climate   map[string]ClimateRecord // "state|lga"
	zones     []ClimateZone
	mining    []MiningSite
	border    map[string]BorderSignal // "state|lga"
	strategic map[string]StrategicIndicators
}

func locKey(state, lga string) string {
	return state + "|" + lga
}

// Load reads every reference file under dir. Missing files are warnings,
// not errors: the pipeline runs with whatever context is available.
func Load(dir string) *Snapshot {
	snap := &Snapshot{
		climate:   make(map[string]ClimateRecord),
		border:    make(map[string]BorderSignal),
		strategic: make(map[string]StrategicIndicators),
	}

	var climateRows []ClimateRecord
	if err := readJSON(filepath.Join(dir, "climate_data.json"), &climateRows); err != nil {
		log.Printf("[RefData] Warning: climate table unavailable: %v", err)
	}
	for _, row := range climateRows {
		snap.climate[locKey(row.State, row.LGA)] = row
	}

	zones, err := loadClimateZones(filepath.Join(dir, "climate_indicators.geojson"))
	if err != nil {
		log.Printf("[RefData] Warning: climate stress polygons unavailable: %v", err)
	}
	snap.zones = zones

	if err := readJSON(filepath.Join(dir, "mining_activity.json"), &snap.mining); err != nil {
		log.Printf("[RefData] Warning: mining sites unavailable: %v", err)
	}

	var borderRows []BorderSignal
	if err := readJSON(filepath.Join(dir, "border_signals.json"), &borderRows); err != nil {
		log.Printf("[RefData] Warning: border signals unavailable: %v", err)
	}
	for _, row := range borderRows {
		snap.border[locKey(row.State, row.LGA)] = row
	}

	strategic, err := loadStrategicCSV(filepath.Join(dir, "nigeria_econ_indicators.csv"))
	if err != nil {
		log.Printf("[RefData] Warning: strategic indicators unavailable: %v", err)
	}
	for _, row := range strategic {
		snap.strategic[strings.ToLower(row.State)] = row
	}

	log.Printf("[RefData] Loaded %d climate rows, %d stress polygons, %d mining sites, %d border rows, %d strategic rows",
		len(snap.climate), len(snap.zones), len(snap.mining), len(snap.border), len(snap.strategic))
	return snap
}

// NewSnapshot assembles a snapshot from in-memory datasets. Used by tests
// and by deployments that inject reference data from elsewhere.
func NewSnapshot(climate []ClimateRecord, zones []ClimateZone, mining []MiningSite,
	border []BorderSignal, strategic []StrategicIndicators) *Snapshot {

	snap := &Snapshot{
		climate:   make(map[string]ClimateRecord),
		zones:     zones,
		mining:    mining,
		border:    make(map[string]BorderSignal),
		strategic: make(map[string]StrategicIndicators),
	}
	for _, row := range climate {
		snap.climate[locKey(row.State, row.LGA)] = row
	}
	for _, row := range border {
		snap.border[locKey(row.State, row.LGA)] = row
	}
	for _, row := range strategic {
		snap.strategic[strings.ToLower(row.State)] = row
	}
	return snap
}

// Climate returns the climate row for an exact (state, lga) match.
func (s *Snapshot) Climate(state, lga string) (ClimateRecord, bool) {
	rec, ok := s.climate[locKey(state, lga)]
	return rec, ok
}

// Border returns the border signal for an exact (state, lga) match.
func (s *Snapshot) Border(state, lga string) (BorderSignal, bool) {
	rec, ok := s.border[locKey(state, lga)]
	return rec, ok
}

// Strategic matches the state case-insensitively.
func (s *Snapshot) Strategic(state string) (StrategicIndicators, bool) {
	rec, ok := s.strategic[strings.ToLower(state)]
	return rec, ok
}

// NearestMiningSite returns the closest site to the point by Haversine
// distance, with the distance in km attached.
func (s *Snapshot) NearestMiningSite(lat, lon float64) (MiningSite, float64, bool) {
	if len(s.mining) == 0 {
		return MiningSite{}, 0, false
	}
	best := s.mining[0]
	bestDist := HaversineKM(lat, lon, best.Latitude, best.Longitude)
	for _, site := range s.mining[1:] {
		d := HaversineKM(lat, lon, site.Latitude, site.Longitude)
		if d < bestDist {
			best, bestDist = site, d
		}
	}
	return best, bestDist, true
}

// ClimateZoneAt returns the first stress polygon containing the point.
func (s *Snapshot) ClimateZoneAt(lat, lon float64) (ClimateZone, bool) {
	for _, zone := range s.zones {
		if zone.Contains(lat, lon) {
			return zone, true
		}
	}
	return ClimateZone{}, false
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed %s: %v", filepath.Base(path), err)
	}
	return nil
}

// geojsonDoc mirrors just enough of the GeoJSON structure to pull out
// polygon outer rings and their stress attributes.
type geojsonDoc struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Region              string  `json:"region"`
			Indicator           string  `json:"indicator"`
			RecessionIndex      float64 `json:"recession_index"`
			ImpactZone          string  `json:"impact_zone"`
			ConflictCorrelation float64 `json:"conflict_correlation"`
		} `json:"properties"`
	} `json:"features"`
}

func loadClimateZones(path string) ([]ClimateZone, error) {
	var doc geojsonDoc
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}

	zones := make([]ClimateZone, 0, len(doc.Features))
	for _, f := range doc.Features {
		zone := ClimateZone{
			Region:              f.Properties.Region,
			Indicator:           f.Properties.Indicator,
			RecessionIndex:      f.Properties.RecessionIndex,
			ImpactZone:          f.Properties.ImpactZone,
			ConflictCorrelation: f.Properties.ConflictCorrelation,
		}

		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				continue
			}
			if len(rings) > 0 {
				zone.rings = append(zone.rings, rings[0])
			}
		case "MultiPolygon":
			var polys [][][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
				continue
			}
			for _, rings := range polys {
				if len(rings) > 0 {
					zone.rings = append(zone.rings, rings[0])
				}
			}
		default:
			continue
		}

		if len(zone.rings) > 0 {
			zones = append(zones, zone)
		}
	}
	return zones, nil
}

// NewTestZone builds a zone from a single outer ring of (lat, lon) pairs.
func NewTestZone(region, impactZone string, correlation float64, latLonRing [][2]float64) ClimateZone {
	ring := make([][2]float64, len(latLonRing))
	for i, p := range latLonRing {
		ring[i] = [2]float64{p[1], p[0]} // store GeoJSON order [lon, lat]
	}
	return ClimateZone{
		Region:              region,
		ImpactZone:          impactZone,
		ConflictCorrelation: correlation,
		rings:               [][][2]float64{ring},
	}
}
