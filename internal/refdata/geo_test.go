package refdata

import (
	"math"
	"testing"
)

func TestHaversineKM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 9.0765, 7.3986, 9.0765, 7.3986, 0, 0.001},
		// Lagos to Abuja, roughly 536 km
		{"lagos to abuja", 6.5244, 3.3792, 9.0765, 7.3986, 536, 10},
		// Sokoto to Gusau, roughly 180 km
		{"sokoto to gusau", 13.0622, 5.2339, 12.1704, 6.6594, 180, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKM() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKM(6.5244, 3.3792, 9.0765, 7.3986)
	b := HaversineKM(9.0765, 7.3986, 6.5244, 3.3792)
	if math.Abs(a-b) > 0.0001 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestClimateZoneContains(t *testing.T) {
	// Square around the Lake Chad basin, vertices as (lat, lon).
	zone := NewTestZone("Lake Chad Basin", "High", 0.85, [][2]float64{
		{11.0, 12.5}, {13.0, 12.5}, {13.0, 14.5}, {11.0, 14.5}, {11.0, 12.5},
	})

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"center", 12.0, 13.5, true},
		{"near maiduguri", 11.83, 13.15, true},
		{"west of zone", 12.0, 11.0, false},
		{"south of zone", 9.0, 13.5, false},
		{"far away", 6.52, 3.38, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zone.Contains(tt.lat, tt.lon); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestNearestMiningSite(t *testing.T) {
	snap := NewSnapshot(nil, nil, []MiningSite{
		{SiteName: "Anka Gold Field", Latitude: 12.17, Longitude: 6.66},
		{SiteName: "Maru Tin Mine", Latitude: 12.33, Longitude: 6.20},
	}, nil, nil)

	site, dist, ok := snap.NearestMiningSite(12.18, 6.67)
	if !ok {
		t.Fatal("expected a nearest site")
	}
	if site.SiteName != "Anka Gold Field" {
		t.Errorf("nearest = %q, want Anka Gold Field", site.SiteName)
	}
	if dist > 5 {
		t.Errorf("distance = %v km, want < 5", dist)
	}

	empty := NewSnapshot(nil, nil, nil, nil, nil)
	if _, _, ok := empty.NearestMiningSite(12.18, 6.67); ok {
		t.Error("empty snapshot should report no site")
	}
}
