package refdata

import (
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func TestEconomicTableLookup(t *testing.T) {
	table := NewEconomicTable([]models.EconomicRow{
		{State: "Lagos", LGA: "Ikeja", FuelPrice: 700, Inflation: 22},
		{State: "Lagos", LGA: "Epe", FuelPrice: 680, Inflation: 21},
		{State: "Zamfara", LGA: "Anka", FuelPrice: 620, Inflation: 19},
	})

	t.Run("exact match", func(t *testing.T) {
		row, ok := table.Lookup("Lagos", "Epe")
		if !ok {
			t.Fatal("expected a match")
		}
		if row.FuelPrice != 680 {
			t.Errorf("fuel price = %v, want 680", row.FuelPrice)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		row, ok := table.Lookup("lagos", "IKEJA")
		if !ok {
			t.Fatal("expected a match")
		}
		if row.FuelPrice != 700 {
			t.Errorf("fuel price = %v, want 700", row.FuelPrice)
		}
	})

	t.Run("state fallback uses first row", func(t *testing.T) {
		row, ok := table.Lookup("Lagos", "Badagry")
		if !ok {
			t.Fatal("expected the state fallback row")
		}
		if row.LGA != "Ikeja" {
			t.Errorf("fallback row = %q, want the first Lagos row", row.LGA)
		}
	})

	t.Run("unknown state misses", func(t *testing.T) {
		if _, ok := table.Lookup("Katsina", "Daura"); ok {
			t.Error("expected no match for a state with no rows")
		}
	})
}

func TestIsUrbanLGA(t *testing.T) {
	tests := []struct {
		lga  string
		want bool
	}{
		{"Ikeja", true},
		{"ikeja", true},
		{"  Kano Municipal  ", true},
		{"Anka", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsUrbanLGA(tt.lga); got != tt.want {
			t.Errorf("IsUrbanLGA(%q) = %v, want %v", tt.lga, got, tt.want)
		}
	}
}
