package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// EconomicTable is the in-memory macro-economic lookup. Matching is
// case-insensitive on (state, lga); when the LGA has no row, the first
// row of the state stands in.
type EconomicTable struct {
	rows    []models.EconomicRow
	byExact map[string]models.EconomicRow
	byState map[string]models.EconomicRow
}

func NewEconomicTable(rows []models.EconomicRow) *EconomicTable {
	t := &EconomicTable{
		rows:    rows,
		byExact: make(map[string]models.EconomicRow, len(rows)),
		byState: make(map[string]models.EconomicRow),
	}
	for _, row := range rows {
		state := strings.ToLower(strings.TrimSpace(row.State))
		lga := strings.ToLower(strings.TrimSpace(row.LGA))
		t.byExact[state+"|"+lga] = row
		if _, seen := t.byState[state]; !seen {
			t.byState[state] = row
		}
	}
	return t
}

// Lookup resolves the economic row for an event location. The boolean is
// false when neither the LGA nor the state has data; such events are not
// scored.
func (t *EconomicTable) Lookup(state, lga string) (models.EconomicRow, bool) {
	stateKey := strings.ToLower(strings.TrimSpace(state))
	lgaKey := strings.ToLower(strings.TrimSpace(lga))

	if row, ok := t.byExact[stateKey+"|"+lgaKey]; ok {
		return row, true
	}
	row, ok := t.byState[stateKey]
	return row, ok
}

// Len reports the number of loaded rows.
func (t *EconomicTable) Len() int {
	return len(t.rows)
}

// Rows exposes the raw table for the store bootstrap.
func (t *EconomicTable) Rows() []models.EconomicRow {
	return t.rows
}

// LoadEconomicCSV parses nigeria_econ.csv: State, LGA, Fuel_Price, Inflation.
func LoadEconomicCSV(path string) ([]models.EconomicRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	rows := make([]models.EconomicRow, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 4 {
			continue // header or short row
		}
		fuel, err1 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		infl, err2 := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		rows = append(rows, models.EconomicRow{
			State:     strings.TrimSpace(rec[0]),
			LGA:       strings.TrimSpace(rec[1]),
			FuelPrice: fuel,
			Inflation: infl,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no economic rows parsed from %s", path)
	}
	return rows, nil
}

// loadStrategicCSV parses nigeria_econ_indicators.csv:
// State, Poverty_Rate, Unemployment_Rate, Migration_Pressure,
// Mining_Density, Climate_Vulnerability.
func loadStrategicCSV(path string) ([]StrategicIndicators, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	rows := make([]StrategicIndicators, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 6 {
			continue
		}
		rows = append(rows, StrategicIndicators{
			State:                strings.TrimSpace(rec[0]),
			PovertyRate:          parseFloatOrZero(rec[1]),
			UnemploymentRate:     parseFloatOrZero(rec[2]),
			MigrationPressure:    parseFloatOrZero(rec[3]),
			MiningDensity:        parseFloatOrZero(rec[4]),
			ClimateVulnerability: parseFloatOrZero(rec[5]),
		})
	}
	return rows, nil
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
