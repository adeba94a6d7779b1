package models

// EconomicRow is one row of the macro-economic reference table. Lookups
// match (state, lga) case-insensitively and fall back to the first row
// of the state when the LGA is absent.
type EconomicRow struct {
	State     string  `json:"state"`
	LGA       string  `json:"lga"`
	FuelPrice float64 `json:"fuel_price"`
	Inflation float64 `json:"inflation"`
}
