package core

import "github.com/shopspring/decimal"

// FuelMetrics are lifetime figures over the full entry history. Callers
// wanting a windowed metric pre-filter the collection.
type FuelMetrics struct {
	CostPerKm       decimal.Decimal `json:"costPerKm"`
	CostPerDelivery decimal.Decimal `json:"costPerDelivery"`
}

// ComputeFuelMetrics derives cost-per-km and cost-per-delivery. The cost
// basis is the accumulated fuel-category amount across every entry (both
// reserved on income and spent on expenses); distance is the sum of
// odometer-closing deltas. Both metrics are zero when their denominator is.
func ComputeFuelMetrics(entries []Entry) FuelMetrics {
	fuelTotal := decimal.Zero
	totalKm := 0.0
	deliveries := 0
	for _, e := range entries {
		fuelTotal = fuelTotal.Add(e.Fuel)
		totalKm += e.KmDriven
		if e.GrossAmount.IsPositive() {
			deliveries++
		}
	}

	m := FuelMetrics{CostPerKm: decimal.Zero, CostPerDelivery: decimal.Zero}
	if totalKm > 0 {
		m.CostPerKm = fuelTotal.Div(decimal.NewFromFloat(totalKm))
	}
	if deliveries > 0 {
		m.CostPerDelivery = fuelTotal.Div(decimal.NewFromInt(int64(deliveries)))
	}
	return m
}
