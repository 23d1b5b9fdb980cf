package core

import "github.com/shopspring/decimal"

// WeeklySummary is a pure aggregate over an entry collection. Despite the
// name it serves any window the caller filtered to: a day, an ISO week, a
// month, a custom range, or the full history.
type WeeklySummary struct {
	TotalGross            decimal.Decimal `json:"totalGross"`
	TotalNet              decimal.Decimal `json:"totalNet"`
	TotalFuel             decimal.Decimal `json:"totalFuel"`
	TotalFood             decimal.Decimal `json:"totalFood"`
	TotalMaintenance      decimal.Decimal `json:"totalMaintenance"`
	TotalSpentFuel        decimal.Decimal `json:"totalSpentFuel"`
	TotalSpentFood        decimal.Decimal `json:"totalSpentFood"`
	TotalSpentMaintenance decimal.Decimal `json:"totalSpentMaintenance"`
	TotalFees             decimal.Decimal `json:"totalFees"`
	TotalKm               float64         `json:"totalKm,omitempty"`
}

// Summarize reduces a collection of entries into totals. Order-independent
// single pass: income entries contribute gross, net, reserves and fee;
// expense-like entries contribute their one spent amount. An empty
// collection yields the zero summary.
func Summarize(entries []Entry) WeeklySummary {
	s := WeeklySummary{
		TotalGross:            decimal.Zero,
		TotalNet:              decimal.Zero,
		TotalFuel:             decimal.Zero,
		TotalFood:             decimal.Zero,
		TotalMaintenance:      decimal.Zero,
		TotalSpentFuel:        decimal.Zero,
		TotalSpentFood:        decimal.Zero,
		TotalSpentMaintenance: decimal.Zero,
		TotalFees:             decimal.Zero,
	}
	for _, e := range entries {
		if e.GrossAmount.IsPositive() {
			s.TotalGross = s.TotalGross.Add(e.GrossAmount)
			s.TotalNet = s.TotalNet.Add(e.NetAmount)
			s.TotalFuel = s.TotalFuel.Add(e.Fuel)
			s.TotalFood = s.TotalFood.Add(e.Food)
			s.TotalMaintenance = s.TotalMaintenance.Add(e.Maintenance)
			fee := e.GrossAmount.Sub(e.NetAmount).Sub(e.Fuel).Sub(e.Food).Sub(e.Maintenance)
			if fee.IsPositive() {
				s.TotalFees = s.TotalFees.Add(fee)
			}
		} else {
			s.TotalSpentFuel = s.TotalSpentFuel.Add(e.Fuel)
			s.TotalSpentFood = s.TotalSpentFood.Add(e.Food)
			s.TotalSpentMaintenance = s.TotalSpentMaintenance.Add(e.Maintenance)
		}
		s.TotalKm += e.KmDriven
	}
	return s
}
