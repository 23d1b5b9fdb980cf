package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeFuelMetricsGuards(t *testing.T) {
	m := ComputeFuelMetrics(nil)
	if !m.CostPerKm.IsZero() || !m.CostPerDelivery.IsZero() {
		t.Fatalf("empty history must yield zeros: %+v", m)
	}

	// fuel reserved but no km and no deliveries to divide by
	exp, _ := ComputeExpenseEntry(ExpenseParams{
		ID: "g", Date: NewDate(2025, 1, 6), Amount: decimal.NewFromInt(40), Category: CategoryFuel,
	})
	m = ComputeFuelMetrics([]Entry{exp})
	if !m.CostPerKm.IsZero() {
		t.Fatalf("no km driven must yield zero cost/km, got %s", m.CostPerKm)
	}
	if !m.CostPerDelivery.IsZero() {
		t.Fatalf("no deliveries must yield zero cost/delivery, got %s", m.CostPerDelivery)
	}
}

func TestComputeFuelMetrics(t *testing.T) {
	income, err := ComputeIncomeEntry(IncomeParams{
		ID: "i", Date: NewDate(2025, 1, 6), Gross: decimal.NewFromInt(100), Payment: PaymentCash,
	}, testConfig())
	if err != nil {
		t.Fatalf("income: %v", err)
	}
	odo1, _, _ := ComputeOdometerEntry("k1", 100, NewDate(2025, 1, 6), "21:00", decimal.Zero, decimal.Zero)
	odo2, _, _ := ComputeOdometerEntry("k2", 50, NewDate(2025, 1, 7), "21:00", decimal.Zero, decimal.Zero)

	m := ComputeFuelMetrics([]Entry{income, odo1, odo2})

	// 14 reserved over 150 km
	want := decimal.NewFromInt(14).Div(decimal.NewFromInt(150))
	if !m.CostPerKm.Equal(want) {
		t.Fatalf("cost/km: expected %s, got %s", want, m.CostPerKm)
	}
	if !m.CostPerDelivery.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("cost/delivery: expected 14, got %s", m.CostPerDelivery)
	}
}
