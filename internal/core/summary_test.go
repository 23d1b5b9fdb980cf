package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	for name, v := range map[string]decimal.Decimal{
		"gross": s.TotalGross, "net": s.TotalNet,
		"fuel": s.TotalFuel, "food": s.TotalFood, "maintenance": s.TotalMaintenance,
		"spentFuel": s.TotalSpentFuel, "spentFood": s.TotalSpentFood,
		"spentMaintenance": s.TotalSpentMaintenance, "fees": s.TotalFees,
	} {
		if !v.IsZero() {
			t.Fatalf("%s: expected zero, got %s", name, v)
		}
	}
	if s.TotalKm != 0 {
		t.Fatalf("expected zero km, got %v", s.TotalKm)
	}
}

func TestSummarizeSingletonRoundTrip(t *testing.T) {
	e, err := ComputeIncomeEntry(IncomeParams{
		ID: "x", Date: NewDate(2025, 1, 6), Gross: decimal.NewFromInt(100), Payment: PaymentCash,
	}, testConfig())
	if err != nil {
		t.Fatalf("income: %v", err)
	}
	s := Summarize([]Entry{e})
	if !s.TotalGross.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("gross: got %s", s.TotalGross)
	}
	if !s.TotalFuel.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("fuel: got %s", s.TotalFuel)
	}
	if !s.TotalNet.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("net: got %s", s.TotalNet)
	}
	if !s.TotalFees.IsZero() {
		t.Fatalf("cash entry must accrue no fee, got %s", s.TotalFees)
	}
}

func TestSummarizeSplitsReservedAndSpent(t *testing.T) {
	income, _ := ComputeIncomeEntry(IncomeParams{
		ID: "i", Date: NewDate(2025, 1, 6), Gross: decimal.NewFromInt(200), Payment: PaymentDebit,
	}, testConfig())
	expense, _ := ComputeExpenseEntry(ExpenseParams{
		ID: "g", Date: NewDate(2025, 1, 6), Amount: decimal.NewFromInt(50), Category: CategoryFuel,
	})

	s := Summarize([]Entry{income, expense})
	if !s.TotalFuel.Equal(decimal.NewFromInt(28)) {
		t.Fatalf("reserved fuel: got %s", s.TotalFuel)
	}
	if !s.TotalSpentFuel.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("spent fuel: got %s", s.TotalSpentFuel)
	}
	// 200 * 0.0199
	if !s.TotalFees.Equal(decimal.RequireFromString("3.98")) {
		t.Fatalf("fees: got %s", s.TotalFees)
	}
}

func TestSummarizeAdditivity(t *testing.T) {
	cfg := testConfig()
	var a, b []Entry
	for i, gross := range []int64{6, 7, 15, 42} {
		e, err := ComputeIncomeEntry(IncomeParams{
			ID: "i", Date: NewDate(2025, 1, 6+i), Gross: decimal.NewFromInt(gross), Payment: PaymentPix,
		}, cfg)
		if err != nil {
			t.Fatalf("income: %v", err)
		}
		if i%2 == 0 {
			a = append(a, e)
		} else {
			b = append(b, e)
		}
	}
	exp, _ := ComputeExpenseEntry(ExpenseParams{
		ID: "g", Date: NewDate(2025, 1, 8), Amount: decimal.NewFromInt(30), Category: CategoryFood,
	})
	b = append(b, exp)
	odo, _, _ := ComputeOdometerEntry("k", 90, NewDate(2025, 1, 9), "20:00", decimal.Zero, decimal.Zero)
	a = append(a, odo)

	sa, sb := Summarize(a), Summarize(b)
	combined := Summarize(append(append([]Entry{}, a...), b...))

	checks := []struct {
		name       string
		left, want decimal.Decimal
	}{
		{"gross", sa.TotalGross.Add(sb.TotalGross), combined.TotalGross},
		{"net", sa.TotalNet.Add(sb.TotalNet), combined.TotalNet},
		{"fuel", sa.TotalFuel.Add(sb.TotalFuel), combined.TotalFuel},
		{"food", sa.TotalFood.Add(sb.TotalFood), combined.TotalFood},
		{"spentFood", sa.TotalSpentFood.Add(sb.TotalSpentFood), combined.TotalSpentFood},
		{"fees", sa.TotalFees.Add(sb.TotalFees), combined.TotalFees},
	}
	for _, c := range checks {
		if !c.left.Equal(c.want) {
			t.Fatalf("%s not additive: %s vs %s", c.name, c.left, c.want)
		}
	}
	if sa.TotalKm+sb.TotalKm != combined.TotalKm {
		t.Fatalf("km not additive")
	}
}
