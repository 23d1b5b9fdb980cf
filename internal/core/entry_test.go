package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestInferKind(t *testing.T) {
	cases := []struct {
		name string
		e    Entry
		want Kind
	}{
		{"income", Entry{GrossAmount: decimal.NewFromInt(50)}, KindIncome},
		{"odometer", Entry{KmDriven: 120}, KindOdometer},
		{"fuel expense", Entry{Fuel: decimal.NewFromInt(40)}, KindExpense},
		{"food expense", Entry{Food: decimal.NewFromInt(20)}, KindExpense},
		{"service with cost", Entry{Maintenance: decimal.NewFromInt(150), KmAtMaintenance: 45000}, KindService},
		{"service without cost", Entry{KmAtMaintenance: 45000}, KindService},
		{"blank", Entry{}, Kind("")},
	}
	for _, tc := range cases {
		if got := InferKind(tc.e); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestEntryCategory(t *testing.T) {
	e := Entry{Fuel: decimal.NewFromInt(30)}
	if got := EntryCategory(e); got != CategoryFuel {
		t.Fatalf("expected inferred fuel, got %q", got)
	}
	e.Category = CategoryFood // explicit override wins
	if got := EntryCategory(e); got != CategoryFood {
		t.Fatalf("expected override, got %q", got)
	}
	if got := EntryCategory(Entry{GrossAmount: decimal.NewFromInt(9)}); got != CategoryIncome {
		t.Fatalf("expected income, got %q", got)
	}
}

func TestEntryValidateAmbiguity(t *testing.T) {
	good := Entry{ID: "a", Date: NewDate(2025, 1, 1), Fuel: decimal.NewFromInt(10)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Entry{
		{ID: "", Date: NewDate(2025, 1, 1)},
		{ID: "a", Date: Date{}},
		{ID: "a", Date: NewDate(2025, 1, 1), Fuel: decimal.NewFromInt(10), Food: decimal.NewFromInt(5)},
		{ID: "a", Date: NewDate(2025, 1, 1), Fuel: decimal.NewFromInt(10), KmDriven: 50},
		{ID: "a", Date: NewDate(2025, 1, 1), PaymentMethod: "cheque"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	// income entries legitimately carry all three reserve amounts
	income, _ := ComputeIncomeEntry(IncomeParams{
		ID: "i", Date: NewDate(2025, 1, 1), Gross: decimal.NewFromInt(100), Payment: PaymentCash,
	}, testConfig())
	if err := income.Validate(); err != nil {
		t.Fatalf("income entry: %v", err)
	}
}

func TestEntryJSONRoundTrip(t *testing.T) {
	in, _ := ComputeExpenseEntry(ExpenseParams{
		ID: "g1", Date: NewDate(2025, 3, 10), Time: "18:30", Description: "Troca de Óleo",
		Amount: decimal.NewFromInt(150), Category: CategoryMaintenance,
		KmAtMaintenance: 45000, Payment: PaymentPix,
	})

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Entry
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || !out.Date.Equal(in.Date.Time) || out.KmAtMaintenance != in.KmAtMaintenance {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if !out.Maintenance.Equal(in.Maintenance) {
		t.Fatalf("amount mismatch: %s vs %s", out.Maintenance, in.Maintenance)
	}
}

func TestEntryJSONAcceptsLegacyNumbers(t *testing.T) {
	// snapshot exported by the original app: bare JSON numbers, no kind field
	raw := []byte(`{"id":"abc","date":"2025-03-10","time":"12:30","storeName":"App",
		"grossAmount":100,"fuel":14,"food":8,"maintenance":8,"netAmount":70}`)
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal legacy entry: %v", err)
	}
	if !e.GrossAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("gross: got %s", e.GrossAmount)
	}
	if e.Kind != "" || InferKind(e) != KindIncome {
		t.Fatalf("legacy entry must infer income, got %q", InferKind(e))
	}
}
