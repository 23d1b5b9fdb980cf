package services

import (
	"context"
	"path/filepath"
	"testing"

	"rota/internal/core"
	"rota/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *EntryService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	svc := NewEntryService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateIncome(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.CreateIncome(ctx, IncomeInput{
		Date:      core.NewDate(2025, 3, 10),
		Time:      "12:30",
		StoreName: "App A",
		Gross:     decimal.NewFromInt(100),
		Payment:   core.PaymentCash,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, core.KindIncome, entry.Kind)

	// defaults: 14% fuel, 8% food, 8% maintenance, cash fee free
	assert.True(t, entry.Fuel.Equal(decimal.NewFromInt(14)), "fuel: %s", entry.Fuel)
	assert.True(t, entry.NetAmount.Equal(decimal.NewFromInt(70)), "net: %s", entry.NetAmount)
	assert.True(t, entry.IsPaid)

	entries, err := svc.ListEntries(ctx, core.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCreateIncomeRejectsBadInput(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateIncome(context.Background(), IncomeInput{
		Date:  core.NewDate(2025, 3, 10),
		Gross: decimal.Zero,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestCreateExpense(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.CreateExpense(ctx, ExpenseInput{
		Date:        core.NewDate(2025, 3, 10),
		Time:        "18:00",
		Description: "Posto Shell",
		Amount:      decimal.NewFromInt(40),
		Category:    core.CategoryFuel,
		Payment:     core.PaymentPix,
	})
	require.NoError(t, err)
	assert.Equal(t, core.KindExpense, entry.Kind)
	assert.Equal(t, core.ExpenseMarker+"Posto Shell", entry.StoreName)
	assert.True(t, entry.Fuel.Equal(decimal.NewFromInt(40)))
	assert.True(t, entry.GrossAmount.IsZero())
}

func TestCreateOdometerRemembersFuelPrice(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	// override applies and is written back to the config
	entry, err := svc.CreateOdometer(ctx, OdometerInput{
		Date:      core.NewDate(2025, 3, 10),
		Time:      "21:00",
		KmDriven:  120,
		FuelPrice: decimal.NewFromFloat(6.10),
	})
	require.NoError(t, err)
	assert.Equal(t, core.KindOdometer, entry.Kind)
	assert.Equal(t, core.OdometerStoreName, entry.StoreName)
	assert.True(t, entry.FuelPrice.Equal(decimal.NewFromFloat(6.10)))

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.LastFuelPrice.Equal(decimal.NewFromFloat(6.10)),
		"config should remember the new price, got %s", cfg.LastFuelPrice)

	// without an override the remembered price is used
	entry, err = svc.CreateOdometer(ctx, OdometerInput{
		Date:     core.NewDate(2025, 3, 11),
		Time:     "21:00",
		KmDriven: 80,
	})
	require.NoError(t, err)
	assert.True(t, entry.FuelPrice.Equal(decimal.NewFromFloat(6.10)))
}

func TestUpdateEntry(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.CreateIncome(ctx, IncomeInput{
		Date:      core.NewDate(2025, 3, 10),
		Time:      "12:30",
		StoreName: "App A",
		Gross:     decimal.NewFromInt(100),
		Payment:   core.PaymentCash,
	})
	require.NoError(t, err)

	entry.StoreName = "App B"
	require.NoError(t, svc.UpdateEntry(ctx, entry))

	entries, err := svc.ListEntries(ctx, core.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "App B", entries[0].StoreName)

	entry.ID = "does-not-exist"
	assert.ErrorIs(t, svc.UpdateEntry(ctx, entry), core.ErrEntryNotFound)
}

func TestDeleteEntryMissingIsNoOp(t *testing.T) {
	svc := newService(t)

	// spec'd behavior: unknown id logs a warning and succeeds
	assert.NoError(t, svc.DeleteEntry(context.Background(), "missing"))
}

func TestSetPaid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	entry, err := svc.CreateIncome(ctx, IncomeInput{
		Date:      core.NewDate(2025, 3, 10),
		Time:      "12:30",
		StoreName: "App A",
		Gross:     decimal.NewFromInt(100),
		Payment:   core.PaymentDebit,
	})
	require.NoError(t, err)
	assert.False(t, entry.IsPaid, "debit income starts unsettled")

	require.NoError(t, svc.SetPaid(ctx, entry.ID, true))

	entries, err := svc.ListEntries(ctx, core.EntryFilter{})
	require.NoError(t, err)
	assert.True(t, entries[0].IsPaid)
}

func TestSummarizeAndMetrics(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateIncome(ctx, IncomeInput{
		Date: core.NewDate(2025, 3, 10), Time: "12:00", StoreName: "App",
		Gross: decimal.NewFromInt(100), Payment: core.PaymentCash,
	})
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, ExpenseInput{
		Date: core.NewDate(2025, 3, 11), Time: "09:00", Description: "Posto",
		Amount: decimal.NewFromInt(30), Category: core.CategoryFuel,
	})
	require.NoError(t, err)
	_, err = svc.CreateOdometer(ctx, OdometerInput{
		Date: core.NewDate(2025, 3, 11), Time: "21:00", KmDriven: 150,
	})
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx, core.NewDate(2025, 3, 10), core.NewDate(2025, 3, 16))
	require.NoError(t, err)
	assert.True(t, sum.TotalGross.Equal(decimal.NewFromInt(100)))
	assert.True(t, sum.TotalSpentFuel.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 150.0, sum.TotalKm)

	metrics, err := svc.FuelMetrics(ctx)
	require.NoError(t, err)
	// (14 reserved + 30 spent) fuel over 150 km
	assert.True(t, metrics.CostPerKm.Equal(decimal.NewFromInt(44).Div(decimal.NewFromInt(150))),
		"cost per km: %s", metrics.CostPerKm)

	weeks, err := svc.WeeklyGroups(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 1)

	stats, err := svc.DailyStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	stores, err := svc.RecentStores(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"App"}, stores)
}

func TestMaintenanceStatusUsesObservedKm(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, ExpenseInput{
		Date: core.NewDate(2025, 2, 1), Time: "10:00", Description: "Troca de Óleo",
		Amount: decimal.NewFromInt(150), Category: core.CategoryMaintenance,
		KmAtMaintenance: 41000,
	})
	require.NoError(t, err)
	_, err = svc.CreateOdometer(ctx, OdometerInput{
		Date: core.NewDate(2025, 3, 10), Time: "21:00", KmDriven: 50500,
	})
	require.NoError(t, err)

	statuses, err := svc.MaintenanceStatus(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)

	var oil core.AlertStatus
	for _, st := range statuses {
		if st.Alert.Description == "Troca de Óleo" {
			oil = st
		}
	}
	assert.Equal(t, 41000.0, oil.LastServiceKm)
	assert.Equal(t, 51000.0, oil.NextDueKm)
	assert.Equal(t, 500.0, oil.KmRemaining)
	assert.True(t, oil.Urgent)
}

func TestImportExportRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateIncome(ctx, IncomeInput{
		Date: core.NewDate(2025, 3, 10), Time: "12:00", StoreName: "App",
		Gross: decimal.NewFromInt(100), Payment: core.PaymentCash,
	})
	require.NoError(t, err)

	snap, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	require.NotNil(t, snap.Config)

	require.NoError(t, svc.DeleteEntry(ctx, snap.Entries[0].ID))
	require.NoError(t, svc.Import(ctx, snap))

	entries, err := svc.ListEntries(ctx, core.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewEntryService(t *testing.T) {
	service := NewEntryService(nil, nil)
	if service == nil {
		t.Error("NewEntryService should return a non-nil service")
	}
}

func TestEntryService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		service := &EntryService{}
		if err := service.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})
}
