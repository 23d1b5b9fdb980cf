package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// feeRates is the payment-method fee schedule applied to gross income.
// Cash and instant transfer are free; the card acquirer takes 1.99%.
var feeRates = map[PaymentMethod]decimal.Decimal{
	PaymentCash:  decimal.Zero,
	PaymentPix:   decimal.Zero,
	PaymentDebit: decimal.NewFromFloat(0.0199),
}

// FeeFor returns the fee deducted from a gross amount for the given payment
// method. Unknown or empty methods pay no fee.
func FeeFor(gross decimal.Decimal, method PaymentMethod) decimal.Decimal {
	rate, ok := feeRates[method]
	if !ok {
		return decimal.Zero
	}
	return gross.Mul(rate)
}

// IncomeParams carries the inputs for one income entry. ID comes from the
// caller's identifier generator.
type IncomeParams struct {
	ID        string
	Date      Date
	Time      string
	StoreName string
	Gross     decimal.Decimal
	Payment   PaymentMethod
}

// ComputeIncomeEntry splits a gross income amount into the configured
// fuel/food/maintenance reserves, deducts the payment fee, and returns the
// fully-populated entry. fuel+food+maintenance+fee+net always equals gross.
func ComputeIncomeEntry(p IncomeParams, cfg Config) (Entry, error) {
	if !p.Gross.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	if strings.TrimSpace(p.ID) == "" {
		return Entry{}, ErrEmptyID
	}
	if !ValidPayment(p.Payment) {
		return Entry{}, ErrInvalidPayment
	}

	fuel := p.Gross.Mul(cfg.PercFuel)
	food := p.Gross.Mul(cfg.PercFood)
	maintenance := p.Gross.Mul(cfg.PercMaintenance)
	fee := FeeFor(p.Gross, p.Payment)
	net := p.Gross.Sub(fuel).Sub(food).Sub(maintenance).Sub(fee)

	return Entry{
		ID:            p.ID,
		Kind:          KindIncome,
		Date:          p.Date,
		Time:          p.Time,
		StoreName:     p.StoreName,
		GrossAmount:   p.Gross,
		Fuel:          fuel,
		Food:          food,
		Maintenance:   maintenance,
		NetAmount:     net,
		PaymentMethod: p.Payment,
		IsPaid:        p.Payment == "" || p.Payment == PaymentCash,
		Category:      CategoryIncome,
	}, nil
}

// ExpenseParams carries the inputs for one manual expense entry.
type ExpenseParams struct {
	ID              string
	Date            Date
	Time            string
	Description     string
	Amount          decimal.Decimal
	Category        Category
	KmAtMaintenance float64
	Payment         PaymentMethod
}

// ComputeExpenseEntry places the amount into exactly the matching category
// bucket and tags the store name with the expense marker. Maintenance
// expenses become service records and should carry the odometer reading;
// its absence is tolerated but degrades maintenance predictions.
func ComputeExpenseEntry(p ExpenseParams) (Entry, error) {
	if !p.Amount.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	if strings.TrimSpace(p.ID) == "" {
		return Entry{}, ErrEmptyID
	}
	if !ValidExpenseCategory(p.Category) {
		return Entry{}, ErrInvalidCategory
	}
	if !ValidPayment(p.Payment) {
		return Entry{}, ErrInvalidPayment
	}

	e := Entry{
		ID:            p.ID,
		Kind:          KindExpense,
		Date:          p.Date,
		Time:          p.Time,
		StoreName:     ExpenseMarker + strings.TrimSpace(p.Description),
		PaymentMethod: p.Payment,
		IsPaid:        p.Payment == "" || p.Payment == PaymentCash,
		Category:      p.Category,
	}
	switch p.Category {
	case CategoryFuel:
		e.Fuel = p.Amount
	case CategoryFood:
		e.Food = p.Amount
	case CategoryMaintenance:
		e.Maintenance = p.Amount
		e.Kind = KindService
		if p.KmAtMaintenance > 0 {
			e.KmAtMaintenance = p.KmAtMaintenance
		}
	}
	return e, nil
}

// ComputeOdometerEntry builds a km-closing entry: all monetary fields zero,
// kmDriven and the effective fuel price populated. The returned ConfigPatch
// suggests the new lastFuelPrice default for the orchestrating layer to
// apply; construction itself has no side effects.
func ComputeOdometerEntry(id string, kmDriven float64, date Date, timeOfDay string, fuelPriceOverride, lastFuelPrice decimal.Decimal) (Entry, ConfigPatch, error) {
	if kmDriven <= 0 {
		return Entry{}, ConfigPatch{}, ErrInvalidKm
	}
	if strings.TrimSpace(id) == "" {
		return Entry{}, ConfigPatch{}, ErrEmptyID
	}

	price := fuelPriceOverride
	if !price.IsPositive() {
		price = lastFuelPrice
	}

	e := Entry{
		ID:        id,
		Kind:      KindOdometer,
		Date:      date,
		Time:      timeOfDay,
		StoreName: OdometerStoreName,
		KmDriven:  kmDriven,
		FuelPrice: price,
	}
	patch := ConfigPatch{}
	if price.IsPositive() {
		patch.LastFuelPrice = price
	}
	return e, patch, nil
}
