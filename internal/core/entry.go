package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the four record kinds that share the Entry shape.
const (
	KindIncome   Kind = "income"   // gross earnings with reserve allocation
	KindExpense  Kind = "expense"  // money actually spent in one category
	KindOdometer Kind = "odometer" // km closing, anchors distance and fuel price
	KindService  Kind = "service"  // maintenance work, carries the odometer reading
)

const (
	CategoryIncome      Category = "income"
	CategoryFuel        Category = "fuel"
	CategoryFood        Category = "food"
	CategoryMaintenance Category = "maintenance"
)

const (
	PaymentCash  PaymentMethod = "money"
	PaymentDebit PaymentMethod = "debito"
	PaymentPix   PaymentMethod = "pix"
)

// ExpenseMarker prefixes the store name of expense entries. Display layers
// strip it; the engine only ever matches maintenance descriptions against the
// remainder.
const ExpenseMarker = "[GASTO] "

// OdometerStoreName labels km-closing entries.
const OdometerStoreName = "Fechamento de KM"

type (
	Kind          string
	Category      string
	PaymentMethod string

	// Entry is the sole persisted financial record. One flat shape serves the
	// four kinds; Kind makes the discriminator explicit, and InferKind
	// recovers it for records saved before the field existed.
	Entry struct {
		ID              string          `json:"id"`
		Kind            Kind            `json:"kind,omitempty"`
		Date            Date            `json:"date"`
		Time            string          `json:"time"`
		StoreName       string          `json:"storeName"`
		GrossAmount     decimal.Decimal `json:"grossAmount"`
		Fuel            decimal.Decimal `json:"fuel"`
		Food            decimal.Decimal `json:"food"`
		Maintenance     decimal.Decimal `json:"maintenance"`
		NetAmount       decimal.Decimal `json:"netAmount"`
		KmDriven        float64         `json:"kmDriven,omitempty"`
		FuelPrice       decimal.Decimal `json:"fuelPrice"`
		KmAtMaintenance float64         `json:"kmAtMaintenance,omitempty"`
		PaymentMethod   PaymentMethod   `json:"paymentMethod,omitempty"`
		IsPaid          bool            `json:"isPaid,omitempty"`
		Category        Category        `json:"category,omitempty"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKm         = errors.New("invalid km")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrAmbiguousEntry    = errors.New("entry matches more than one kind")
	ErrEmptyID           = errors.New("entry id cannot be empty")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 1")
)

// ValidPayment reports whether m is one of the known payment methods.
// The empty string means "not recorded" and is accepted everywhere.
func ValidPayment(m PaymentMethod) bool {
	switch m {
	case "", PaymentCash, PaymentDebit, PaymentPix:
		return true
	}
	return false
}

// ValidExpenseCategory reports whether c can receive a spent amount.
func ValidExpenseCategory(c Category) bool {
	switch c {
	case CategoryFuel, CategoryFood, CategoryMaintenance:
		return true
	}
	return false
}

// InferKind derives the record kind from which fields are populated, the way
// pre-Kind data encoded it. Returns the empty Kind if nothing matches.
func InferKind(e Entry) Kind {
	switch {
	case e.GrossAmount.IsPositive():
		return KindIncome
	case e.KmDriven > 0:
		return KindOdometer
	case e.Maintenance.IsPositive():
		return KindService
	case e.Fuel.IsPositive() || e.Food.IsPositive():
		return KindExpense
	case e.KmAtMaintenance > 0:
		// service visit logged without a cost
		return KindService
	}
	return ""
}

// EntryCategory returns the explicit category override, or infers one from
// the populated fields for filtering.
func EntryCategory(e Entry) Category {
	if e.Category != "" {
		return e.Category
	}
	switch {
	case e.GrossAmount.IsPositive():
		return CategoryIncome
	case e.Fuel.IsPositive():
		return CategoryFuel
	case e.Food.IsPositive():
		return CategoryFood
	default:
		return CategoryMaintenance
	}
}

// SpentAmount returns the single non-zero category amount of an expense-like
// entry. Zero for income and odometer entries.
func SpentAmount(e Entry) decimal.Decimal {
	if e.GrossAmount.IsPositive() {
		return decimal.Zero
	}
	return e.Fuel.Add(e.Food).Add(e.Maintenance)
}

// IsMaintenanceService reports whether e is a service record usable as
// maintenance history: a spent maintenance amount with no income side.
func IsMaintenanceService(e Entry) bool {
	return e.Maintenance.IsPositive() && !e.GrossAmount.IsPositive()
}

// DisplayName strips the expense marker from the store name.
func (e Entry) DisplayName() string {
	return strings.TrimPrefix(e.StoreName, ExpenseMarker)
}

// Validate checks the single-kind invariant: exactly one interpretation of
// the populated fields must apply.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if !ValidPayment(e.PaymentMethod) {
		return ErrInvalidPayment
	}
	kinds := 0
	if e.GrossAmount.IsPositive() {
		kinds++
	}
	if e.KmDriven > 0 {
		kinds++
	}
	spentCategories := 0
	for _, v := range []decimal.Decimal{e.Fuel, e.Food, e.Maintenance} {
		if v.IsPositive() {
			spentCategories++
		}
	}
	if e.GrossAmount.IsZero() && spentCategories > 0 {
		if spentCategories > 1 {
			return ErrAmbiguousEntry
		}
		kinds++
	}
	if e.KmAtMaintenance > 0 && spentCategories == 0 && e.GrossAmount.IsZero() {
		kinds++
	}
	if kinds > 1 {
		return ErrAmbiguousEntry
	}
	return nil
}
