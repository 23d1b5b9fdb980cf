package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds the user-tunable allocation settings. It is loaded once at
// startup, replaced wholesale on save, and never mutated by the engine.
type Config struct {
	PercFuel          decimal.Decimal    `json:"percFuel"`
	PercFood          decimal.Decimal    `json:"percFood"`
	PercMaintenance   decimal.Decimal    `json:"percMaintenance"`
	DailyGoal         decimal.Decimal    `json:"dailyGoal"`
	LastFuelPrice     decimal.Decimal    `json:"lastFuelPrice"`
	MaintenanceAlerts []MaintenanceAlert `json:"maintenanceAlerts"`
}

// ConfigPatch is a suggested configuration change produced by entry
// construction. The orchestrating layer decides whether to apply it; the
// engine never touches shared config itself.
type ConfigPatch struct {
	LastFuelPrice decimal.Decimal
}

// Empty reports whether the patch carries no change.
func (p ConfigPatch) Empty() bool {
	return !p.LastFuelPrice.IsPositive()
}

// DefaultConfig returns the documented defaults: 14% fuel, 8% food, 8%
// maintenance, a 250 daily goal, and the three standard maintenance alerts.
func DefaultConfig() Config {
	return Config{
		PercFuel:        decimal.NewFromFloat(0.14),
		PercFood:        decimal.NewFromFloat(0.08),
		PercMaintenance: decimal.NewFromFloat(0.08),
		DailyGoal:       decimal.NewFromInt(250),
		LastFuelPrice:   decimal.NewFromFloat(5.50),
		MaintenanceAlerts: []MaintenanceAlert{
			{ID: "1", Description: "Troca de Óleo", KmInterval: 10000, LastKm: 0},
			{ID: "2", Description: "Pneus", KmInterval: 40000, LastKm: 0},
			{ID: "3", Description: "Freios", KmInterval: 20000, LastKm: 0},
		},
	}
}

// Normalize backfills fields a partially-saved config may lack: absent
// maintenance alerts get the defaults, and default alert categories missing
// from a saved list are merged back in (matched by description).
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.MaintenanceAlerts == nil {
		c.MaintenanceAlerts = defaults.MaintenanceAlerts
		return
	}
	for _, def := range defaults.MaintenanceAlerts {
		found := false
		for _, a := range c.MaintenanceAlerts {
			if strings.EqualFold(a.Description, def.Description) {
				found = true
				break
			}
		}
		if !found {
			c.MaintenanceAlerts = append(c.MaintenanceAlerts, def)
		}
	}
}

// Validate checks that each allocation percentage is a fraction in [0,1] and
// that together they leave a non-negative net remainder.
func (c Config) Validate() error {
	one := decimal.NewFromInt(1)
	for _, p := range []struct {
		name string
		val  decimal.Decimal
	}{
		{"percFuel", c.PercFuel},
		{"percFood", c.PercFood},
		{"percMaintenance", c.PercMaintenance},
	} {
		if p.val.IsNegative() || p.val.GreaterThan(one) {
			return fmt.Errorf("%s: %w", p.name, ErrInvalidPercentage)
		}
	}
	if c.PercFuel.Add(c.PercFood).Add(c.PercMaintenance).GreaterThan(one) {
		return fmt.Errorf("allocation percentages exceed gross: %w", ErrInvalidPercentage)
	}
	if c.DailyGoal.IsNegative() {
		return fmt.Errorf("dailyGoal: %w", ErrInvalidAmount)
	}
	for _, a := range c.MaintenanceAlerts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("alert %q: %w", a.Description, err)
		}
	}
	return nil
}
