package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if !cfg.PercFuel.Equal(decimal.NewFromFloat(0.14)) {
		t.Fatalf("percFuel: got %s", cfg.PercFuel)
	}
	if len(cfg.MaintenanceAlerts) != 3 {
		t.Fatalf("expected 3 default alerts, got %d", len(cfg.MaintenanceAlerts))
	}
}

func TestConfigNormalize(t *testing.T) {
	t.Run("nil alerts get defaults", func(t *testing.T) {
		cfg := Config{DailyGoal: decimal.NewFromInt(100)}
		cfg.Normalize()
		if len(cfg.MaintenanceAlerts) != 3 {
			t.Fatalf("expected 3 alerts, got %d", len(cfg.MaintenanceAlerts))
		}
	})

	t.Run("missing default alert is merged back", func(t *testing.T) {
		cfg := Config{MaintenanceAlerts: []MaintenanceAlert{
			{ID: "1", Description: "troca de óleo", KmInterval: 8000, LastKm: 30000},
		}}
		cfg.Normalize()
		if len(cfg.MaintenanceAlerts) != 3 {
			t.Fatalf("expected merge to 3 alerts, got %d", len(cfg.MaintenanceAlerts))
		}
		// the user's customized interval survives, matched case-insensitively
		if cfg.MaintenanceAlerts[0].KmInterval != 8000 {
			t.Fatalf("user alert overwritten: %+v", cfg.MaintenanceAlerts[0])
		}
	})

	t.Run("complete list untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Normalize()
		if len(cfg.MaintenanceAlerts) != 3 {
			t.Fatalf("expected 3 alerts, got %d", len(cfg.MaintenanceAlerts))
		}
	})
}

func TestConfigValidate(t *testing.T) {
	base := DefaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative percentage", func(c *Config) { c.PercFuel = decimal.NewFromFloat(-0.1) }},
		{"percentage above one", func(c *Config) { c.PercFood = decimal.NewFromFloat(1.5) }},
		{"sum above one", func(c *Config) {
			c.PercFuel = decimal.NewFromFloat(0.5)
			c.PercFood = decimal.NewFromFloat(0.4)
			c.PercMaintenance = decimal.NewFromFloat(0.2)
		}},
		{"negative goal", func(c *Config) { c.DailyGoal = decimal.NewFromInt(-1) }},
		{"bad alert interval", func(c *Config) { c.MaintenanceAlerts[0].KmInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.MaintenanceAlerts = append([]MaintenanceAlert(nil), base.MaintenanceAlerts...)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	t.Run("percentage error is sentinel", func(t *testing.T) {
		cfg := base
		cfg.PercFuel = decimal.NewFromInt(2)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPercentage) {
			t.Fatalf("expected ErrInvalidPercentage, got %v", err)
		}
	})

	t.Run("sum exactly one is allowed", func(t *testing.T) {
		cfg := base
		cfg.PercFuel = decimal.NewFromFloat(0.5)
		cfg.PercFood = decimal.NewFromFloat(0.3)
		cfg.PercMaintenance = decimal.NewFromFloat(0.2)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("sum of 1 must pass: %v", err)
		}
	})
}

func TestConfigPatchEmpty(t *testing.T) {
	if !(ConfigPatch{}).Empty() {
		t.Fatal("zero patch must be empty")
	}
	if (ConfigPatch{LastFuelPrice: decimal.NewFromFloat(6.10)}).Empty() {
		t.Fatal("price patch must not be empty")
	}
}
