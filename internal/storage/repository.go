package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rota/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Sync states of an entry relative to the backup mirror.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = `id, kind, date, time, store_name, gross_amount, fuel, food,
	maintenance, net_amount, km_driven, fuel_price, km_at_maintenance,
	payment_method, is_paid, category`

// SaveEntry inserts or replaces an entry and resets its sync state to pending
// so the backup worker picks it up again.
func (r *SQLiteRepository) SaveEntry(ctx context.Context, e core.Entry) error {
	e = sanitizeEntry(e)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			date = excluded.date,
			time = excluded.time,
			store_name = excluded.store_name,
			gross_amount = excluded.gross_amount,
			fuel = excluded.fuel,
			food = excluded.food,
			maintenance = excluded.maintenance,
			net_amount = excluded.net_amount,
			km_driven = excluded.km_driven,
			fuel_price = excluded.fuel_price,
			km_at_maintenance = excluded.km_at_maintenance,
			payment_method = excluded.payment_method,
			is_paid = excluded.is_paid,
			category = excluded.category,
			sync_status = 'pending'`,
		e.ID, string(e.Kind), e.Date.String(), e.Time, e.StoreName,
		e.GrossAmount.String(), e.Fuel.String(), e.Food.String(),
		e.Maintenance.String(), e.NetAmount.String(), e.KmDriven,
		e.FuelPrice.String(), e.KmAtMaintenance, string(e.PaymentMethod),
		boolToInt(e.IsPaid), string(e.Category), SyncPending)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"kind", e.Kind,
		"date", e.Date.String(),
		"store", e.StoreName)
	return nil
}

// GetEntry retrieves a single entry by id.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.ErrEntryNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// ListEntries returns all entries ordered most recent first.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY date DESC, time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes an entry. A missing id yields core.ErrEntryNotFound so
// callers can treat it as a no-op.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if affected == 0 {
		return core.ErrEntryNotFound
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// SetPaid flips the settlement flag of an entry.
func (r *SQLiteRepository) SetPaid(ctx context.Context, id string, paid bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET is_paid = ?, sync_status = 'pending' WHERE id = ?`,
		boolToInt(paid), id)
	if err != nil {
		return fmt.Errorf("set paid %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set paid %s: %w", id, err)
	}
	if affected == 0 {
		return core.ErrEntryNotFound
	}
	return nil
}

// PendingSyncEntry is the minimal row needed to queue a backup message.
type PendingSyncEntry struct {
	ID        string
	CreatedAt time.Time
}

// GetPendingSyncEntries returns entries that still need to reach the backup
// mirror, oldest first.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at FROM entries
		WHERE sync_status = 'pending'
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks an entry as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as synced", "id", id)
	return nil
}

// MarkSyncError marks an entry as having failed to mirror.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with sync error", "id", id)
	return nil
}

// GetConfig loads the allocation settings, falling back to the defaults when
// nothing has been saved yet. The result is always normalized.
func (r *SQLiteRepository) GetConfig(ctx context.Context) (core.Config, error) {
	cfg := core.DefaultConfig()

	var percFuel, percFood, percMaintenance, dailyGoal, lastFuelPrice string
	err := r.db.QueryRowContext(ctx, `
		SELECT perc_fuel, perc_food, perc_maintenance, daily_goal, last_fuel_price
		FROM config WHERE id = 1`).
		Scan(&percFuel, &percFood, &percMaintenance, &dailyGoal, &lastFuelPrice)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("get config: %w", err)
	}

	if cfg.PercFuel, err = decimal.NewFromString(percFuel); err != nil {
		return cfg, fmt.Errorf("parse perc_fuel: %w", err)
	}
	if cfg.PercFood, err = decimal.NewFromString(percFood); err != nil {
		return cfg, fmt.Errorf("parse perc_food: %w", err)
	}
	if cfg.PercMaintenance, err = decimal.NewFromString(percMaintenance); err != nil {
		return cfg, fmt.Errorf("parse perc_maintenance: %w", err)
	}
	if cfg.DailyGoal, err = decimal.NewFromString(dailyGoal); err != nil {
		return cfg, fmt.Errorf("parse daily_goal: %w", err)
	}
	if cfg.LastFuelPrice, err = decimal.NewFromString(lastFuelPrice); err != nil {
		return cfg, fmt.Errorf("parse last_fuel_price: %w", err)
	}

	alerts, err := r.listAlerts(ctx)
	if err != nil {
		return cfg, err
	}
	cfg.MaintenanceAlerts = alerts
	cfg.Normalize()
	return cfg, nil
}

// SaveConfig replaces the single config row and the alert list wholesale.
func (r *SQLiteRepository) SaveConfig(ctx context.Context, cfg core.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin config tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO config (id, perc_fuel, perc_food, perc_maintenance, daily_goal, last_fuel_price)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			perc_fuel = excluded.perc_fuel,
			perc_food = excluded.perc_food,
			perc_maintenance = excluded.perc_maintenance,
			daily_goal = excluded.daily_goal,
			last_fuel_price = excluded.last_fuel_price`,
		cfg.PercFuel.String(), cfg.PercFood.String(), cfg.PercMaintenance.String(),
		cfg.DailyGoal.String(), cfg.LastFuelPrice.String())
	if err != nil {
		return fmt.Errorf("save config row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM maintenance_alerts`); err != nil {
		return fmt.Errorf("clear alerts: %w", err)
	}
	for _, a := range cfg.MaintenanceAlerts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO maintenance_alerts (id, description, km_interval, last_km)
			VALUES (?, ?, ?, ?)`,
			a.ID, a.Description, a.KmInterval, a.LastKm)
		if err != nil {
			return fmt.Errorf("save alert %q: %w", a.Description, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit config: %w", err)
	}

	slog.InfoContext(ctx, "Config saved",
		"perc_fuel", cfg.PercFuel.String(),
		"perc_food", cfg.PercFood.String(),
		"perc_maintenance", cfg.PercMaintenance.String(),
		"alerts", len(cfg.MaintenanceAlerts))
	return nil
}

func (r *SQLiteRepository) listAlerts(ctx context.Context) ([]core.MaintenanceAlert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, km_interval, last_km FROM maintenance_alerts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []core.MaintenanceAlert
	for rows.Next() {
		var a core.MaintenanceAlert
		if err := rows.Scan(&a.ID, &a.Description, &a.KmInterval, &a.LastKm); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// SaveTimeEntry inserts or replaces a work shift.
func (r *SQLiteRepository) SaveTimeEntry(ctx context.Context, t core.TimeEntry) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, date, start_time, end_time, break_minutes, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			break_minutes = excluded.break_minutes,
			notes = excluded.notes`,
		t.ID, t.Date.String(), t.StartTime, t.EndTime, t.BreakMinutes, t.Notes)
	if err != nil {
		return fmt.Errorf("save time entry: %w", err)
	}
	return nil
}

// ListTimeEntries returns all shifts ordered most recent first.
func (r *SQLiteRepository) ListTimeEntries(ctx context.Context) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, start_time, end_time, break_minutes, notes
		FROM time_entries ORDER BY date DESC, start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []core.TimeEntry
	for rows.Next() {
		var t core.TimeEntry
		var date string
		if err := rows.Scan(&t.ID, &date, &t.StartTime, &t.EndTime, &t.BreakMinutes, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse time entry date: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// Snapshot mirrors the JSON export shape of the original app.
type Snapshot struct {
	Entries     []core.Entry     `json:"entries"`
	Config      *core.Config     `json:"config,omitempty"`
	TimeEntries []core.TimeEntry `json:"timeEntries,omitempty"`
}

// Export collects all persisted data into a snapshot.
func (r *SQLiteRepository) Export(ctx context.Context) (Snapshot, error) {
	entries, err := r.ListEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	cfg, err := r.GetConfig(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	timeEntries, err := r.ListTimeEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Entries: entries, Config: &cfg, TimeEntries: timeEntries}, nil
}

// Import replaces the whole entry collection (and the config, when the
// snapshot carries one) inside a single transaction. Entries are sanitized on
// the way in and marked pending for the backup mirror.
func (r *SQLiteRepository) Import(ctx context.Context, snap Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range snap.Entries {
		e = sanitizeEntry(e)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (`+entryColumns+`, sync_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, string(e.Kind), e.Date.String(), e.Time, e.StoreName,
			e.GrossAmount.String(), e.Fuel.String(), e.Food.String(),
			e.Maintenance.String(), e.NetAmount.String(), e.KmDriven,
			e.FuelPrice.String(), e.KmAtMaintenance, string(e.PaymentMethod),
			boolToInt(e.IsPaid), string(e.Category), SyncPending)
		if err != nil {
			return fmt.Errorf("import entry %s: %w", e.ID, err)
		}
	}

	if snap.TimeEntries != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM time_entries`); err != nil {
			return fmt.Errorf("clear time entries: %w", err)
		}
		for _, t := range snap.TimeEntries {
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO time_entries (id, date, start_time, end_time, break_minutes, notes)
				VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, t.Date.String(), t.StartTime, t.EndTime, t.BreakMinutes, t.Notes)
			if err != nil {
				return fmt.Errorf("import time entry %s: %w", t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	if snap.Config != nil {
		if err := r.SaveConfig(ctx, *snap.Config); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Snapshot imported",
		"entries", len(snap.Entries),
		"time_entries", len(snap.TimeEntries),
		"config", snap.Config != nil)
	return nil
}

// sanitizeEntry backfills fields older snapshots may lack.
func sanitizeEntry(e core.Entry) core.Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Kind == "" {
		e.Kind = core.InferKind(e)
	}
	return e
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e                                              core.Entry
		kind, date, payment, category                  string
		gross, fuel, food, maintenance, net, fuelPrice string
		isPaid                                         int
	)
	err := row.Scan(&e.ID, &kind, &date, &e.Time, &e.StoreName,
		&gross, &fuel, &food, &maintenance, &net, &e.KmDriven,
		&fuelPrice, &e.KmAtMaintenance, &payment, &isPaid, &category)
	if err != nil {
		return core.Entry{}, err
	}

	if e.Date, err = core.ParseDate(date); err != nil {
		return core.Entry{}, fmt.Errorf("parse date: %w", err)
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&e.GrossAmount, gross},
		{&e.Fuel, fuel},
		{&e.Food, food},
		{&e.Maintenance, maintenance},
		{&e.NetAmount, net},
		{&e.FuelPrice, fuelPrice},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return core.Entry{}, fmt.Errorf("parse amount %q: %w", f.src, err)
		}
	}
	e.Kind = core.Kind(kind)
	e.PaymentMethod = core.PaymentMethod(payment)
	e.Category = core.Category(category)
	e.IsPaid = isPaid != 0
	return sanitizeEntry(e), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
