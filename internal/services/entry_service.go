package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rota/internal/amqp"
	"rota/internal/core"
	"rota/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryService orchestrates entry operations across the engine, SQLite and
// the AMQP sync queue. All money math lives in core; this layer generates
// ids, loads config, persists results and decides whether to apply the
// config patches the engine suggests.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// IncomeInput is a delivery payment to record.
type IncomeInput struct {
	Date      core.Date
	Time      string
	StoreName string
	Gross     decimal.Decimal
	Payment   core.PaymentMethod
}

// CreateIncome allocates reserves for a gross payment and persists the entry.
func (s *EntryService) CreateIncome(ctx context.Context, in IncomeInput) (core.Entry, error) {
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return core.Entry{}, fmt.Errorf("load config: %w", err)
	}

	entry, err := core.ComputeIncomeEntry(core.IncomeParams{
		ID:        uuid.NewString(),
		Date:      in.Date,
		Time:      in.Time,
		StoreName: in.StoreName,
		Gross:     in.Gross,
		Payment:   in.Payment,
	}, cfg)
	if err != nil {
		return core.Entry{}, fmt.Errorf("compute income entry: %w", err)
	}

	if err := s.storage.SaveEntry(ctx, entry); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	s.publishSync(ctx, entry.ID)
	return entry, nil
}

// ExpenseInput is a real spend to record against one reserve category.
type ExpenseInput struct {
	Date            core.Date
	Time            string
	Description     string
	Amount          decimal.Decimal
	Category        core.Category
	KmAtMaintenance float64
	Payment         core.PaymentMethod
}

// CreateExpense records money actually spent in one category.
func (s *EntryService) CreateExpense(ctx context.Context, in ExpenseInput) (core.Entry, error) {
	entry, err := core.ComputeExpenseEntry(core.ExpenseParams{
		ID:              uuid.NewString(),
		Date:            in.Date,
		Time:            in.Time,
		Description:     in.Description,
		Amount:          in.Amount,
		Category:        in.Category,
		KmAtMaintenance: in.KmAtMaintenance,
		Payment:         in.Payment,
	})
	if err != nil {
		return core.Entry{}, fmt.Errorf("compute expense entry: %w", err)
	}

	if err := s.storage.SaveEntry(ctx, entry); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	s.publishSync(ctx, entry.ID)
	return entry, nil
}

// OdometerInput is a km closing to record.
type OdometerInput struct {
	Date      core.Date
	Time      string
	KmDriven  float64
	FuelPrice decimal.Decimal // optional override; zero falls back to the last known price
}

// CreateOdometer records a km closing. When the engine suggests remembering a
// new fuel price, the patch is applied to the stored config here, explicitly.
func (s *EntryService) CreateOdometer(ctx context.Context, in OdometerInput) (core.Entry, error) {
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return core.Entry{}, fmt.Errorf("load config: %w", err)
	}

	entry, patch, err := core.ComputeOdometerEntry(
		uuid.NewString(), in.KmDriven, in.Date, in.Time, in.FuelPrice, cfg.LastFuelPrice)
	if err != nil {
		return core.Entry{}, fmt.Errorf("compute odometer entry: %w", err)
	}

	if err := s.storage.SaveEntry(ctx, entry); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	if !patch.Empty() && !patch.LastFuelPrice.Equal(cfg.LastFuelPrice) {
		cfg.LastFuelPrice = patch.LastFuelPrice
		if err := s.storage.SaveConfig(ctx, cfg); err != nil {
			slog.ErrorContext(ctx, "Failed to remember fuel price",
				"price", patch.LastFuelPrice.String(), "error", err)
			// the entry itself is saved
		}
	}

	s.publishSync(ctx, entry.ID)
	return entry, nil
}

// UpdateEntry overwrites an existing entry after validation.
func (s *EntryService) UpdateEntry(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate entry: %w", err)
	}
	if _, err := s.storage.GetEntry(ctx, e.ID); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if err := s.storage.SaveEntry(ctx, e); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	s.publishSync(ctx, e.ID)
	return nil
}

// SetPaid toggles the settlement flag of an entry.
func (s *EntryService) SetPaid(ctx context.Context, id string, paid bool) error {
	if err := s.storage.SetPaid(ctx, id, paid); err != nil {
		return fmt.Errorf("set paid: %w", err)
	}

	s.publishSync(ctx, id)
	return nil
}

// DeleteEntry removes an entry. A missing id is a warned no-op.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	err := s.storage.DeleteEntry(ctx, id)
	if errors.Is(err, core.ErrEntryNotFound) {
		slog.WarnContext(ctx, "Delete of unknown entry ignored", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.publishDelete(ctx, id)
	return nil
}

// ListEntries returns persisted entries narrowed by the filter, most recent
// first.
func (s *EntryService) ListEntries(ctx context.Context, f core.EntryFilter) ([]core.Entry, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	filtered := core.FilterEntries(entries, f)
	core.SortEntriesDesc(filtered)
	return filtered, nil
}

// Summarize aggregates the entries in an inclusive date range.
func (s *EntryService) Summarize(ctx context.Context, from, to core.Date) (core.WeeklySummary, error) {
	entries, err := s.ListEntries(ctx, core.EntryFilter{From: from, To: to})
	if err != nil {
		return core.WeeklySummary{}, err
	}
	return core.Summarize(entries), nil
}

// FuelMetrics computes lifetime fuel cost efficiency.
func (s *EntryService) FuelMetrics(ctx context.Context) (core.FuelMetrics, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return core.FuelMetrics{}, fmt.Errorf("list entries: %w", err)
	}
	return core.ComputeFuelMetrics(entries), nil
}

// MaintenanceStatus projects each configured alert against the entry history.
func (s *EntryService) MaintenanceStatus(ctx context.Context) ([]core.AlertStatus, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	currentKm := core.MaxObservedKm(entries)
	return core.PredictMaintenance(cfg.MaintenanceAlerts, entries, currentKm, nil), nil
}

// WeeklyGroups buckets all entries into calendar weeks, most recent first.
func (s *EntryService) WeeklyGroups(ctx context.Context) ([]core.WeekGroup, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return core.GroupByWeek(entries), nil
}

// DailyStats measures each day's gross against the configured goal.
func (s *EntryService) DailyStats(ctx context.Context) ([]core.DayStat, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return core.DailyStats(entries, cfg.DailyGoal), nil
}

// RecentStores suggests store names for the quick-entry form.
func (s *EntryService) RecentStores(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	// ListEntries returns newest first; RecentStores scans from the end
	reversed := make([]core.Entry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	return core.RecentStores(reversed, limit), nil
}

// GetConfig returns the stored allocation settings.
func (s *EntryService) GetConfig(ctx context.Context) (core.Config, error) {
	return s.storage.GetConfig(ctx)
}

// UpdateConfig replaces the allocation settings.
func (s *EntryService) UpdateConfig(ctx context.Context, cfg core.Config) error {
	return s.storage.SaveConfig(ctx, cfg)
}

// Export returns the whole persisted state as a snapshot.
func (s *EntryService) Export(ctx context.Context) (storage.Snapshot, error) {
	return s.storage.Export(ctx)
}

// Import replaces the persisted state from a snapshot.
func (s *EntryService) Import(ctx context.Context, snap storage.Snapshot) error {
	return s.storage.Import(ctx, snap)
}

func (s *EntryService) publishSync(ctx context.Context, id string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return
	}
	if err := s.amqpClient.PublishEntrySync(ctx, amqp.NewEntrySyncMessage(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// entry is saved locally; the pending sweep will pick it up
	}
}

func (s *EntryService) publishDelete(ctx context.Context, id string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return
	}
	if err := s.amqpClient.PublishEntrySync(ctx, amqp.NewEntryDeleteMessage(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
