package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"rota/internal/cache"
	"rota/internal/core"

	ports "rota/internal/backup"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client mirrors entries into a Google Sheets spreadsheet. One sheet per
// year, entries keyed by id in column A so rewrites land on the same row.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name without year (e.g. "Entries"); code prefixes the year.
	sheetBase string
	// Row positions by sheet and id. Rows never shift because deletes clear
	// cells instead of removing rows, so a cached position stays valid until
	// it expires.
	rows *cache.LRU[int]
}

// Ensure interface conformance
var _ ports.Mirror = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Entries").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Entries"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
		rows:          cache.NewLRU[int](512, time.Hour),
	}, nil
}

// newSheetsService initializes a Sheets Service using service account
// credentials from GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON"))
	credentialsFile := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_FILE"))

	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	var err error

	switch {
	case credentialsJSON != "":
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", credentialsFile)
		raw, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	default:
		return nil, errors.New("missing credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// Append writes an entry to the mirror. If a row with the same id exists it
// is overwritten in place, otherwise the entry goes on the next free row.
func (c *Client) Append(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheetName := c.sheetName(e.Date.Year())
	row, ok := c.rows.Get(rowKey(sheetName, e.ID))
	if !ok {
		found, total, err := c.findRow(ctx, sheetName, e.ID)
		if err != nil {
			return "", err
		}
		row = found
		if row == 0 {
			row = total + 1
		}
	}

	rng := fmt.Sprintf("%s!A%d:P%d", sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{{
		e.ID,
		string(e.Kind),
		e.Date.String(),
		e.Time,
		e.StoreName,
		e.GrossAmount.String(),
		e.Fuel.String(),
		e.Food.String(),
		e.Maintenance.String(),
		e.NetAmount.String(),
		e.KmDriven,
		e.FuelPrice.String(),
		e.KmAtMaintenance,
		string(e.PaymentMethod),
		e.IsPaid,
		string(e.Category),
	}}}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	c.rows.Set(rowKey(sheetName, e.ID), row)
	return rng, nil
}

func rowKey(sheetName, id string) string {
	return sheetName + "\x00" + id
}

// Delete clears the row holding the entry id. Searches the current and the
// previous year's sheets, since a deletion can arrive after the year rolled
// over. A row that was never mirrored is a no-op.
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	year := time.Now().Year()
	for _, y := range []int{year, year - 1} {
		sheetName := c.sheetName(y)
		row, ok := c.rows.Get(rowKey(sheetName, id))
		if !ok {
			found, _, err := c.findRow(ctx, sheetName, id)
			if err != nil {
				return err
			}
			row = found
		}
		if row == 0 {
			continue
		}
		rng := fmt.Sprintf("%s!A%d:P%d", sheetName, row, row)
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear %s: %w", rng, err)
		}
		c.rows.Delete(rowKey(sheetName, id))
		return nil
	}

	slog.InfoContext(ctx, "Entry not present in mirror, nothing to delete", "id", id)
	return nil
}

// findRow returns the 1-based row holding the id in column A (0 when absent)
// and the total number of used rows.
func (c *Client) findRow(ctx context.Context, sheetName, id string) (int, int, error) {
	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1, len(resp.Values), nil
		}
	}
	return 0, len(resp.Values), nil
}

// sheetName returns "<year> <base>" unless base already starts with a 4-digit year.
func (c *Client) sheetName(year int) string {
	base := strings.TrimSpace(c.sheetBase)
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
