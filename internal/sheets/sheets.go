// Package sheets appends month views to a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"carteira/internal/ledger"
	"carteira/internal/logger"
)

// Client writes to one sheet of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

// New creates a Client authenticated with the configured service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentials, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheet:         strings.TrimSpace(cfg.SheetName),
	}
}

func credentialsJSON(cfg Config) ([]byte, error) {
	if inline := strings.TrimSpace(cfg.CredentialsJSON); inline != "" {
		return []byte(inline), nil
	}
	data, err := os.ReadFile(strings.TrimSpace(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// WriteMonth appends the rows of view below the existing content of the
// sheet and returns the number of rows written.
func (c *Client) WriteMonth(ctx context.Context, view ledger.View) (int, error) {
	rows := Rows(view)
	rng := fmt.Sprintf("%s!A:G", c.sheet)

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append rows: %w", err)
	}

	written := len(rows)
	if resp.Updates != nil {
		written = int(resp.Updates.UpdatedRows)
	}
	logger.Named("sheets").Infow("exported month view",
		"period", view.Period.String(),
		"kind", view.Kind,
		"rows", written,
	)
	return written, nil
}

// Rows lays out a view as one row per entry followed by a totals row:
// period, collection, date, description, amount, status, type.
func Rows(view ledger.View) [][]interface{} {
	period := view.Period.String()
	rows := make([][]interface{}, 0, len(view.Entries)+1)
	for _, e := range view.Entries {
		rows = append(rows, []interface{}{
			period,
			string(view.Kind),
			e.Date,
			e.Description,
			e.Amount,
			string(e.Status.Effective()),
			string(e.EffectiveType()),
		})
	}
	rows = append(rows, []interface{}{
		period,
		string(view.Kind),
		"",
		"TOTAL",
		view.Totals.Total,
		fmt.Sprintf("%s %.2f", ledger.SettledStatus(view.Kind), view.Totals.Settled),
		"",
	})
	return rows
}
