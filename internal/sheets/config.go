package sheets

import (
	"errors"
	"strings"
)

// Config selects the spreadsheet and the service account used for export.
// Field tags are read by config.Load under the GOOGLE_ prefix.
type Config struct {
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	SheetName       string `env:"SHEET_NAME" envDefault:"Ledger"`
	CredentialsFile string `env:"SERVICE_ACCOUNT_FILE"`
	CredentialsJSON string `env:"SERVICE_ACCOUNT_JSON"`
}

// Enabled reports whether export is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.SpreadsheetID) != ""
}

// Validate requires credentials once a spreadsheet is set.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(c.CredentialsJSON) == "" && strings.TrimSpace(c.CredentialsFile) == "" {
		return errors.New("GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE is required when GOOGLE_SPREADSHEET_ID is set")
	}
	if strings.TrimSpace(c.SheetName) == "" {
		return errors.New("GOOGLE_SHEET_NAME must not be empty")
	}
	return nil
}
