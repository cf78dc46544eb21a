package services

import (
	"context"

	"carteira/internal/importer"
	"carteira/internal/ledger"
	"carteira/internal/models"
	"carteira/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, name, email *string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshToken(userID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListActivity(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

// EntryEdit carries the edit form of an entry. Nil fields keep their current
// value.
type EntryEdit struct {
	Amount      *string
	Description *string
}

// LedgerServicer defines the contract for the signed-in user's ledger. The
// user is read from the context.
type LedgerServicer interface {
	MonthView(ctx context.Context, kind ledger.Kind, period ledger.Period) (ledger.View, error)
	WatchMonth(ctx context.Context, kind ledger.Kind, period ledger.Period, fn func(ledger.View, error) error) error
	GetEntry(ctx context.Context, kind ledger.Kind, id string) (ledger.Entry, error)
	CreateEntry(ctx context.Context, kind ledger.Kind, draft ledger.Draft) (ledger.Entry, error)
	EditEntry(ctx context.Context, kind ledger.Kind, id string, edit EntryEdit) (ledger.Entry, error)
	SetEntryStatus(ctx context.Context, kind ledger.Kind, id string, status ledger.Status) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, kind ledger.Kind, id string) error
	ExportMonth(ctx context.Context, kind ledger.Kind, period ledger.Period) (int, error)
	Import(ctx context.Context, tree importer.Tree) (importer.Result, error)
}

// SheetWriter appends a month view to a spreadsheet.
type SheetWriter interface {
	WriteMonth(ctx context.Context, view ledger.View) (int, error)
}
