package services

import (
	"context"
	"sync"
	"time"

	apperrors "carteira/internal/errors"
	"carteira/internal/importer"
	"carteira/internal/ledger"
)

// ledgerService exposes the signed-in user's collections. Mutations of an
// existing entry go through a Coordinator registered for that entry, so a
// second request against an entry that is still being saved is rejected.
type ledgerService struct {
	store  ledger.Store
	auth   ledger.AuthProvider
	sheets SheetWriter
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]*ledger.Coordinator
}

// LedgerOption configures the ledger service.
type LedgerOption func(*ledgerService)

// WithSheetWriter enables month export.
func WithSheetWriter(w SheetWriter) LedgerOption {
	return func(s *ledgerService) { s.sheets = w }
}

// WithClock sets the clock used to date new entries.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) { s.now = now }
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(store ledger.Store, auth ledger.AuthProvider, opts ...LedgerOption) LedgerServicer {
	s := &ledgerService{
		store:    store,
		auth:     auth,
		now:      time.Now,
		inflight: make(map[string]*ledger.Coordinator),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MonthView reads the collection once and aggregates it for period.
func (s *ledgerService) MonthView(ctx context.Context, kind ledger.Kind, period ledger.Period) (ledger.View, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return ledger.View{}, err
	}
	entries, err := ledger.Fetch(ctx, s.store, userID, kind)
	if err != nil {
		return ledger.View{}, err
	}
	return ledger.Aggregate(entries, kind, period), nil
}

// WatchMonth calls fn with a fresh month view after every change to the
// collection until ctx ends or fn fails.
func (s *ledgerService) WatchMonth(ctx context.Context, kind ledger.Kind, period ledger.Period, fn func(ledger.View, error) error) error {
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	return ledger.Watch(ctx, s.store, userID, kind, period, fn)
}

// GetEntry returns one entry of the collection.
func (s *ledgerService) GetEntry(ctx context.Context, kind ledger.Kind, id string) (ledger.Entry, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return ledger.Entry{}, err
	}
	entries, err := ledger.Fetch(ctx, s.store, userID, kind)
	if err != nil {
		return ledger.Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return ledger.Entry{}, apperrors.ErrEntryNotFound
}

// CreateEntry validates draft and appends it as a pending entry.
func (s *ledgerService) CreateEntry(ctx context.Context, kind ledger.Kind, draft ledger.Draft) (ledger.Entry, error) {
	c := ledger.NewCoordinator(s.store, s.auth, kind, ledger.WithClock(s.now))
	id, err := c.Create(ctx, draft)
	if err != nil {
		return ledger.Entry{}, err
	}
	return s.GetEntry(ctx, kind, id)
}

// EditEntry saves a new amount and/or description.
func (s *ledgerService) EditEntry(ctx context.Context, kind ledger.Kind, id string, edit EntryEdit) (ledger.Entry, error) {
	err := s.withEntry(ctx, kind, id, func(c *ledger.Coordinator) error {
		if edit.Amount != nil {
			c.SetAmount(*edit.Amount)
		}
		if edit.Description != nil {
			c.SetDescription(*edit.Description)
		}
		return c.CommitEdit(ctx)
	})
	if err != nil {
		return ledger.Entry{}, err
	}
	return s.GetEntry(ctx, kind, id)
}

// SetEntryStatus changes only the status of an entry.
func (s *ledgerService) SetEntryStatus(ctx context.Context, kind ledger.Kind, id string, status ledger.Status) (ledger.Entry, error) {
	err := s.withEntry(ctx, kind, id, func(c *ledger.Coordinator) error {
		return c.SetStatus(ctx, status)
	})
	if err != nil {
		return ledger.Entry{}, err
	}
	return s.GetEntry(ctx, kind, id)
}

// DeleteEntry removes an entry.
func (s *ledgerService) DeleteEntry(ctx context.Context, kind ledger.Kind, id string) error {
	return s.withEntry(ctx, kind, id, func(c *ledger.Coordinator) error {
		return c.Delete(ctx)
	})
}

// ExportMonth appends the month view to the configured spreadsheet.
func (s *ledgerService) ExportMonth(ctx context.Context, kind ledger.Kind, period ledger.Period) (int, error) {
	if s.sheets == nil {
		return 0, apperrors.ErrExportDisabled
	}
	view, err := s.MonthView(ctx, kind, period)
	if err != nil {
		return 0, err
	}
	n, err := s.sheets.WriteMonth(ctx, view)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrRemote, err)
	}
	return n, nil
}

// Import writes an export tree into the signed-in user's collections.
func (s *ledgerService) Import(ctx context.Context, tree importer.Tree) (importer.Result, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.Run(ctx, s.store, userID, tree)
}

// withEntry selects the entry in a Coordinator registered under the entry's
// path for the duration of fn.
func (s *ledgerService) withEntry(ctx context.Context, kind ledger.Kind, id string, fn func(*ledger.Coordinator) error) error {
	entry, err := s.GetEntry(ctx, kind, id)
	if err != nil {
		return err
	}
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	key := ledger.Path(userID, kind) + "/" + id

	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return apperrors.ErrMutationInFlight
	}
	c := ledger.NewCoordinator(s.store, s.auth, kind, ledger.WithClock(s.now))
	s.inflight[key] = c
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	if err := c.StartEdit(entry); err != nil {
		return err
	}
	return fn(c)
}

func (s *ledgerService) userID(ctx context.Context) (string, error) {
	if s.auth == nil {
		return "", apperrors.ErrUnauthorized
	}
	id, ok := s.auth.CurrentUser(ctx)
	if !ok || id.UserID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id.UserID, nil
}
