package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carteira/internal/errors"
	"carteira/internal/testutil"
)

type createCall struct {
	UserID string
	Kind   Kind
	Fields Fields
}

type updateCall struct {
	UserID string
	Kind   Kind
	ID     string
	Patch  Patch
}

type removeCall struct {
	UserID string
	Kind   Kind
	ID     string
}

// spyStore records every call and answers with the configured errors.
type spyStore struct {
	mu      sync.Mutex
	creates []createCall
	updates []updateCall
	removes []removeCall

	createErr error
	updateErr error
	removeErr error

	// hold, when set, blocks Update until it is closed.
	hold    chan struct{}
	entered chan struct{}
}

var _ Store = (*spyStore)(nil)

func (s *spyStore) Subscribe(ctx context.Context, _ string, _ Kind) (*Subscription, error) {
	return NewSubscription(ctx, func(context.Context) ([]Entry, error) { return nil, nil }, nil, nil), nil
}

func (s *spyStore) Create(_ context.Context, userID string, kind Kind, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, createCall{userID, kind, fields})
	if s.createErr != nil {
		return "", s.createErr
	}
	return "new-id", nil
}

func (s *spyStore) Update(_ context.Context, userID string, kind Kind, id string, patch Patch) error {
	if s.hold != nil {
		close(s.entered)
		<-s.hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, updateCall{userID, kind, id, patch})
	return s.updateErr
}

func (s *spyStore) Remove(_ context.Context, userID string, kind Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes = append(s.removes, removeCall{userID, kind, id})
	return s.removeErr
}

func (s *spyStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creates) + len(s.updates) + len(s.removes)
}

var alice = StaticAuth(Identity{UserID: "u1", Email: "alice@example.com"})

func pendingExpense() Entry {
	return Entry{ID: "e1", Kind: KindExpenses, Fields: Fields{Amount: 100, Description: "Luz", Date: "2024-03-05", Status: StatusPendente}}
}

func TestCoordinator_StartEdit(t *testing.T) {
	c := NewCoordinator(&spyStore{}, alice, KindExpenses)
	require.Equal(t, Idle, c.State())

	require.NoError(t, c.StartEdit(Entry{ID: "e1", Kind: KindExpenses, Fields: Fields{Amount: 12.5, Description: "Água"}}))

	assert.Equal(t, Editing, c.State())
	assert.Equal(t, Buffer{Amount: "12.5", Description: "Água"}, c.Buffer())
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "e1", sel.ID)
}

func TestCoordinator_CommitEdit(t *testing.T) {
	t.Run("empty description never reaches the store", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))
		c.SetDescription("")

		err := c.CommitEdit(context.Background())

		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
		assert.Equal(t, Editing, c.State())
	})

	t.Run("empty amount", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))
		c.SetAmount("  ")

		testutil.AssertAppError(t, c.CommitEdit(context.Background()), "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("unparsable amount", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))
		c.SetAmount("dez reais")

		testutil.AssertAppError(t, c.CommitEdit(context.Background()), "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("signed out", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, StaticAuth(Identity{}), KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))

		testutil.AssertAppError(t, c.CommitEdit(context.Background()), "AUTH_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("nothing selected", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		testutil.AssertAppError(t, c.CommitEdit(context.Background()), "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("success updates amount and description", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))
		c.SetAmount("120,40")
		c.SetDescription(" Luz de março ")

		require.NoError(t, c.CommitEdit(context.Background()))

		require.Len(t, store.updates, 1)
		call := store.updates[0]
		assert.Equal(t, "u1", call.UserID)
		assert.Equal(t, KindExpenses, call.Kind)
		assert.Equal(t, "e1", call.ID)
		require.NotNil(t, call.Patch.Amount)
		require.NotNil(t, call.Patch.Description)
		assert.Equal(t, 120.4, *call.Patch.Amount)
		assert.Equal(t, "Luz de março", *call.Patch.Description)
		assert.Nil(t, call.Patch.Status)
		assert.Equal(t, Idle, c.State())
		_, selected := c.Selected()
		assert.False(t, selected)
	})

	t.Run("store failure keeps editing", func(t *testing.T) {
		store := &spyStore{updateErr: apperrors.Wrap(apperrors.ErrRemote, errors.New("offline"))}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))

		err := c.CommitEdit(context.Background())

		testutil.AssertAppError(t, err, "REMOTE_ERROR")
		assert.Equal(t, Editing, c.State())
		assert.Equal(t, "Luz", c.Buffer().Description)
		assert.Len(t, store.updates, 1)
	})
}

func TestCoordinator_SetStatus(t *testing.T) {
	t.Run("sends only the status", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))
		c.SetDescription("")

		require.NoError(t, c.SetStatus(context.Background(), StatusPaga))

		require.Len(t, store.updates, 1)
		patch := store.updates[0].Patch
		require.NotNil(t, patch.Status)
		assert.Equal(t, StatusPaga, *patch.Status)
		assert.Nil(t, patch.Amount)
		assert.Nil(t, patch.Description)
		assert.Equal(t, Idle, c.State())
	})

	t.Run("status of the other collection", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))

		testutil.AssertAppError(t, c.SetStatus(context.Background(), StatusRecebido), "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("income received", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindIncomes)
		require.NoError(t, c.StartEdit(Entry{ID: "i1", Kind: KindIncomes, Fields: Fields{Amount: 10, Description: "Pix"}}))

		require.NoError(t, c.SetStatus(context.Background(), StatusRecebido))
		require.Len(t, store.updates, 1)
		assert.Equal(t, KindIncomes, store.updates[0].Kind)
	})
}

func TestCoordinator_Delete(t *testing.T) {
	t.Run("removes the selected entry", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))

		require.NoError(t, c.Delete(context.Background()))

		require.Len(t, store.removes, 1)
		assert.Equal(t, removeCall{UserID: "u1", Kind: KindExpenses, ID: "e1"}, store.removes[0])
		assert.Equal(t, Idle, c.State())
	})

	t.Run("missing entry surfaces not found", func(t *testing.T) {
		store := &spyStore{removeErr: apperrors.ErrEntryNotFound}
		c := NewCoordinator(store, alice, KindExpenses)
		require.NoError(t, c.StartEdit(pendingExpense()))

		testutil.AssertAppError(t, c.Delete(context.Background()), "ENTRY_NOT_FOUND")
		assert.Equal(t, Editing, c.State())
	})
}

func TestCoordinator_Create(t *testing.T) {
	clock := WithClock(func() time.Time { return time.Date(2024, time.March, 9, 15, 0, 0, 0, time.UTC) })

	t.Run("defaults", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses, clock)

		id, err := c.Create(context.Background(), Draft{Amount: "59,90", Description: "Internet", RepeatOption: RepeatAlways})

		require.NoError(t, err)
		assert.Equal(t, "new-id", id)
		require.Len(t, store.creates, 1)
		f := store.creates[0].Fields
		assert.Equal(t, 59.9, f.Amount)
		assert.Equal(t, "Internet", f.Description)
		assert.Equal(t, "2024-03-09", f.Date)
		assert.Equal(t, StatusPendente, f.Status)
		assert.Equal(t, RepeatAlways, f.RepeatOption)
		assert.Equal(t, Buffer{}, c.Buffer())
	})

	t.Run("validation before auth", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, StaticAuth(Identity{}), KindExpenses, clock)

		_, err := c.Create(context.Background(), Draft{Amount: "", Description: "x"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = c.Create(context.Background(), Draft{Amount: "1", Description: "x"})
		testutil.AssertAppError(t, err, "AUTH_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("bad date", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindIncomes, clock)
		_, err := c.Create(context.Background(), Draft{Amount: "1", Description: "x", Date: "09/03/2024"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		assert.Zero(t, store.calls())
	})

	t.Run("malformed amounts", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindExpenses, clock)
		for _, amount := range []string{"1e10000000", "1,23.4"} {
			_, err := c.Create(context.Background(), Draft{Amount: amount, Description: "x"})
			testutil.AssertCategory(t, err, apperrors.CategoryValidation)
		}
		assert.Zero(t, store.calls())

		_, err := c.Create(context.Background(), Draft{Amount: "1,234.56", Description: "x"})
		require.NoError(t, err)
		assert.Equal(t, 1234.56, store.creates[0].Fields.Amount)
	})

	t.Run("repeat option on income", func(t *testing.T) {
		store := &spyStore{}
		c := NewCoordinator(store, alice, KindIncomes, clock)
		_, err := c.Create(context.Background(), Draft{Amount: "1", Description: "x", RepeatOption: RepeatInstallment})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("store failure keeps buffer state", func(t *testing.T) {
		store := &spyStore{createErr: apperrors.Wrap(apperrors.ErrRemote, errors.New("timeout"))}
		c := NewCoordinator(store, alice, KindIncomes, clock)
		_, err := c.Create(context.Background(), Draft{Amount: "1", Description: "x"})
		testutil.AssertAppError(t, err, "REMOTE_ERROR")
		assert.Equal(t, Idle, c.State())
	})
}

func TestCoordinator_RejectsSecondMutationWhileSaving(t *testing.T) {
	store := &spyStore{hold: make(chan struct{}), entered: make(chan struct{})}
	c := NewCoordinator(store, alice, KindExpenses)
	require.NoError(t, c.StartEdit(pendingExpense()))

	done := make(chan error, 1)
	go func() { done <- c.SetStatus(context.Background(), StatusPaga) }()
	<-store.entered

	assert.Equal(t, Saving, c.State())
	testutil.AssertAppError(t, c.Delete(context.Background()), "MUTATION_IN_FLIGHT")
	testutil.AssertAppError(t, c.StartEdit(pendingExpense()), "MUTATION_IN_FLIGHT")
	_, err := c.Create(context.Background(), Draft{Amount: "1", Description: "x"})
	testutil.AssertAppError(t, err, "MUTATION_IN_FLIGHT")

	close(store.hold)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, c.State())
	assert.Len(t, store.removes, 0)
}
