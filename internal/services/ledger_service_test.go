package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"carteira/internal/auth"
	"carteira/internal/importer"
	"carteira/internal/ledger"
	"carteira/internal/notify"
	"carteira/internal/store"
	"carteira/internal/testutil"
)

const ledgerUser = "0190a5b8-7d3e-7c4a-8f00-000000000001"

var fixedNow = func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) }

func signedIn() context.Context {
	return auth.WithIdentity(context.Background(), ledger.Identity{UserID: ledgerUser, Email: "a@b.c"})
}

func newLedgerService(s ledger.Store, opts ...LedgerOption) LedgerServicer {
	opts = append([]LedgerOption{WithClock(fixedNow)}, opts...)
	return NewLedgerService(s, auth.ContextProvider{}, opts...)
}

func memoryStore() *store.MemoryStore {
	return store.NewMemoryStore(notify.NewHub())
}

func TestLedgerService_CreateAndMonthView(t *testing.T) {
	svc := newLedgerService(memoryStore())
	ctx := signedIn()

	e, err := svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "1.200,50", Description: "Aluguel", RepeatOption: ledger.RepeatAlways})
	testutil.AssertNoError(t, err)
	if e.Date != "2024-03-15" {
		t.Errorf("expected today's date, got %q", e.Date)
	}
	if e.Status != ledger.StatusPendente {
		t.Errorf("expected pending status, got %q", e.Status)
	}
	if e.Amount != 1200.50 {
		t.Errorf("expected 1200.50, got %v", e.Amount)
	}

	_, err = svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "80", Description: "Feira", Date: "2024-02-28"})
	testutil.AssertNoError(t, err)

	view, err := svc.MonthView(ctx, ledger.KindExpenses, ledger.Period{Year: 2024, Month: time.March})
	testutil.AssertNoError(t, err)
	if len(view.Entries) != 1 {
		t.Fatalf("expected 1 entry in March, got %d", len(view.Entries))
	}
	if view.Totals.Total != 1200.50 || view.Totals.Pending != 1200.50 {
		t.Errorf("unexpected totals %+v", view.Totals)
	}
}

func TestLedgerService_RequiresSignedInUser(t *testing.T) {
	svc := newLedgerService(memoryStore())
	ctx := context.Background()

	_, err := svc.MonthView(ctx, ledger.KindIncomes, ledger.PeriodOf(fixedNow()))
	testutil.AssertAppError(t, err, "AUTH_ERROR")

	_, err = svc.CreateEntry(ctx, ledger.KindIncomes, ledger.Draft{Amount: "10", Description: "x"})
	testutil.AssertAppError(t, err, "AUTH_ERROR")

	// Validation runs before the user check.
	_, err = svc.CreateEntry(ctx, ledger.KindIncomes, ledger.Draft{Amount: "", Description: "x"})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	err = svc.DeleteEntry(ctx, ledger.KindIncomes, "id")
	testutil.AssertAppError(t, err, "AUTH_ERROR")
}

func TestLedgerService_SessionEndsMidMutation(t *testing.T) {
	mem := memoryStore()
	e, err := newLedgerService(mem).CreateEntry(signedIn(), ledger.KindExpenses, ledger.Draft{Amount: "10", Description: "Gás"})
	testutil.AssertNoError(t, err)

	// The identity is present for the lookup and gone for the mutation.
	var lookups atomic.Int32
	expiring := ledger.AuthFunc(func(context.Context) (ledger.Identity, bool) {
		if lookups.Add(1) > 1 {
			return ledger.Identity{}, false
		}
		return ledger.Identity{UserID: ledgerUser}, true
	})
	svc := NewLedgerService(mem, expiring, WithClock(fixedNow))

	err = svc.DeleteEntry(context.Background(), ledger.KindExpenses, e.ID)
	testutil.AssertAppError(t, err, "AUTH_ERROR")

	got, err := newLedgerService(mem).GetEntry(signedIn(), ledger.KindExpenses, e.ID)
	testutil.AssertNoError(t, err)
	if got.Description != "Gás" {
		t.Errorf("entry should be untouched, got %+v", got)
	}
}

func TestLedgerService_EditEntry(t *testing.T) {
	svc := newLedgerService(memoryStore())
	ctx := signedIn()

	e, err := svc.CreateEntry(ctx, ledger.KindIncomes, ledger.Draft{Amount: "3000", Description: "Salário"})
	testutil.AssertNoError(t, err)

	amount := "3500"
	updated, err := svc.EditEntry(ctx, ledger.KindIncomes, e.ID, EntryEdit{Amount: &amount})
	testutil.AssertNoError(t, err)
	if updated.Amount != 3500 || updated.Description != "Salário" {
		t.Errorf("unexpected entry after edit %+v", updated.Fields)
	}

	blank := "  "
	_, err = svc.EditEntry(ctx, ledger.KindIncomes, e.ID, EntryEdit{Description: &blank})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	bad := "abc"
	_, err = svc.EditEntry(ctx, ledger.KindIncomes, e.ID, EntryEdit{Amount: &bad})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	_, err = svc.EditEntry(ctx, ledger.KindIncomes, "missing", EntryEdit{Amount: &amount})
	testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
}

func TestLedgerService_SetEntryStatus(t *testing.T) {
	svc := newLedgerService(memoryStore())
	ctx := signedIn()

	e, err := svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "50", Description: "Luz"})
	testutil.AssertNoError(t, err)

	paid, err := svc.SetEntryStatus(ctx, ledger.KindExpenses, e.ID, ledger.StatusPaga)
	testutil.AssertNoError(t, err)
	if paid.Status != ledger.StatusPaga {
		t.Errorf("expected PAGA, got %q", paid.Status)
	}

	_, err = svc.SetEntryStatus(ctx, ledger.KindExpenses, e.ID, ledger.StatusRecebido)
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}

func TestLedgerService_DeleteEntry(t *testing.T) {
	s := memoryStore()
	svc := newLedgerService(s)
	ctx := signedIn()

	e, err := svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "50", Description: "Luz"})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteEntry(ctx, ledger.KindExpenses, e.ID))
	if s.Len(ledgerUser, ledger.KindExpenses) != 0 {
		t.Error("expected the entry to be removed")
	}

	err = svc.DeleteEntry(ctx, ledger.KindExpenses, e.ID)
	testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
}

// slowStore blocks Update until release is closed.
type slowStore struct {
	ledger.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowStore) Update(ctx context.Context, userID string, kind ledger.Kind, id string, patch ledger.Patch) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.Store.Update(ctx, userID, kind, id, patch)
}

func TestLedgerService_RejectsConcurrentMutation(t *testing.T) {
	slow := &slowStore{Store: memoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := newLedgerService(slow)
	ctx := signedIn()

	e, err := svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "50", Description: "Luz"})
	testutil.AssertNoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SetEntryStatus(ctx, ledger.KindExpenses, e.ID, ledger.StatusPaga)
		done <- err
	}()
	<-slow.entered

	err = svc.DeleteEntry(ctx, ledger.KindExpenses, e.ID)
	testutil.AssertAppError(t, err, "MUTATION_IN_FLIGHT")

	close(slow.release)
	testutil.AssertNoError(t, <-done)

	testutil.AssertNoError(t, svc.DeleteEntry(ctx, ledger.KindExpenses, e.ID))
}

type fakeSheet struct {
	view ledger.View
	err  error
}

func (f *fakeSheet) WriteMonth(_ context.Context, view ledger.View) (int, error) {
	f.view = view
	if f.err != nil {
		return 0, f.err
	}
	return len(view.Entries) + 1, nil
}

func TestLedgerService_ExportMonth(t *testing.T) {
	ctx := signedIn()
	period := ledger.PeriodOf(fixedNow())

	t.Run("disabled", func(t *testing.T) {
		svc := newLedgerService(memoryStore())
		_, err := svc.ExportMonth(ctx, ledger.KindExpenses, period)
		testutil.AssertAppError(t, err, "EXPORT_DISABLED")
	})

	t.Run("writes_month_view", func(t *testing.T) {
		sheet := &fakeSheet{}
		svc := newLedgerService(memoryStore(), WithSheetWriter(sheet))
		_, err := svc.CreateEntry(ctx, ledger.KindExpenses, ledger.Draft{Amount: "50", Description: "Luz"})
		testutil.AssertNoError(t, err)

		n, err := svc.ExportMonth(ctx, ledger.KindExpenses, period)
		testutil.AssertNoError(t, err)
		if n != 2 {
			t.Errorf("expected 2 rows, got %d", n)
		}
		if sheet.view.Totals.Total != 50 {
			t.Errorf("unexpected exported totals %+v", sheet.view.Totals)
		}
	})

	t.Run("sheet_failure_is_remote", func(t *testing.T) {
		svc := newLedgerService(memoryStore(), WithSheetWriter(&fakeSheet{err: errors.New("quota")}))
		_, err := svc.ExportMonth(ctx, ledger.KindExpenses, period)
		testutil.AssertAppError(t, err, "REMOTE_ERROR")
	})
}

func TestLedgerService_WatchMonth(t *testing.T) {
	svc := newLedgerService(memoryStore())
	ctx, cancel := context.WithCancel(signedIn())
	defer cancel()

	views := make(chan ledger.View, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- svc.WatchMonth(ctx, ledger.KindExpenses, ledger.PeriodOf(fixedNow()), func(v ledger.View, err error) error {
			if err != nil {
				return err
			}
			views <- v
			return nil
		})
	}()

	first := <-views
	if len(first.Entries) != 0 {
		t.Fatalf("expected an empty first view, got %d entries", len(first.Entries))
	}

	_, err := svc.CreateEntry(signedIn(), ledger.KindExpenses, ledger.Draft{Amount: "12", Description: "Pão"})
	testutil.AssertNoError(t, err)

	select {
	case v := <-views:
		if v.Totals.Total != 12 {
			t.Errorf("expected total 12, got %v", v.Totals.Total)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the updated view")
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLedgerService_Import(t *testing.T) {
	s := memoryStore()
	svc := newLedgerService(s)

	tree := importer.Tree{
		ledger.KindIncomes: {
			"-Na1": {"amount": 100.0, "description": "Freela", "receivedDate": "2024-03-02"},
		},
	}
	res, err := svc.Import(signedIn(), tree)
	testutil.AssertNoError(t, err)
	if res.Created[ledger.KindIncomes] != 1 {
		t.Errorf("expected 1 income created, got %v", res.Created)
	}

	_, err = svc.Import(context.Background(), tree)
	testutil.AssertAppError(t, err, "AUTH_ERROR")
}
