package ledger

import "context"

// Store is the per-user entry collection backend. Implementations fail with
// an auth error for an empty userID, a validation error for missing required
// fields, a not-found error for unknown ids, and a remote error for anything
// the backend itself reports.
type Store interface {
	// Subscribe streams full-collection snapshots, starting with the current
	// state.
	Subscribe(ctx context.Context, userID string, kind Kind) (*Subscription, error)
	// Create appends a record and returns its generated id.
	Create(ctx context.Context, userID string, kind Kind, fields Fields) (string, error)
	// Update merges the patch into an existing record.
	Update(ctx context.Context, userID string, kind Kind, id string, patch Patch) error
	// Remove deletes a record. Removing an absent record fails.
	Remove(ctx context.Context, userID string, kind Kind, id string) error
}

// Snapshot is one full read of a collection. Err is set when the read failed;
// the subscription stays open and the next change triggers a new read.
type Snapshot struct {
	Entries []Entry
	Err     error
}

// FetchFunc reads the whole collection.
type FetchFunc func(ctx context.Context) ([]Entry, error)

// Subscription is a stream of snapshots owned by a single consumer.
type Subscription struct {
	out    chan Snapshot
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSubscription starts a stream that reads the collection once immediately
// and again after every signal on changes. Signals that arrive while a
// snapshot is waiting to be delivered collapse into a single re-read.
// release runs once the stream has ended.
func NewSubscription(ctx context.Context, fetch FetchFunc, changes <-chan struct{}, release func()) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		out:    make(chan Snapshot),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.out)
		defer func() {
			if release != nil {
				release()
			}
		}()

		for {
			entries, err := fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			if entries == nil && err == nil {
				entries = []Entry{}
			}
			select {
			case s.out <- Snapshot{Entries: entries, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return s
}

// Snapshots returns the stream. It is closed after Unsubscribe or when the
// subscribing context ends.
func (s *Subscription) Snapshots() <-chan Snapshot { return s.out }

// Unsubscribe stops delivery and waits for the underlying resources to be
// released. Further calls are no-ops.
func (s *Subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}

// Fetch reads a collection once through a short-lived subscription.
func Fetch(ctx context.Context, store Store, userID string, kind Kind) ([]Entry, error) {
	sub, err := store.Subscribe(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			return nil, ctx.Err()
		}
		return snap.Entries, snap.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Watch subscribes to a collection and calls fn with the month view derived
// from every snapshot until ctx ends or fn returns an error. The subscription
// is released before Watch returns.
func Watch(ctx context.Context, store Store, userID string, kind Kind, period Period, fn func(View, error) error) error {
	sub, err := store.Subscribe(ctx, userID, kind)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return ctx.Err()
			}
			if snap.Err != nil {
				if err := fn(View{}, snap.Err); err != nil {
					return err
				}
				continue
			}
			if err := fn(Aggregate(snap.Entries, kind, period), nil); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
