package store

import (
	"context"
	"sync"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/logger"
	"carteira/internal/notify"
	"carteira/internal/uuid"
)

// MemoryStore keeps entries in process memory, in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]ledger.Entry
	hub         *notify.Hub
	announcer
}

var _ ledger.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore announcing writes on hub.
func NewMemoryStore(hub *notify.Hub) *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]ledger.Entry),
		hub:         hub,
		announcer:   announcer{hub: hub, log: logger.Named("store")},
	}
}

// Subscribe implements ledger.Store.
func (s *MemoryStore) Subscribe(ctx context.Context, userID string, kind ledger.Kind) (*ledger.Subscription, error) {
	if err := checkOwner(userID, kind); err != nil {
		return nil, err
	}
	path := ledger.Path(userID, kind)
	changes, cancel := s.hub.Subscribe(path)
	fetch := func(context.Context) ([]ledger.Entry, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return append([]ledger.Entry{}, s.collections[path]...), nil
	}
	return ledger.NewSubscription(ctx, fetch, changes, cancel), nil
}

// Create implements ledger.Store.
func (s *MemoryStore) Create(ctx context.Context, userID string, kind ledger.Kind, fields ledger.Fields) (string, error) {
	if err := checkOwner(userID, kind); err != nil {
		return "", err
	}
	if err := fields.Validate(); err != nil {
		return "", err
	}

	id := uuid.New()
	path := ledger.Path(userID, kind)
	s.mu.Lock()
	s.collections[path] = append(s.collections[path], ledger.Entry{ID: id, Kind: kind, Fields: fields})
	s.mu.Unlock()

	s.announce(ctx, userID, kind, id, notify.OpCreate)
	return id, nil
}

// Update implements ledger.Store.
func (s *MemoryStore) Update(ctx context.Context, userID string, kind ledger.Kind, id string, patch ledger.Patch) error {
	if err := checkOwner(userID, kind); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	path := ledger.Path(userID, kind)
	s.mu.Lock()
	i := s.indexOf(path, id)
	if i < 0 {
		s.mu.Unlock()
		return apperrors.ErrEntryNotFound
	}
	e := &s.collections[path][i]
	e.Fields = patch.Apply(e.Fields)
	s.mu.Unlock()

	s.announce(ctx, userID, kind, id, notify.OpUpdate)
	return nil
}

// Remove implements ledger.Store.
func (s *MemoryStore) Remove(ctx context.Context, userID string, kind ledger.Kind, id string) error {
	if err := checkOwner(userID, kind); err != nil {
		return err
	}

	path := ledger.Path(userID, kind)
	s.mu.Lock()
	i := s.indexOf(path, id)
	if i < 0 {
		s.mu.Unlock()
		return apperrors.ErrEntryNotFound
	}
	entries := s.collections[path]
	s.collections[path] = append(entries[:i:i], entries[i+1:]...)
	s.mu.Unlock()

	s.announce(ctx, userID, kind, id, notify.OpRemove)
	return nil
}

// Len returns the number of entries in a collection.
func (s *MemoryStore) Len(userID string, kind ledger.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[ledger.Path(userID, kind)])
}

// indexOf must be called with mu held.
func (s *MemoryStore) indexOf(path, id string) int {
	for i, e := range s.collections[path] {
		if e.ID == id {
			return i
		}
	}
	return -1
}
