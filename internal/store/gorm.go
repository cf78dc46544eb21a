package store

import (
	"context"

	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/logger"
	"carteira/internal/models"
	"carteira/internal/notify"
	"carteira/internal/uuid"
)

// GormStore keeps entries in the entries table.
type GormStore struct {
	db  *gorm.DB
	hub *notify.Hub
	announcer
}

var _ ledger.Store = (*GormStore)(nil)

// NewGormStore creates a GormStore. Subscriptions listen on hub; writes are
// announced through pub, or directly on hub when pub is nil.
func NewGormStore(db *gorm.DB, hub *notify.Hub, pub notify.Publisher) *GormStore {
	return &GormStore{
		db:        db,
		hub:       hub,
		announcer: announcer{hub: hub, pub: pub, log: logger.Named("store")},
	}
}

// Subscribe implements ledger.Store.
func (s *GormStore) Subscribe(ctx context.Context, userID string, kind ledger.Kind) (*ledger.Subscription, error) {
	if err := checkOwner(userID, kind); err != nil {
		return nil, err
	}
	changes, cancel := s.hub.Subscribe(ledger.Path(userID, kind))
	fetch := func(ctx context.Context) ([]ledger.Entry, error) {
		return s.list(ctx, userID, kind)
	}
	return ledger.NewSubscription(ctx, fetch, changes, cancel), nil
}

func (s *GormStore) list(ctx context.Context, userID string, kind ledger.Kind) ([]ledger.Entry, error) {
	var rows []models.Entry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemote, err)
	}

	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := toEntry(row)
		if err != nil {
			s.log.Warnw("skipping undecodable entry", "entry_id", row.ID, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Create implements ledger.Store.
func (s *GormStore) Create(ctx context.Context, userID string, kind ledger.Kind, fields ledger.Fields) (string, error) {
	if err := checkOwner(userID, kind); err != nil {
		return "", err
	}
	if err := fields.Validate(); err != nil {
		return "", err
	}

	row := &models.Entry{
		UserID:       userID,
		Kind:         string(kind),
		Amount:       fields.Amount,
		Description:  fields.Description,
		Date:         fields.Date,
		Status:       string(fields.Status),
		RepeatOption: string(fields.RepeatOption),
		Type:         string(fields.Type),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrRemote, err)
	}

	s.announce(ctx, userID, kind, row.ID, notify.OpCreate)
	return row.ID, nil
}

// Update implements ledger.Store.
func (s *GormStore) Update(ctx context.Context, userID string, kind ledger.Kind, id string, patch ledger.Patch) error {
	if err := checkOwner(userID, kind); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if !uuid.IsValid(id) {
		return apperrors.ErrEntryNotFound
	}

	updates := make(map[string]any, 3)
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}

	res := s.db.WithContext(ctx).Model(&models.Entry{}).
		Where("id = ? AND user_id = ? AND kind = ?", id, userID, string(kind)).
		Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrRemote, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}

	s.announce(ctx, userID, kind, id, notify.OpUpdate)
	return nil
}

// Remove implements ledger.Store.
func (s *GormStore) Remove(ctx context.Context, userID string, kind ledger.Kind, id string) error {
	if err := checkOwner(userID, kind); err != nil {
		return err
	}
	if !uuid.IsValid(id) {
		return apperrors.ErrEntryNotFound
	}

	res := s.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ? AND kind = ?", id, userID, string(kind)).
		Delete(&models.Entry{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrRemote, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}

	s.announce(ctx, userID, kind, id, notify.OpRemove)
	return nil
}

// toEntry is the decode step for stored rows.
func toEntry(row models.Entry) (ledger.Entry, error) {
	kind, err := ledger.ParseKind(row.Kind)
	if err != nil {
		return ledger.Entry{}, err
	}
	fields := ledger.Fields{
		Amount:       row.Amount,
		Description:  row.Description,
		Date:         row.Date,
		Status:       ledger.Status(row.Status),
		RepeatOption: ledger.RepeatOption(row.RepeatOption),
		Type:         ledger.EntryType(row.Type),
	}
	if err := fields.Validate(); err != nil {
		return ledger.Entry{}, err
	}
	return ledger.Entry{ID: row.ID, Kind: kind, Fields: fields}, nil
}
