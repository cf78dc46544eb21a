// Package store implements ledger.Store on top of gorm and in memory. Both
// implementations announce every successful write through a notify.Publisher
// so that open snapshot subscriptions re-read their collection.
package store

import (
	"context"

	"go.uber.org/zap"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/notify"
)

func checkOwner(userID string, kind ledger.Kind) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	_, err := ledger.ParseKind(string(kind))
	return err
}

// announcer publishes changes, falling back to the local hub when the
// publisher fails so that this process's subscribers still refresh.
type announcer struct {
	hub *notify.Hub
	pub notify.Publisher
	log *zap.SugaredLogger
}

func (a announcer) announce(ctx context.Context, userID string, kind ledger.Kind, entryID string, op notify.Op) {
	c := notify.NewChange(ledger.Path(userID, kind), entryID, op)
	if a.pub == nil {
		a.hub.Dispatch(c)
		return
	}
	if err := a.pub.Publish(context.WithoutCancel(ctx), c); err != nil {
		a.log.Warnw("failed to publish change, notifying local subscribers only",
			"error", err,
			"path", c.Path,
			"op", c.Op,
		)
		a.hub.Dispatch(c)
	}
}
