package ledger

import (
	"fmt"
	"math"
	"strings"

	apperrors "carteira/internal/errors"
)

// DecodeRecord turns a raw document-store record into a typed Entry.
// Records whose required fields are missing or of the wrong shape fail with
// a validation error. The date is kept as written; entries with unusable
// dates are dropped later by the month filter, not here.
func DecodeRecord(kind Kind, id string, raw map[string]any) (Entry, error) {
	if id == "" {
		return Entry{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "record has no id")
	}
	if raw == nil {
		return Entry{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("record %s is empty", id))
	}

	amount, err := decodeAmount(raw["amount"])
	if err != nil {
		return Entry{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("record %s: %v", id, err))
	}

	f := Fields{
		Amount:       amount,
		Description:  stringField(raw, "description"),
		Date:         stringField(raw, kind.DateField()),
		Status:       Status(stringField(raw, "status")),
		RepeatOption: RepeatOption(stringField(raw, "repeatOption")),
		Type:         EntryType(stringField(raw, "type")),
	}
	if f.Date == "" {
		f.Date = stringField(raw, "date")
	}
	if err := f.Validate(); err != nil {
		return Entry{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("record %s: %s", id, err.Error()))
	}

	return Entry{ID: id, Kind: kind, Fields: f}, nil
}

func decodeAmount(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("amount is missing")
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return ParseAmount(n)
	default:
		return 0, fmt.Errorf("amount has unsupported type %T", v)
	}
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

// Validate checks the fields a patch sets.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "nothing to update")
	}
	if p.Amount != nil && (math.IsNaN(*p.Amount) || math.IsInf(*p.Amount, 0) || *p.Amount < 0) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a non-negative number")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if p.Status != nil && (*p.Status == "" || !p.Status.Known()) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown status %q", *p.Status))
	}
	return nil
}
