// Package ledger holds the income and expense ledger: the Entry model and its
// decode step, the month filter and aggregation engine, the Store contract with
// its snapshot subscriptions, and the Coordinator that validates mutations
// before they reach a Store.
package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "carteira/internal/errors"
)

// Kind names one of the two per-user collections.
type Kind string

const (
	KindExpenses Kind = "expenses"
	KindIncomes  Kind = "incomes"
)

// Kinds returns every collection kind.
func Kinds() []Kind { return []Kind{KindExpenses, KindIncomes} }

// ParseKind validates a collection name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindExpenses, KindIncomes:
		return Kind(s), nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown collection %q", s))
}

// DateField is the record field carrying the entry's calendar date.
func (k Kind) DateField() string {
	if k == KindIncomes {
		return "receivedDate"
	}
	return "dueDate"
}

// ImpliedType is the entry type of records read from this collection.
func (k Kind) ImpliedType() EntryType {
	if k == KindIncomes {
		return TypeReceita
	}
	return TypeDespesa
}

// Path is the collection path of kind for the given user.
func Path(userID string, kind Kind) string {
	return "users/" + userID + "/" + string(kind)
}

// Status is the payment state of an entry. The zero value means pending.
type Status string

const (
	StatusPendente Status = "PENDENTE"
	StatusPaga     Status = "PAGA"
	StatusPago     Status = "PAGO"
	StatusRecebido Status = "RECEBIDO"
)

// Effective returns the status with absence resolved to PENDENTE.
func (s Status) Effective() Status {
	if s == "" {
		return StatusPendente
	}
	return s
}

// Settled reports whether the status marks the entry as paid or received.
func (s Status) Settled() bool {
	switch s {
	case StatusPaga, StatusPago, StatusRecebido:
		return true
	}
	return false
}

// Known reports whether s is one of the recognized statuses (or absent).
func (s Status) Known() bool {
	switch s {
	case "", StatusPendente, StatusPaga, StatusPago, StatusRecebido:
		return true
	}
	return false
}

// AllowedFor reports whether s may be assigned to an entry of kind.
func (s Status) AllowedFor(kind Kind) bool {
	switch s {
	case StatusPendente:
		return true
	case StatusPaga, StatusPago:
		return kind == KindExpenses
	case StatusRecebido:
		return kind == KindIncomes
	}
	return false
}

// SettledStatus is the status used to mark an entry of kind as settled.
func SettledStatus(kind Kind) Status {
	if kind == KindIncomes {
		return StatusRecebido
	}
	return StatusPaga
}

// RepeatOption is recorded on expenses but never expanded into occurrences.
type RepeatOption string

const (
	RepeatNever       RepeatOption = "Não repetir"
	RepeatAlways      RepeatOption = "Sempre"
	RepeatInstallment RepeatOption = "Parcelado"
)

// EntryType is the optional DESPESA/RECEITA marker.
type EntryType string

const (
	TypeDespesa EntryType = "DESPESA"
	TypeReceita EntryType = "RECEITA"
)

// Fields are the mutable contents of an entry.
type Fields struct {
	Amount       float64
	Description  string
	Date         string
	Status       Status
	RepeatOption RepeatOption
	Type         EntryType
}

// Validate checks the required fields of a record.
func (f Fields) Validate() error {
	if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) || f.Amount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a non-negative number")
	}
	if strings.TrimSpace(f.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if !f.Status.Known() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown status %q", f.Status))
	}
	switch f.Type {
	case "", TypeDespesa, TypeReceita:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown type %q", f.Type))
	}
	return nil
}

// Entry is one income or expense record of a user's collection.
type Entry struct {
	ID   string
	Kind Kind
	Fields
}

// EffectiveType is the record's type, falling back to the collection's.
func (e Entry) EffectiveType() EntryType {
	if e.Type != "" {
		return e.Type
	}
	return e.Kind.ImpliedType()
}

// MarshalJSON writes the entry with its collection's date field name.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"id":          e.ID,
		"amount":      e.Amount,
		"description": e.Description,
		"status":      e.Status.Effective(),
	}
	m[e.Kind.DateField()] = e.Date
	if e.RepeatOption != "" {
		m["repeatOption"] = e.RepeatOption
	}
	if e.Type != "" {
		m["type"] = e.Type
	}
	return json.Marshal(m)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Amount      *float64
	Description *string
	Status      *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Description == nil && p.Status == nil
}

// Apply merges the patch into f.
func (p Patch) Apply(f Fields) Fields {
	if p.Amount != nil {
		f.Amount = *p.Amount
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	return f
}

// Changes describes the patch as a field map, for audit records.
func (p Patch) Changes() map[string]any {
	m := make(map[string]any, 3)
	if p.Amount != nil {
		m["amount"] = *p.Amount
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	return m
}
