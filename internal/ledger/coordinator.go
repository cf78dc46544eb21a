package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "carteira/internal/errors"
)

// State is the Coordinator's edit state.
type State int

const (
	Idle State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return "unknown"
}

// Draft is the create form as entered by the user.
type Draft struct {
	Amount       string
	Description  string
	Date         string
	RepeatOption RepeatOption
	Type         EntryType
}

// Buffer is the edit form of the selected entry.
type Buffer struct {
	Amount      string
	Description string
}

// Coordinator serializes the mutations of one collection view. It validates
// input and the signed-in user before calling the Store, and allows a single
// store call in flight at a time. Errors are returned to the caller and never
// retried.
type Coordinator struct {
	store Store
	auth  AuthProvider
	kind  Kind
	now   func() time.Time

	mu       sync.Mutex
	state    State
	selected *Entry
	buffer   Buffer
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock sets the clock used to date drafts that carry no date.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator for one collection kind.
func NewCoordinator(store Store, auth AuthProvider, kind Kind, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{store: store, auth: auth, kind: kind, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current edit state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected returns the entry being edited, if any.
func (c *Coordinator) Selected() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return Entry{}, false
	}
	return *c.selected, true
}

// Buffer returns the current form contents.
func (c *Coordinator) Buffer() Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// StartEdit selects e and copies its amount and description into the buffer.
func (c *Coordinator) StartEdit(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Saving {
		return apperrors.ErrMutationInFlight
	}
	selected := e
	c.selected = &selected
	c.buffer = Buffer{
		Amount:      strconv.FormatFloat(e.Amount, 'f', -1, 64),
		Description: e.Description,
	}
	c.state = Editing
	return nil
}

// SetAmount replaces the amount text of the buffer.
func (c *Coordinator) SetAmount(text string) {
	c.mu.Lock()
	c.buffer.Amount = text
	c.mu.Unlock()
}

// SetDescription replaces the description text of the buffer.
func (c *Coordinator) SetDescription(text string) {
	c.mu.Lock()
	c.buffer.Description = text
	c.mu.Unlock()
}

// Cancel drops the selection and returns to Idle.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Saving {
		return apperrors.ErrMutationInFlight
	}
	c.reset()
	return nil
}

// CommitEdit saves the buffer into the selected entry.
func (c *Coordinator) CommitEdit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireSelection(); err != nil {
		c.mu.Unlock()
		return err
	}
	amountText := strings.TrimSpace(c.buffer.Amount)
	description := strings.TrimSpace(c.buffer.Description)
	if amountText == "" || description == "" {
		c.mu.Unlock()
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and description are required")
	}
	amount, err := ParseAmount(amountText)
	if err != nil {
		c.mu.Unlock()
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	id, err := c.userID(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	entryID := c.selected.ID
	c.state = Saving
	c.mu.Unlock()

	err = c.store.Update(ctx, id.UserID, c.kind, entryID, Patch{Amount: &amount, Description: &description})
	return c.finish(err)
}

// Delete removes the selected entry.
func (c *Coordinator) Delete(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireSelection(); err != nil {
		c.mu.Unlock()
		return err
	}
	id, err := c.userID(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	entryID := c.selected.ID
	c.state = Saving
	c.mu.Unlock()

	err = c.store.Remove(ctx, id.UserID, c.kind, entryID)
	return c.finish(err)
}

// SetStatus changes only the status of the selected entry. The buffer is not
// validated.
func (c *Coordinator) SetStatus(ctx context.Context, status Status) error {
	c.mu.Lock()
	if err := c.requireSelection(); err != nil {
		c.mu.Unlock()
		return err
	}
	if !status.AllowedFor(c.kind) {
		c.mu.Unlock()
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("status %q does not apply to %s", status, c.kind))
	}
	id, err := c.userID(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	entryID := c.selected.ID
	c.state = Saving
	c.mu.Unlock()

	err = c.store.Update(ctx, id.UserID, c.kind, entryID, Patch{Status: &status})
	return c.finish(err)
}

// Create validates the draft and appends a new pending entry. The buffer is
// cleared on success.
func (c *Coordinator) Create(ctx context.Context, d Draft) (string, error) {
	c.mu.Lock()
	if c.state == Saving {
		c.mu.Unlock()
		return "", apperrors.ErrMutationInFlight
	}
	fields, err := c.draftFields(d)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	id, err := c.userID(ctx)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	prev := c.state
	c.state = Saving
	c.mu.Unlock()

	entryID, err := c.store.Create(ctx, id.UserID, c.kind, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = prev
	if err != nil {
		return "", err
	}
	c.buffer = Buffer{}
	return entryID, nil
}

func (c *Coordinator) draftFields(d Draft) (Fields, error) {
	amountText := strings.TrimSpace(d.Amount)
	description := strings.TrimSpace(d.Description)
	if amountText == "" || description == "" {
		return Fields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and description are required")
	}
	amount, err := ParseAmount(amountText)
	if err != nil {
		return Fields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		date = c.now().Format(DateLayout)
	} else if !ValidDate(date) {
		return Fields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be formatted as YYYY-MM-DD")
	}
	if d.RepeatOption != "" && c.kind != KindExpenses {
		return Fields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "repeat option applies to expenses only")
	}

	f := Fields{
		Amount:       amount,
		Description:  description,
		Date:         date,
		Status:       StatusPendente,
		RepeatOption: d.RepeatOption,
		Type:         d.Type,
	}
	if err := f.Validate(); err != nil {
		return Fields{}, err
	}
	return f, nil
}

// requireSelection must be called with mu held.
func (c *Coordinator) requireSelection() error {
	switch {
	case c.state == Saving:
		return apperrors.ErrMutationInFlight
	case c.state != Editing || c.selected == nil:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "no entry selected")
	}
	return nil
}

func (c *Coordinator) userID(ctx context.Context) (Identity, error) {
	if c.auth == nil {
		return Identity{}, apperrors.ErrUnauthorized
	}
	id, ok := c.auth.CurrentUser(ctx)
	if !ok || id.UserID == "" {
		return Identity{}, apperrors.ErrUnauthorized
	}
	return id, nil
}

// finish leaves Saving: Idle on success, back to Editing on failure.
func (c *Coordinator) finish(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Editing
		return err
	}
	c.reset()
	return nil
}

func (c *Coordinator) reset() {
	c.state = Idle
	c.selected = nil
	c.buffer = Buffer{}
}
