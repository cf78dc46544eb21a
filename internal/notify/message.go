package notify

import (
	"encoding/json"
	"time"
)

// Op is the kind of mutation behind a change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Change says that the collection at Path was modified. Subscribers re-read
// the whole collection, so only the path matters for delivery.
type Change struct {
	Path      string    `json:"path"`
	EntryID   string    `json:"entry_id"`
	Op        Op        `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChange stamps a change with the current time.
func NewChange(path, entryID string, op Op) Change {
	return Change{Path: path, EntryID: entryID, Op: op, Timestamp: time.Now().UTC()}
}

// ToJSON encodes the change for the wire.
func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ChangeFromJSON decodes a change received from the wire.
func ChangeFromJSON(data []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return Change{}, err
	}
	return c, nil
}
