// Package importer loads a realtime-database export into a Store. An export
// holds a user's collections as objects keyed by push id:
//
//	{"expenses": {"-Nx1": {...}}, "incomes": {"-Nx2": {...}}}
//
// Full database exports nest this under users/{uid}.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/logger"
)

// Tree is one user's raw collections.
type Tree map[ledger.Kind]map[string]map[string]any

// Record is a decoded entry and the export key it came from.
type Record struct {
	Key   string
	Entry ledger.Entry
}

// Skip describes a record that could not be imported.
type Skip struct {
	Kind   ledger.Kind `json:"kind"`
	Key    string      `json:"key"`
	Reason string      `json:"reason"`
}

// Result summarizes an import.
type Result struct {
	Created map[ledger.Kind]int `json:"created"`
	Skipped []Skip              `json:"skipped"`
}

// ParseTree reads an export. When firebaseUID is set the document is a full
// database export and the subtree users/{firebaseUID} is used.
func ParseTree(data []byte, firebaseUID string) (Tree, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("export is not a JSON object: %v", err))
	}

	if firebaseUID != "" {
		var users map[string]map[string]json.RawMessage
		if err := json.Unmarshal(doc["users"], &users); err != nil || users == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "export has no users object")
		}
		sub, ok := users[firebaseUID]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("export has no user %q", firebaseUID))
		}
		doc = sub
	}

	tree := make(Tree, len(ledger.Kinds()))
	for _, kind := range ledger.Kinds() {
		raw, ok := doc[string(kind)]
		if !ok {
			continue
		}
		var records map[string]map[string]any
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s is not an object of records: %v", kind, err))
		}
		tree[kind] = records
	}
	return tree, nil
}

// Decode decodes every record of kind in key order. Push ids sort
// chronologically, so the result follows the original insertion order.
func (t Tree) Decode(kind ledger.Kind) ([]Record, []Skip) {
	records := t[kind]
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		out     = make([]Record, 0, len(keys))
		skipped []Skip
	)
	for _, k := range keys {
		e, err := ledger.DecodeRecord(kind, k, records[k])
		if err != nil {
			skipped = append(skipped, Skip{Kind: kind, Key: k, Reason: err.Error()})
			continue
		}
		out = append(out, Record{Key: k, Entry: e})
	}
	return out, skipped
}

// Run writes every decodable record of t into userID's collections.
// Undecodable records are skipped and reported; a store failure stops the
// import and returns what was written so far.
func Run(ctx context.Context, store ledger.Store, userID string, t Tree) (Result, error) {
	log := logger.Named("importer")
	res := Result{Created: make(map[ledger.Kind]int, len(ledger.Kinds()))}

	for _, kind := range ledger.Kinds() {
		records, skipped := t.Decode(kind)
		for _, s := range skipped {
			log.Warnw("skipping record", "kind", s.Kind, "key", s.Key, "reason", s.Reason)
		}
		res.Skipped = append(res.Skipped, skipped...)

		for _, r := range records {
			if _, err := store.Create(ctx, userID, kind, r.Entry.Fields); err != nil {
				return res, fmt.Errorf("import %s/%s: %w", kind, r.Key, err)
			}
			res.Created[kind]++
		}
	}

	log.Infow("import finished",
		"user_id", userID,
		"expenses", res.Created[ledger.KindExpenses],
		"incomes", res.Created[ledger.KindIncomes],
		"skipped", len(res.Skipped),
	)
	return res, nil
}
