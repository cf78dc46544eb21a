package ledger

// Totals are the sums over a set of entries.
type Totals struct {
	Total    float64               `json:"total"`
	Pending  float64               `json:"pending"`
	Settled  float64               `json:"settled"`
	ByStatus map[Status]float64    `json:"byStatus"`
	ByType   map[EntryType]float64 `json:"byType"`
}

// View is the derived state of one collection for a reference month.
type View struct {
	Kind    Kind    `json:"kind"`
	Period  Period  `json:"period"`
	Entries []Entry `json:"entries"`
	Totals  Totals  `json:"totals"`
}

// Filter returns the entries dated within p, in their original order.
func Filter(entries []Entry, p Period) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize totals entries. Status totals are keyed by effective status;
// type totals use each entry's type, or the type implied by its collection
// when the record has none.
func Summarize(entries []Entry) Totals {
	var all, pending, settled []float64
	byStatus := make(map[Status][]float64)
	byType := make(map[EntryType][]float64)

	for _, e := range entries {
		all = append(all, e.Amount)
		status := e.Status.Effective()
		byStatus[status] = append(byStatus[status], e.Amount)
		if status.Settled() {
			settled = append(settled, e.Amount)
		} else {
			pending = append(pending, e.Amount)
		}
		typ := e.EffectiveType()
		byType[typ] = append(byType[typ], e.Amount)
	}

	t := Totals{
		Total:    sum(all),
		Pending:  sum(pending),
		Settled:  sum(settled),
		ByStatus: make(map[Status]float64, len(byStatus)),
		ByType:   make(map[EntryType]float64, len(byType)),
	}
	for s, amounts := range byStatus {
		t.ByStatus[s] = sum(amounts)
	}
	for typ, amounts := range byType {
		t.ByType[typ] = sum(amounts)
	}
	return t
}

// Aggregate filters entries to p and totals the result.
func Aggregate(entries []Entry, kind Kind, p Period) View {
	filtered := Filter(entries, p)
	return View{
		Kind:    kind,
		Period:  p,
		Entries: filtered,
		Totals:  Summarize(filtered),
	}
}
