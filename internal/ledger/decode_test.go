package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carteira/internal/testutil"
)

func TestDecodeRecord(t *testing.T) {
	t.Run("expense", func(t *testing.T) {
		e, err := DecodeRecord(KindExpenses, "-Nx1", map[string]any{
			"amount":       150.75,
			"description":  "Aluguel",
			"dueDate":      "2024-03-10",
			"repeatOption": "Sempre",
			"status":       "PAGA",
		})
		require.NoError(t, err)
		assert.Equal(t, "-Nx1", e.ID)
		assert.Equal(t, KindExpenses, e.Kind)
		assert.Equal(t, 150.75, e.Amount)
		assert.Equal(t, "2024-03-10", e.Date)
		assert.Equal(t, StatusPaga, e.Status)
		assert.Equal(t, RepeatAlways, e.RepeatOption)
	})

	t.Run("income uses receivedDate", func(t *testing.T) {
		e, err := DecodeRecord(KindIncomes, "-Nx2", map[string]any{
			"amount":       "3.500,00",
			"description":  "Salário",
			"receivedDate": "2024-03-05",
		})
		require.NoError(t, err)
		assert.Equal(t, 3500.0, e.Amount)
		assert.Equal(t, "2024-03-05", e.Date)
		assert.Equal(t, StatusPendente, e.Status.Effective())
	})

	t.Run("missing amount", func(t *testing.T) {
		_, err := DecodeRecord(KindExpenses, "x", map[string]any{"description": "a"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := DecodeRecord(KindExpenses, "x", map[string]any{"amount": 1.0})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := DecodeRecord(KindExpenses, "x", map[string]any{"amount": -1.0, "description": "a"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := DecodeRecord(KindExpenses, "x", map[string]any{"amount": 1.0, "description": "a", "status": "LOST"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("malformed date is kept", func(t *testing.T) {
		e, err := DecodeRecord(KindExpenses, "x", map[string]any{"amount": 1.0, "description": "a", "dueDate": "someday"})
		require.NoError(t, err)
		assert.Equal(t, "someday", e.Date)
	})
}

func TestEntryMarshalJSON(t *testing.T) {
	expenseJSON, err := json.Marshal(Entry{ID: "1", Kind: KindExpenses, Fields: Fields{Amount: 10, Description: "a", Date: "2024-03-01"}})
	require.NoError(t, err)
	var expense map[string]any
	require.NoError(t, json.Unmarshal(expenseJSON, &expense))
	assert.Equal(t, "2024-03-01", expense["dueDate"])
	assert.Equal(t, "PENDENTE", expense["status"])
	assert.NotContains(t, expense, "receivedDate")
	assert.NotContains(t, expense, "repeatOption")

	incomeJSON, err := json.Marshal(Entry{ID: "2", Kind: KindIncomes, Fields: Fields{Amount: 10, Description: "b", Date: "2024-03-02", Status: StatusRecebido}})
	require.NoError(t, err)
	var income map[string]any
	require.NoError(t, json.Unmarshal(incomeJSON, &income))
	assert.Equal(t, "2024-03-02", income["receivedDate"])
	assert.Equal(t, "RECEBIDO", income["status"])
}

func TestPatchValidate(t *testing.T) {
	negative := -5.0
	empty := " "
	unknown := Status("LOST")
	paga := StatusPaga

	testutil.AssertAppError(t, Patch{}.Validate(), "VALIDATION_ERROR")
	testutil.AssertAppError(t, Patch{Amount: &negative}.Validate(), "VALIDATION_ERROR")
	testutil.AssertAppError(t, Patch{Description: &empty}.Validate(), "VALIDATION_ERROR")
	testutil.AssertAppError(t, Patch{Status: &unknown}.Validate(), "VALIDATION_ERROR")
	assert.NoError(t, Patch{Status: &paga}.Validate())
}
