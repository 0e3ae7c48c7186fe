package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStroke(id string) Stroke {
	return Stroke{
		ID:     id,
		Points: []Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		Color:  "#000000",
		Size:   4,
	}
}

func TestLedgerAppendAndUndo(t *testing.T) {
	ledger := NewStrokeLedger()
	s1, s2, s3 := testStroke("s1"), testStroke("s2"), testStroke("s3")

	ledger.Append(s1)
	ledger.Append(s2)
	ledger.Append(s3)

	assert.Equal(t, []Stroke{s1, s2, s3}, ledger.Replay())

	removed, ok := ledger.UndoLast()
	require.True(t, ok)
	assert.Equal(t, "s3", removed.ID)
	assert.Equal(t, []Stroke{s1, s2}, ledger.Replay())
}

func TestLedgerUndoOnEmpty(t *testing.T) {
	ledger := NewStrokeLedger()

	_, ok := ledger.UndoLast()
	assert.False(t, ok)
}

func TestLedgerReplayIsCopy(t *testing.T) {
	ledger := NewStrokeLedger()
	ledger.Append(testStroke("s1"))

	replay := ledger.Replay()
	replay[0].ID = "mutated"

	assert.Equal(t, "s1", ledger.Replay()[0].ID)
}

func TestLedgerClear(t *testing.T) {
	ledger := NewStrokeLedger()
	ledger.Append(testStroke("s1"))
	ledger.Append(testStroke("s2"))

	ledger.Clear()

	assert.Zero(t, ledger.Len())
	assert.Empty(t, ledger.Replay())
}
