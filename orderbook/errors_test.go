package orderbook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These exercise Book.Apply's ApplyPrecondition panics directly by handing
// it instructions that an Evaluator bound to the same book would never
// produce (spec.md §7's boundary behavior: such instructions are a
// caller bug, not a data-plane outcome).

func TestApplyPanicsOnDuplicateInsertID(t *testing.T) {
	book := NewBook()
	ev := NewEvaluator()
	applyAll(t, book, ev.Insert(book, gtc("a1", "alice", Buy, 100, 10)))

	dup := insertInstruction(gtc("a1", "alice", Buy, 99, 5), 5)
	require.Panics(t, func() { book.Apply(dup) })
}

func TestApplyPanicsOnFillAgainstUnknownMaker(t *testing.T) {
	book := NewBook()
	bogus := fillInstruction("ghost", "alice", 100, 5, false)
	require.Panics(t, func() { book.Apply(bogus) })
}

func TestApplyPanicsOnInsertRemainingZeroAtPositiveQuantity(t *testing.T) {
	book := NewBook()
	order := gtc("a1", "alice", Buy, 100, 10)
	malformed := insertInstruction(order, 0)
	require.Panics(t, func() { book.Apply(malformed) })
}

func TestApplyAcceptsDegenerateZeroQuantityInsert(t *testing.T) {
	book := NewBook()
	order := gtc("a1", "alice", Buy, 100, 0)
	instr := insertInstruction(order, 0)

	var outcome Outcome
	require.NotPanics(t, func() { outcome = book.Apply(instr) })
	require.Equal(t, OutcomeInserted, outcome.Kind)
	require.False(t, book.Contains("a1"))
}

func TestApplyPanicsOnUnknownInstructionKind(t *testing.T) {
	book := NewBook()
	bogus := Instruction{Kind: InstructionKind(255), OrderID: "x"}
	require.Panics(t, func() { book.Apply(bogus) })
}
