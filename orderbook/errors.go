package orderbook

import "fmt"

// ApplyPrecondition is panicked by Book.Apply when an instruction violates
// the Evaluator<->Book contract: a Fill against a maker id the book does
// not have resting, an Insert with a duplicate id and positive remaining,
// an Insert with zero remaining at positive quantity, or an unknown
// instruction kind (spec.md §7). These can only happen if a caller feeds Apply
// instructions that did not come from this package's Evaluator against
// this same book, so they are treated as caller bugs, not data-plane
// outcomes, and are allowed to abort the process.
type ApplyPrecondition struct {
	Instruction Instruction
	Msg         string
}

func (e *ApplyPrecondition) Error() string {
	return fmt.Sprintf("orderbook: apply precondition violated: %s (instruction=%+v)", e.Msg, e.Instruction)
}

func panicPrecondition(instr Instruction, msg string) {
	panic(&ApplyPrecondition{Instruction: instr, Msg: msg})
}
