package orderbook

// Book holds both sides of a limit order book plus a single by-id index
// and the node pool that owns all resting-order storage (spec.md §3).
// A Book instance is not safe for concurrent mutation (spec.md §5); the
// expected deployment is one Book per symbol, pinned to one goroutine.
type Book struct {
	bids  *side
	asks  *side
	byID  map[OrderID]*node
	pool  *pool
}

// NewBook constructs an empty order book.
func NewBook() *Book {
	return &Book{
		bids: newSide(true),
		asks: newSide(false),
		byID: make(map[OrderID]*node),
		pool: newPool(),
	}
}

func (b *Book) sideFor(s Side) *side {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// oppositeSide returns the side a taker of s would cross into.
func (b *Book) oppositeSide(s Side) *side {
	if s == Buy {
		return b.asks
	}
	return b.bids
}

// Contains reports whether id currently names a resting order.
func (b *Book) Contains(id OrderID) bool {
	_, ok := b.byID[id]
	return ok
}

// Lookup returns the current resting state of id, if any. The returned
// Order is a copy; mutating it has no effect on the book.
func (b *Book) Lookup(id OrderID) (Order, bool) {
	n, ok := b.byID[id]
	if !ok {
		return Order{}, false
	}
	return n.order, true
}

// Count returns the total number of resting orders across both sides.
func (b *Book) Count() int {
	return len(b.byID)
}

// IsEmpty reports whether the book has no resting orders.
func (b *Book) IsEmpty() bool {
	return len(b.byID) == 0
}

// BestBid returns the highest resting buy price and the total quantity
// resting at it, or ok=false if no buy orders rest.
func (b *Book) BestBid() (price Price, qty Qty, ok bool) {
	return bestOf(b.bids)
}

// BestAsk returns the lowest resting sell price and the total quantity
// resting at it, or ok=false if no sell orders rest.
func (b *Book) BestAsk() (price Price, qty Qty, ok bool) {
	return bestOf(b.asks)
}

func bestOf(s *side) (Price, Qty, bool) {
	lvl := s.best()
	if lvl == nil {
		return 0, 0, false
	}
	return lvl.price, lvl.total, true
}

// MidPrice returns the arithmetic mid of best bid and best ask, truncated
// like every other division in this package. Added per SPEC_FULL.md §4 as
// a read-only convenience; it performs no mutation and names no new
// operation.
func (b *Book) MidPrice() (Price, bool) {
	bidPrice, _, bidOK := b.BestBid()
	askPrice, _, askOK := b.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return (bidPrice + askPrice) / 2, true
}

// TopBids returns up to n bid levels, highest price first.
func (b *Book) TopBids(n int) []PriceLevelView {
	return b.bids.top(n)
}

// TopAsks returns up to n ask levels, lowest price first.
func (b *Book) TopAsks(n int) []PriceLevelView {
	return b.asks.top(n)
}

// BidDepth and AskDepth return the number of distinct price levels
// resting on each side.
func (b *Book) BidDepth() int { return b.bids.depth() }
func (b *Book) AskDepth() int { return b.asks.depth() }

// PriceLevelView is a borrowed, copy-out snapshot of one price level. It
// must not be assumed current past the next Apply call (spec.md §6).
type PriceLevelView struct {
	Price      Price
	Quantity   Qty
	OrderCount int
}

// BookSnapshot is a copy-out view of both sides' top levels, added by
// SPEC_FULL.md §4 to give §6's depth/top-N queries a concrete return
// shape.
type BookSnapshot struct {
	Bids []PriceLevelView
	Asks []PriceLevelView
}

// Snapshot copies out up to depth levels from each side.
func (b *Book) Snapshot(depth int) BookSnapshot {
	return BookSnapshot{Bids: b.TopBids(depth), Asks: b.TopAsks(depth)}
}

// Apply mutates the book to reflect instr and returns the resulting
// per-order outcome (spec.md §4.4). Apply is the only way book state
// ever changes.
func (b *Book) Apply(instr Instruction) Outcome {
	switch instr.Kind {
	case InsertInstr:
		return b.applyInsert(instr)
	case FillInstr:
		return b.applyFill(instr)
	case DeleteInstr:
		return b.applyDelete(instr)
	case NoOpInstr:
		return Outcome{Kind: OutcomeNoOp}
	default:
		panicPrecondition(instr, "unknown instruction kind")
		return Outcome{}
	}
}

func (b *Book) applyInsert(instr Instruction) Outcome {
	order := instr.RestOrder
	if order.Remaining == 0 {
		if order.Quantity > 0 {
			panicPrecondition(instr, "insert with remaining == 0 at quantity > 0")
		}
		// Degenerate zero-quantity order; never rests, advisory only.
		return Outcome{Kind: OutcomeInserted, Remaining: 0}
	}
	if b.Contains(order.ID) {
		panicPrecondition(instr, "duplicate order id on insert")
	}
	lvl := b.sideFor(order.Side).getOrCreate(order.Price)
	n := lvl.addOrder(b.pool, order)
	b.byID[order.ID] = n
	return Outcome{Kind: OutcomeInserted, Remaining: order.Remaining}
}

func (b *Book) applyFill(instr Instruction) Outcome {
	if instr.IsTaker {
		// Synthetic record of the taker's own fill, for tape/audit only.
		return Outcome{Kind: OutcomeFilled, Remaining: 0}
	}
	n, ok := b.byID[instr.OrderID]
	if !ok {
		panicPrecondition(instr, "fill against unknown maker id")
	}
	s := b.sideFor(n.order.Side)
	lvl := n.level
	removed, remainingAfter := lvl.fillOrder(n, instr.Qty)
	if removed {
		delete(b.byID, instr.OrderID)
		s.removeIfEmpty(lvl)
		b.pool.dealloc(n)
		return Outcome{Kind: OutcomeFilled, Remaining: 0}
	}
	return Outcome{Kind: OutcomePartial, Remaining: remainingAfter}
}

func (b *Book) applyDelete(instr Instruction) Outcome {
	n, ok := b.byID[instr.OrderID]
	if !ok {
		// The Evaluator may emit Delete for a taker id that never rested
		// (IOCLeftover); absence is accepted silently.
		return Outcome{Kind: OutcomeNoOp}
	}
	s := b.sideFor(n.order.Side)
	lvl := n.level
	lvl.removeOrder(n)
	delete(b.byID, instr.OrderID)
	s.removeIfEmpty(lvl)
	b.pool.dealloc(n)
	return Outcome{Kind: OutcomeDeleted}
}
