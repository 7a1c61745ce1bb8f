package orderbook

// fillRecord captures one maker's contribution to a taker's walk, kept
// until the walk's outcome (FOK pass/fail) is known so that scratch
// commits and Fill instructions can be deferred together.
type fillRecord struct {
	id    OrderID
	owner OwnerID
	price Price
	qty   Qty
	avail Qty
}

// haltReason records which of the three atomic-stop conditions (post-only,
// STP cancel-taker, STP cancel-both) interrupted a match walk, if any.
type haltReason uint8

const (
	haltNone haltReason = iota
	haltPostOnly
	haltStpCancelTaker
	haltStpCancelBoth
)

// Evaluator transforms operations into instructions by reading a Book
// (never mutating it) and tracking a scratch index of virtual remaining
// quantities so that later operations in the same batch observe earlier
// ones' effects (spec.md §3, §4.5, §9). An Evaluator is single-threaded
// and must be reset between independent batches.
type Evaluator struct {
	scratch      map[OrderID]Qty
	fills        []fillRecord
	makerCancels []OrderID
	instr        []Instruction
}

// NewEvaluator returns an Evaluator with empty scratch state.
func NewEvaluator() *Evaluator {
	return &Evaluator{scratch: make(map[OrderID]Qty)}
}

// Reset clears the scratch index. Call it before any batch whose first
// operation must not observe a previous batch's virtual effects.
func (e *Evaluator) Reset() {
	for k := range e.scratch {
		delete(e.scratch, k)
	}
}

// Cancel evaluates a user-initiated cancel against book, honoring
// earlier-in-batch scratch effects: an id matched to zero or already
// cancelled earlier in this batch reads as gone, answering
// OrderNotFound just like an id that was never resting (spec.md §4.5.1
// and the "prefer the gone interpretation" resolution in spec.md §9).
func (e *Evaluator) Cancel(book *Book, orderID OrderID) []Instruction {
	avail, touched := e.scratch[orderID]
	if !touched {
		o, ok := book.Lookup(orderID)
		if !ok {
			return e.single(noOpInstruction(orderID, OrderNotFound))
		}
		avail = o.Remaining
	}
	if avail == 0 {
		return e.single(noOpInstruction(orderID, OrderNotFound))
	}
	e.scratch[orderID] = 0
	return e.single(deleteInstruction(orderID, UserCancelled))
}

func (e *Evaluator) single(instr Instruction) []Instruction {
	e.instr = e.instr[:0]
	e.instr = append(e.instr, instr)
	return e.instr
}

// Insert evaluates an incoming order against book's opposite side in
// best-price, then-FIFO order, implementing price-time priority with
// time-in-force, post-only and self-trade-prevention semantics
// (spec.md §4.5.2). It returns the instruction stream for this one
// operation; it does not apply anything to book.
func (e *Evaluator) Insert(book *Book, order Order) []Instruction {
	if book.Contains(order.ID) {
		return e.single(noOpInstruction(order.ID, OrderAlreadyExists))
	}
	if avail, touched := e.scratch[order.ID]; touched && avail > 0 {
		// Rested earlier in this same unapplied batch.
		return e.single(noOpInstruction(order.ID, OrderAlreadyExists))
	}

	opp := book.oppositeSide(order.Side)
	remaining := order.Remaining
	totalFilled := Qty(0)
	var weightedSum int64

	e.fills = e.fills[:0]
	e.makerCancels = e.makerCancels[:0]

	halt := haltNone
	var haltMakerID OrderID

	opp.walk(func(lvl *priceLevel) bool {
		if !crosses(order.Side, order.Price, lvl.price) {
			return false
		}
		keepGoing := true
		lvl.forEach(func(n *node) bool {
			if remaining == 0 {
				keepGoing = false
				return false
			}
			maker := n.order
			makerAvail, has := e.scratch[maker.ID]
			if !has {
				makerAvail = maker.Remaining
			}
			if makerAvail == 0 {
				return true
			}
			fillQty := remaining
			if makerAvail < fillQty {
				fillQty = makerAvail
			}

			if order.PostOnly {
				halt = haltPostOnly
				keepGoing = false
				return false
			}

			if order.Owner == maker.Owner {
				switch order.STP {
				case StpCancelTaker:
					halt = haltStpCancelTaker
					keepGoing = false
					return false
				case StpCancelMaker:
					e.makerCancels = append(e.makerCancels, maker.ID)
					return true
				case StpCancelBoth:
					halt = haltStpCancelBoth
					haltMakerID = maker.ID
					keepGoing = false
					return false
				}
			}

			remaining -= fillQty
			totalFilled += fillQty
			weightedSum += int64(lvl.price) * int64(fillQty)
			e.fills = append(e.fills, fillRecord{id: maker.ID, owner: maker.Owner, price: lvl.price, qty: fillQty, avail: makerAvail})
			return true
		})
		return keepGoing
	})

	switch halt {
	case haltPostOnly:
		return e.single(noOpInstruction(order.ID, PostOnlyFilled))
	case haltStpCancelTaker:
		return e.single(noOpInstruction(order.ID, StpCancelTakerReason))
	case haltStpCancelBoth:
		e.scratch[haltMakerID] = 0
		e.instr = e.instr[:0]
		e.instr = append(e.instr,
			noOpInstruction(order.ID, StpCancelBothReason),
			deleteInstruction(haltMakerID, StpCancelBothReason))
		return e.instr
	}

	if order.TIF == FOK && remaining > 0 {
		// Speculative walk failed the all-or-nothing test; every scratch
		// effect recorded above (fills and maker cancels) is discarded by
		// simply never committing it.
		return e.single(noOpInstruction(order.ID, FOKNotFilled))
	}

	for _, f := range e.fills {
		e.scratch[f.id] = f.avail - f.qty
	}
	for _, id := range e.makerCancels {
		e.scratch[id] = 0
	}

	e.instr = e.instr[:0]
	if totalFilled > 0 {
		avgPrice := Price(weightedSum / int64(totalFilled))
		e.instr = append(e.instr, fillInstruction(order.ID, order.Owner, avgPrice, totalFilled, true))
		for _, f := range e.fills {
			e.instr = append(e.instr, fillInstruction(f.id, f.owner, f.price, f.qty, false))
		}
	}
	for _, id := range e.makerCancels {
		e.instr = append(e.instr, deleteInstruction(id, StpCancelMakerReason))
	}

	noActivity := totalFilled == 0 && len(e.makerCancels) == 0

	if order.TIF == IOC {
		switch {
		case noActivity:
			e.instr = append(e.instr, noOpInstruction(order.ID, IOCNoFill))
		case remaining > 0:
			e.instr = append(e.instr, deleteInstruction(order.ID, IOCLeftover))
		}
		return e.instr
	}

	// GTC, and FOK that reached this point (which only happens fully
	// filled, i.e. remaining == 0).
	if noActivity || remaining > 0 {
		e.instr = append(e.instr, insertInstruction(order, remaining))
		if remaining > 0 {
			// Rests past this batch's end; later ops in the same batch
			// must see it without waiting for Book.Apply.
			e.scratch[order.ID] = remaining
		}
	}
	return e.instr
}
