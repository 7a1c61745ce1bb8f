package orderbook

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLevelConservation checks that a price level's cached total always
// equals the sum of its resting orders' remaining quantity, across a
// randomized sequence of inserts and cancels on one level.
func TestLevelConservation(t *testing.T) {
	book := NewBook()
	ev := NewEvaluator()
	rng := rand.New(rand.NewSource(7))

	resting := map[OrderID]bool{}
	for i := 0; i < 200; i++ {
		id := OrderID(fmt.Sprintf("lvl-%d", i))
		switch rng.Intn(3) {
		case 0, 1:
			o := gtc(string(id), "owner", Sell, 100, int64(1+rng.Intn(9)))
			instrs := ev.Insert(book, o)
			applyAll(t, book, instrs)
			if book.Contains(id) {
				resting[id] = true
			}
		case 2:
			if len(resting) == 0 {
				continue
			}
			for victim := range resting {
				instrs := ev.Cancel(book, victim)
				applyAll(t, book, instrs)
				delete(resting, victim)
				break
			}
		}

		lvl := book.asks.get(100)
		if lvl == nil {
			require.Empty(t, resting)
			continue
		}
		var sum Qty
		lvl.forEach(func(n *node) bool {
			sum += n.order.Remaining
			return true
		})
		require.Equal(t, sum, lvl.total, "cached total must equal the sum of resting remaining quantities")
	}
}

// TestFIFOWithinLevel checks that makers at the same price fill in the
// order they were inserted, never out of turn.
func TestFIFOWithinLevel(t *testing.T) {
	book := NewBook()
	ev := NewEvaluator()

	ids := []string{"m1", "m2", "m3", "m4"}
	for _, id := range ids {
		applyAll(t, book, ev.Insert(book, gtc(id, "maker", Sell, 100, 2)))
	}

	taker := mkOrder("taker", "alice", Buy, 100, 5, GTC, StpNone, false)
	instrs := ev.Insert(book, taker)

	var fillOrder []OrderID
	for _, instr := range instrs {
		if instr.Kind == FillInstr && !instr.IsTaker {
			fillOrder = append(fillOrder, instr.OrderID)
		}
	}
	require.Equal(t, []OrderID{"m1", "m2", "m3"}, fillOrder)
}

// TestVWAPTruncates checks the taker's reported average fill price is the
// truncating integer division of total notional by total filled quantity.
func TestVWAPTruncates(t *testing.T) {
	book := NewBook()
	ev := NewEvaluator()

	applyAll(t, book, ev.Insert(book, gtc("ask1", "bob", Sell, 100, 1)))
	applyAll(t, book, ev.Insert(book, gtc("ask2", "carol", Sell, 101, 1)))
	applyAll(t, book, ev.Insert(book, gtc("ask3", "dave", Sell, 103, 1)))

	taker := mkOrder("bid1", "alice", Buy, 103, 3, GTC, StpNone, false)
	instrs := ev.Insert(book, taker)

	// notional = 100 + 101 + 103 = 304, filled = 3, 304/3 = 101 (truncated)
	require.Equal(t, Qty(3), instrs[0].Qty)
	require.Equal(t, Price(101), instrs[0].Price)
}

// TestResidualConservationAcrossFillsAndInserts replays a larger random
// scenario and checks Book.Count matches the number of ids that ended up
// resting.
func TestResidualConservationAcrossFillsAndInserts(t *testing.T) {
	book := NewBook()
	ev := NewEvaluator()
	rng := rand.New(rand.NewSource(42))

	owners := []string{"alice", "bob", "carol"}
	resting := map[OrderID]bool{}
	for i := 0; i < 500; i++ {
		id := OrderID(fmt.Sprintf("res-%d", i))
		side := Buy
		if rng.Intn(2) == 0 {
			side = Sell
		}
		price := int64(95 + rng.Intn(10))
		owner := owners[rng.Intn(len(owners))]
		tif := GTC
		switch rng.Intn(4) {
		case 1:
			tif = IOC
		case 2:
			tif = FOK
		}
		o := mkOrder(string(id), owner, side, price, int64(1+rng.Intn(5)), tif, StpNone, false)
		instrs := ev.Insert(book, o)
		applyAll(t, book, instrs)
		for _, instr := range instrs {
			switch instr.Kind {
			case InsertInstr:
				resting[instr.OrderID] = true
			case FillInstr:
				if !instr.IsTaker {
					if _, ok := book.Lookup(instr.OrderID); !ok {
						delete(resting, instr.OrderID)
					}
				} else if _, ok := book.Lookup(instr.OrderID); !ok {
					delete(resting, instr.OrderID)
				}
			case DeleteInstr, NoOpInstr:
				delete(resting, instr.OrderID)
			}
		}
	}

	live := 0
	for id := range resting {
		if book.Contains(id) {
			live++
		}
	}
	require.Equal(t, book.Count(), live)
}
