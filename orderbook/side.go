package orderbook

import "github.com/google/btree"

const sideBtreeDegree = 32

// levelItem wraps a priceLevel for storage in the btree, ordered
// ascending by price regardless of which book side owns it; side.go
// picks Ascend vs Descend to get bid/ask precedence (spec.md §4.3).
// Grounded on VictorVVedtion-perp-dex's orderbook_btree.go priceLevelItem.
type levelItem struct {
	price Price
	level *priceLevel
}

func (a levelItem) Less(than btree.Item) bool {
	return a.price < than.(levelItem).price
}

// side is a price-sorted collection of levels for one half of the book.
// isBid selects iteration direction: true walks highest price first
// (bids), false walks lowest price first (asks). A side never retains an
// empty level (I4).
type side struct {
	tree  *btree.BTree
	isBid bool
}

func newSide(isBid bool) *side {
	return &side{tree: btree.New(sideBtreeDegree), isBid: isBid}
}

func (s *side) get(price Price) *priceLevel {
	item := s.tree.Get(levelItem{price: price})
	if item == nil {
		return nil
	}
	return item.(levelItem).level
}

func (s *side) getOrCreate(price Price) *priceLevel {
	if lvl := s.get(price); lvl != nil {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.tree.ReplaceOrInsert(levelItem{price: price, level: lvl})
	return lvl
}

// removeIfEmpty drops lvl from the side once its FIFO has drained,
// preserving I4 (no Side exposes an empty level).
func (s *side) removeIfEmpty(lvl *priceLevel) {
	if lvl.isEmpty() {
		s.tree.Delete(levelItem{price: lvl.price})
	}
}

// best returns the best (highest for bids, lowest for asks) non-empty
// level, or nil if the side is empty.
func (s *side) best() *priceLevel {
	var item btree.Item
	if s.isBid {
		item = s.tree.Max()
	} else {
		item = s.tree.Min()
	}
	if item == nil {
		return nil
	}
	return item.(levelItem).level
}

func (s *side) depth() int {
	return s.tree.Len()
}

// walk visits levels in best-first precedence order, stopping early if
// fn returns false. Non-mutating.
func (s *side) walk(fn func(lvl *priceLevel) bool) {
	iter := func(item btree.Item) bool {
		return fn(item.(levelItem).level)
	}
	if s.isBid {
		s.tree.Descend(iter)
	} else {
		s.tree.Ascend(iter)
	}
}

// top returns up to n levels in precedence order as (price, total qty,
// order count) views, never mutating and never exposing an internal pointer.
func (s *side) top(n int) []PriceLevelView {
	if n <= 0 {
		return nil
	}
	out := make([]PriceLevelView, 0, n)
	s.walk(func(lvl *priceLevel) bool {
		out = append(out, PriceLevelView{Price: lvl.price, Quantity: lvl.total, OrderCount: lvl.orderCount()})
		return len(out) < n
	})
	return out
}
