// Package orderbook implements a price-time priority limit order book and
// a pure evaluator that turns Insert/Cancel operations into a deterministic
// instruction stream. The book only mutates through Apply; matching never
// touches book state directly.
package orderbook

import "fmt"

// Price and Qty are integer ticks. The package divides only to compute a
// taker's VWAP (see Evaluator.Insert) and Book.MidPrice, and both
// divisions truncate.
type Price int64
type Qty int64

// OrderID and OwnerID are opaque, hashable, cloneable identifiers supplied
// by the caller; the core never generates them.
type OrderID string
type OwnerID string

// Side is which book half an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// TimeInForce controls what happens to an order's remainder after matching.
type TimeInForce uint8

const (
	GTC TimeInForce = iota // remainder rests
	IOC                     // remainder discarded
	FOK                     // all-or-nothing
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "unknown"
	}
}

// StpMode is the self-trade-prevention policy applied when a taker and a
// resting maker share an owner.
type StpMode uint8

const (
	StpNone StpMode = iota
	StpCancelTaker
	StpCancelMaker
	StpCancelBoth
)

func (m StpMode) String() string {
	switch m {
	case StpNone:
		return "none"
	case StpCancelTaker:
		return "cancel_taker"
	case StpCancelMaker:
		return "cancel_maker"
	case StpCancelBoth:
		return "cancel_both"
	default:
		return "unknown"
	}
}

// Reason is a stable, enumerated cause attached to Delete and NoOp
// instructions (spec.md §6).
type Reason uint8

const (
	ReasonNone Reason = iota
	OrderNotFound
	OrderAlreadyExists
	UserCancelled
	PostOnlyFilled
	FOKNotFilled
	IOCNoFill
	IOCLeftover
	StpCancelTakerReason
	StpCancelMakerReason
	StpCancelBothReason
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case OrderNotFound:
		return "OrderNotFound"
	case OrderAlreadyExists:
		return "OrderAlreadyExists"
	case UserCancelled:
		return "UserCancelled"
	case PostOnlyFilled:
		return "PostOnlyFilled"
	case FOKNotFilled:
		return "FOKNotFilled"
	case IOCNoFill:
		return "IOCNoFill"
	case IOCLeftover:
		return "IOCLeftover"
	case StpCancelTakerReason:
		return "StpCancelTaker"
	case StpCancelMakerReason:
		return "StpCancelMaker"
	case StpCancelBothReason:
		return "StpCancelBoth"
	default:
		return "unknown"
	}
}

// Order is the data an Insert operation (or a resting node) carries.
// Remaining starts equal to Quantity and is monotonically non-increasing
// once the order rests (spec.md §3).
type Order struct {
	ID        OrderID
	Owner     OwnerID
	Side      Side
	Price     Price
	Quantity  Qty
	Remaining Qty
	TIF       TimeInForce
	STP       StpMode
	PostOnly  bool
}

func (o Order) String() string {
	return fmt.Sprintf("{id:%s owner:%s side:%s price:%d qty:%d rem:%d tif:%s stp:%s post_only:%v}",
		o.ID, o.Owner, o.Side, o.Price, o.Quantity, o.Remaining, o.TIF, o.STP, o.PostOnly)
}

// crosses reports whether a resting level's price is no worse than the
// incoming order's limit price, i.e. whether the level is still
// crossable. The comparison is inclusive: equal prices cross.
func crosses(takerSide Side, takerPrice, levelPrice Price) bool {
	if takerSide == Buy {
		return levelPrice <= takerPrice
	}
	return levelPrice >= takerPrice
}
