// Package pricefmt renders the integer-tick Price type from orderbook as
// a human-readable decimal string, using github.com/shopspring/decimal so
// scaling never loses precision to floating point.
package pricefmt

import (
	"github.com/shopspring/decimal"

	"github.com/itsstevenwal/obcore/orderbook"
)

// Scale describes how many ticks make up one display unit, e.g. an
// Exponent of -2 renders the tick price 12345 as "123.45".
type Scale struct {
	Exponent int32 // negative power of ten, passed straight to decimal.New
}

// TickScale is the common case: prices are integer cents.
var TickScale = Scale{Exponent: -2}

// Price renders a Price tick value as a decimal string.
func (s Scale) Price(p orderbook.Price) string {
	return decimal.New(int64(p), s.Exponent).String()
}

// Notional returns price * qty as a decimal string, qty taken as whole
// lots (unscaled).
func (s Scale) Notional(p orderbook.Price, q orderbook.Qty) string {
	price := decimal.New(int64(p), s.Exponent)
	qty := decimal.NewFromInt(int64(q))
	return price.Mul(qty).String()
}
