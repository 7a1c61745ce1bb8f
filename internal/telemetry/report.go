package telemetry

import (
	"github.com/itsstevenwal/obcore/orderbook"
)

// ReportInstructions increments InstructionsTotal for each instruction kind
// present in instrs, and OrdersTotal once for the originating order.
func (c *Collector) ReportInstructions(side orderbook.Side, tif orderbook.TimeInForce, instrs []orderbook.Instruction) {
	c.OrdersTotal.WithLabelValues(side.String(), tif.String()).Inc()
	for _, instr := range instrs {
		c.InstructionsTotal.WithLabelValues(instr.Kind.String()).Inc()
	}
}

// ReportBook pushes book's current depth, best prices and spread into the
// gauges. Callers typically call this once per batch, not per operation.
func (c *Collector) ReportBook(book *orderbook.Book) {
	c.BookDepth.WithLabelValues("buy").Set(float64(book.BidDepth()))
	c.BookDepth.WithLabelValues("sell").Set(float64(book.AskDepth()))

	bidPrice, _, bidOK := book.BestBid()
	askPrice, _, askOK := book.BestAsk()
	if bidOK {
		c.BestPrice.WithLabelValues("buy").Set(float64(bidPrice))
	}
	if askOK {
		c.BestPrice.WithLabelValues("sell").Set(float64(askPrice))
	}
	if bidOK && askOK {
		c.SpreadTicks.Set(float64(askPrice - bidPrice))
	}
}
