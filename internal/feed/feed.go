// Package feed generates synthetic order flow for benchmarking and
// local exploration, the way the teacher's types.go GenerateRandomOrder
// and db.go FillTestData populated a test book.
package feed

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/itsstevenwal/obcore/orderbook"
)

// Config controls the shape of generated flow.
type Config struct {
	Owners       []string
	MinPrice     int64
	MaxPrice     int64
	MinQty       int64
	MaxQty       int64
	CancelChance float64 // probability an Op is a Cancel of a previously seen id instead of an Insert
	PostOnlyChance float64
	IOCChance    float64
	FOKChance    float64
}

// DefaultConfig mirrors the teacher's traderChoices/price-range defaults.
func DefaultConfig() Config {
	return Config{
		Owners:       []string{"ID0", "ID1", "ID2", "ID3", "ID4", "ID5", "ID6", "ID7", "ID8"},
		MinPrice:     1,
		MaxPrice:     65535,
		MinQty:       1,
		MaxQty:       1000,
		CancelChance: 0.05,
		PostOnlyChance: 0.02,
		IOCChance:    0.1,
		FOKChance:    0.05,
	}
}

// Op is one generated unit of flow: either an Insert (Order populated) or
// a Cancel (CancelID populated).
type Op struct {
	Insert   *orderbook.Order
	CancelID orderbook.OrderID
}

// Generator produces a random but replayable stream of Ops, tracking the
// ids it has inserted so generated cancels target real orders.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	seen   []orderbook.OrderID
}

// New returns a Generator seeded deterministically from seed, so two
// Generators built with the same seed and Config produce identical flow.
func New(cfg Config, seed int64) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Next produces one Op.
func (g *Generator) Next() Op {
	if len(g.seen) > 0 && g.rng.Float64() < g.cfg.CancelChance {
		idx := g.rng.Intn(len(g.seen))
		id := g.seen[idx]
		g.seen = append(g.seen[:idx], g.seen[idx+1:]...)
		return Op{CancelID: id}
	}

	side := orderbook.Buy
	if g.rng.Intn(2) == 1 {
		side = orderbook.Sell
	}
	qtyRange := g.cfg.MaxQty - g.cfg.MinQty
	if qtyRange < 1 {
		qtyRange = 1
	}
	priceRange := g.cfg.MaxPrice - g.cfg.MinPrice
	if priceRange < 1 {
		priceRange = 1
	}

	order := orderbook.Order{
		ID:        orderbook.OrderID(uuid.Must(uuid.NewRandomFromReader(g.rng)).String()),
		Owner:     orderbook.OwnerID(g.cfg.Owners[g.rng.Intn(len(g.cfg.Owners))]),
		Side:      side,
		Price:     orderbook.Price(g.cfg.MinPrice + g.rng.Int63n(priceRange)),
		Quantity:  orderbook.Qty(g.cfg.MinQty + g.rng.Int63n(qtyRange)),
		TIF:       g.pickTIF(),
		PostOnly:  g.rng.Float64() < g.cfg.PostOnlyChance,
	}
	order.Remaining = order.Quantity
	g.seen = append(g.seen, order.ID)
	return Op{Insert: &order}
}

func (g *Generator) pickTIF() orderbook.TimeInForce {
	r := g.rng.Float64()
	switch {
	case r < g.cfg.FOKChance:
		return orderbook.FOK
	case r < g.cfg.FOKChance+g.cfg.IOCChance:
		return orderbook.IOC
	default:
		return orderbook.GTC
	}
}

// Batch generates n consecutive Ops.
func (g *Generator) Batch(n int) []Op {
	out := make([]Op, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}
