// Package audit persists applied instructions to Postgres, adapted from
// the teacher's db.go (ResetSchema/FillTestData/FetchOrders/PersistDeals)
// and repointed at orderbook's Order/Instruction shapes instead of the
// teacher's flat Order/Deal.
package audit

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/itsstevenwal/obcore/orderbook"
)

const schemaDDL = `
	DROP TABLE IF EXISTS fills CASCADE;
	DROP TABLE IF EXISTS orders CASCADE;

	CREATE TABLE orders (
		id text PRIMARY KEY,
		owner text NOT NULL,
		side smallint NOT NULL,
		price bigint NOT NULL,
		quantity bigint NOT NULL,
		remaining bigint NOT NULL,
		tif smallint NOT NULL,
		stp smallint NOT NULL,
		post_only boolean NOT NULL,
		resting boolean NOT NULL DEFAULT true
	) with (fillfactor=90);

	CREATE TABLE fills (
		id serial PRIMARY KEY,
		order_id text NOT NULL,
		owner text NOT NULL,
		price bigint NOT NULL,
		qty bigint NOT NULL,
		is_taker boolean NOT NULL
	);
`

// ResetSchema drops and recreates the orders/fills tables.
func ResetSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("audit: reset schema: %w", err)
	}
	return nil
}

// Ledger records instructions applied to a Book as they happen.
type Ledger struct {
	db *sql.DB
}

// NewLedger wraps an already-open Postgres connection.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordBatch persists one batch of applied instructions inside a single
// transaction: resting inserts and remaining-quantity updates go to
// orders, every fill (maker and taker) goes to fills.
func (l *Ledger) RecordBatch(instrs []orderbook.Instruction) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("audit: begin: %w", err)
	}
	defer tx.Rollback()

	if err := recordFills(tx, instrs); err != nil {
		return err
	}
	if err := recordOrderState(tx, instrs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("audit: commit: %w", err)
	}
	return nil
}

func recordFills(tx *sql.Tx, instrs []orderbook.Instruction) error {
	var fills []orderbook.Instruction
	for _, instr := range instrs {
		if instr.Kind == orderbook.FillInstr {
			fills = append(fills, instr)
		}
	}
	if len(fills) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(pq.CopyIn("fills", "order_id", "owner", "price", "qty", "is_taker"))
	if err != nil {
		return fmt.Errorf("audit: prepare fills copy: %w", err)
	}
	for _, f := range fills {
		if _, err := stmt.Exec(string(f.OrderID), string(f.Owner), int64(f.Price), int64(f.Qty), f.IsTaker); err != nil {
			return fmt.Errorf("audit: copy fill: %w", err)
		}
	}
	if _, err := stmt.Exec(); err != nil {
		return fmt.Errorf("audit: flush fills copy: %w", err)
	}
	return stmt.Close()
}

func recordOrderState(tx *sql.Tx, instrs []orderbook.Instruction) error {
	const upsertSQL = `
		INSERT INTO orders (id, owner, side, price, quantity, remaining, tif, stp, post_only, resting)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		ON CONFLICT (id) DO UPDATE SET remaining = excluded.remaining
	`
	const restingFalseSQL = `UPDATE orders SET resting = false, remaining = 0 WHERE id = $1`
	const decrementRemainingSQL = `UPDATE orders SET remaining = remaining - $2, resting = (remaining - $2) > 0 WHERE id = $1`

	for _, instr := range instrs {
		switch instr.Kind {
		case orderbook.InsertInstr:
			o := instr.RestOrder
			if o.Remaining == 0 {
				continue // degenerate zero-quantity order, never rested
			}
			if _, err := tx.Exec(upsertSQL, string(o.ID), string(o.Owner), uint8(o.Side),
				int64(o.Price), int64(o.Quantity), int64(o.Remaining), uint8(o.TIF), uint8(o.STP), o.PostOnly); err != nil {
				return fmt.Errorf("audit: upsert order %s: %w", o.ID, err)
			}
		case orderbook.FillInstr:
			if instr.IsTaker {
				// Taker fills have no standing row yet; its final remaining
				// quantity, if any, arrives via a later InsertInstr.
				continue
			}
			if _, err := tx.Exec(decrementRemainingSQL, string(instr.OrderID), int64(instr.Qty)); err != nil {
				return fmt.Errorf("audit: decrement remaining for %s: %w", instr.OrderID, err)
			}
		case orderbook.DeleteInstr:
			if _, err := tx.Exec(restingFalseSQL, string(instr.OrderID)); err != nil {
				return fmt.Errorf("audit: mark deleted %s: %w", instr.OrderID, err)
			}
		}
	}
	return nil
}

// LoadResting reconstructs the Order rows needed to rehydrate a Book at
// startup: every order still marked resting, sorted by id. Insertion
// order is not stored, so FIFO priority within a level is preserved on
// replay only when ids sort in the order the orders were inserted.
func LoadResting(db *sql.DB) ([]orderbook.Order, error) {
	rows, err := db.Query(`
		SELECT id, owner, side, price, quantity, remaining, tif, stp, post_only
		FROM orders WHERE resting ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("audit: query resting orders: %w", err)
	}
	defer rows.Close()

	var out []orderbook.Order
	for rows.Next() {
		var (
			id, owner                       string
			side, tif, stp                  uint8
			price, quantity, remaining      int64
			postOnly                        bool
		)
		if err := rows.Scan(&id, &owner, &side, &price, &quantity, &remaining, &tif, &stp, &postOnly); err != nil {
			return nil, fmt.Errorf("audit: scan resting order: %w", err)
		}
		out = append(out, orderbook.Order{
			ID:        orderbook.OrderID(id),
			Owner:     orderbook.OwnerID(owner),
			Side:      orderbook.Side(side),
			Price:     orderbook.Price(price),
			Quantity:  orderbook.Qty(quantity),
			Remaining: orderbook.Qty(remaining),
			TIF:       orderbook.TimeInForce(tif),
			STP:       orderbook.StpMode(stp),
			PostOnly:  postOnly,
		})
	}
	return out, rows.Err()
}
