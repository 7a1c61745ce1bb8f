// Package replica fans applied instructions out to a Redis stream so
// downstream consumers (market data, a second book replica) can follow
// the book without sharing process memory. Connection setup follows
// DimaJoyti-ai-agentic-crypto-browser's pkg/database/redis.go.
package replica

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itsstevenwal/obcore/orderbook"
)

// Config configures the Redis connection and stream name.
type Config struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// DefaultConfig points at a local Redis and the "obcore:instructions" stream.
func DefaultConfig() Config {
	return Config{Addr: "localhost:6379", Stream: "obcore:instructions"}
}

// Publisher publishes an Evaluator's instruction stream to Redis, one
// XADD per instruction, preserving emission order within a stream so a
// consumer can replay it with Book.Apply in the same sequence.
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher dials Redis and verifies connectivity.
func NewPublisher(cfg Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  4 * time.Second,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("replica: failed to ping redis: %w", err)
	}

	stream := cfg.Stream
	if stream == "" {
		stream = DefaultConfig().Stream
	}
	return &Publisher{client: client, stream: stream}, nil
}

// Publish XADDs one entry per instruction in instrs, pipelined into a
// single round trip, preserving emission order within the stream. Insert
// instructions carry their resting order data in RestOrder rather than
// the top-level Owner/Price/Qty fields (orderbook/instruction.go), so
// those are read out specially to keep the published record replayable.
func (p *Publisher) Publish(ctx context.Context, instrs []orderbook.Instruction) error {
	if len(instrs) == 0 {
		return nil
	}
	pipe := p.client.Pipeline()
	for _, instr := range instrs {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: instructionValues(instr),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replica: pipelined xadd failed: %w", err)
	}
	return nil
}

func instructionValues(instr orderbook.Instruction) map[string]interface{} {
	if instr.Kind == orderbook.InsertInstr {
		o := instr.RestOrder
		return map[string]interface{}{
			"kind":      instr.Kind.String(),
			"order_id":  string(o.ID),
			"owner":     string(o.Owner),
			"side":      o.Side.String(),
			"price":     strconv.FormatInt(int64(o.Price), 10),
			"qty":       strconv.FormatInt(int64(o.Quantity), 10),
			"remaining": strconv.FormatInt(int64(o.Remaining), 10),
			"tif":       o.TIF.String(),
			"stp":       o.STP.String(),
			"post_only": o.PostOnly,
		}
	}
	return map[string]interface{}{
		"kind":     instr.Kind.String(),
		"order_id": string(instr.OrderID),
		"owner":    string(instr.Owner),
		"price":    strconv.FormatInt(int64(instr.Price), 10),
		"qty":      strconv.FormatInt(int64(instr.Qty), 10),
		"is_taker": instr.IsTaker,
		"reason":   instr.Reason.String(),
	}
}

// Close releases the underlying connection pool.
func (p *Publisher) Close() error {
	return p.client.Close()
}
