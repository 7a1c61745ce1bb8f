package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cosmossdk.io/log"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/itsstevenwal/obcore/internal/audit"
	"github.com/itsstevenwal/obcore/internal/benchstat"
	"github.com/itsstevenwal/obcore/internal/feed"
	"github.com/itsstevenwal/obcore/internal/pricefmt"
	"github.com/itsstevenwal/obcore/internal/replica"
	"github.com/itsstevenwal/obcore/internal/telemetry"
	"github.com/itsstevenwal/obcore/orderbook"
)

func newReplayCmd(logger log.Logger) *cobra.Command {
	var (
		ordersToGenerate int
		batchSize        int
		seed             int64
		dsn              string
		persist          bool
		redisAddr        string
		redisStream      string
	)

	c := &cobra.Command{
		Use:   "replay",
		Short: "Generate synthetic order flow and replay it through one Book",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(logger, ordersToGenerate, batchSize, seed, dsn, persist, redisAddr, redisStream)
		},
	}

	c.Flags().IntVar(&ordersToGenerate, "orders", 100000, "number of Insert/Cancel operations to generate")
	c.Flags().IntVar(&batchSize, "batch-size", 10, "operations per latency sample")
	c.Flags().Int64Var(&seed, "seed", 42, "feed generator seed")
	c.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN used when --persist is set")
	c.Flags().BoolVar(&persist, "persist", false, "persist every batch to Postgres (requires --dsn)")
	c.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address; when set, applied instructions are published to a stream")
	c.Flags().StringVar(&redisStream, "redis-stream", "", "Redis stream name (defaults to replica.DefaultConfig().Stream)")
	return c
}

func runReplay(logger log.Logger, ordersToGenerate, batchSize int, seed int64, dsn string, persist bool, redisAddr, redisStream string) error {
	book := orderbook.NewBook()
	ev := orderbook.NewEvaluator()
	gen := feed.New(feed.DefaultConfig(), seed)
	collector := telemetry.GetCollector()

	var ledger *audit.Ledger
	if persist {
		if dsn == "" {
			return fmt.Errorf("--persist requires --dsn")
		}
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := audit.ResetSchema(db); err != nil {
			return err
		}
		ledger = audit.NewLedger(db)
	}

	var publisher *replica.Publisher
	if redisAddr != "" {
		cfg := replica.DefaultConfig()
		cfg.Addr = redisAddr
		if redisStream != "" {
			cfg.Stream = redisStream
		}
		p, err := replica.NewPublisher(cfg)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	ctx := context.Background()
	latencies := make([]time.Duration, 0, ordersToGenerate/batchSize+1)
	start := time.Now()

	for i := 0; i < ordersToGenerate; i += batchSize {
		batchBegin := time.Now()
		ops := gen.Batch(batchSize)
		for _, op := range ops {
			var instrs []orderbook.Instruction
			evalBegin := time.Now()
			if op.Insert != nil {
				instrs = ev.Insert(book, *op.Insert)
				collector.MatchLatency.Observe(time.Since(evalBegin).Seconds())
				collector.ReportInstructions(op.Insert.Side, op.Insert.TIF, instrs)
			} else {
				instrs = ev.Cancel(book, op.CancelID)
				collector.MatchLatency.Observe(time.Since(evalBegin).Seconds())
				for _, instr := range instrs {
					collector.InstructionsTotal.WithLabelValues(instr.Kind.String()).Inc()
				}
			}
			for _, instr := range instrs {
				book.Apply(instr)
			}
			// Every instruction from this op is applied before the next op
			// is evaluated, so scratch's virtual state has already been
			// committed to book and is safe to drop (evaluator.go's Evaluator
			// doc comment: "between independent batches" — here, each op
			// is its own batch of one).
			ev.Reset()
			if ledger != nil {
				if err := ledger.RecordBatch(instrs); err != nil {
					return err
				}
			}
			if publisher != nil {
				if err := publisher.Publish(ctx, instrs); err != nil {
					return err
				}
			}
		}
		collector.ReportBook(book)
		latencies = append(latencies, time.Since(batchBegin))
	}

	elapsed := time.Since(start)
	summary := benchstat.Summarize(latencies)
	throughput := benchstat.ThroughputPerSecond(ordersToGenerate, elapsed)

	logger.Info("replay complete",
		"orders", ordersToGenerate,
		"batches", len(latencies),
		"mean_batch_latency_s", summary.MeanSeconds,
		"stddev_batch_latency_s", summary.StdDevSeconds,
		"throughput_ops_s", throughput,
		"book_count", book.Count(),
	)
	if bidPrice, bidQty, ok := book.BestBid(); ok {
		logger.Info("best bid", "price", pricefmt.TickScale.Price(bidPrice), "qty", int64(bidQty))
	}
	if askPrice, askQty, ok := book.BestAsk(); ok {
		logger.Info("best ask", "price", pricefmt.TickScale.Price(askPrice), "qty", int64(askQty))
	}
	return nil
}
