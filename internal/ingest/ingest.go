// Package ingest runs the corpus build pipeline: decode each corpus
// file, parse game records, replay them and aggregate outcome counts
// per canonical position.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/openingstats/internal/corpus"
	"github.com/freeeve/openingstats/internal/replay"
	"github.com/freeeve/openingstats/internal/stats"
)

// Config configures a build run.
type Config struct {
	Sources []string       // Corpus files, processed in the order given
	Rules   replay.Rules   // Move application engine
	Workers int            // Parallel corpus files (default NumCPU)
	Logger  zerolog.Logger // Logger
}

// Summary reports what a build run did.
type Summary struct {
	Games     int64 // Games aggregated
	Skipped   int64 // Games dropped before replay (unknown result)
	Truncated int64 // Games cut short by an illegal move token
	Positions int64 // Position increments recorded
}

// Run ingests every source into a single aggregator. Each file gets its
// own worker with a private aggregator; partials are merged bucket-wise
// once all workers finish, so worker count and scheduling never change
// the result. Any I/O error is fatal for the whole run.
func Run(ctx context.Context, cfg Config) (*stats.Aggregator, Summary, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cfg.Sources) {
		workers = len(cfg.Sources)
	}

	var sum Summary
	partials := make([]*stats.Aggregator, workers)
	files := make(chan string)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		agg := stats.NewAggregator()
		partials[i] = agg
		g.Go(func() error {
			for path := range files {
				if err := processFile(ctx, path, cfg, agg, &sum); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(files)
		for _, path := range cfg.Sources {
			select {
			case files <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, sum, err
	}

	merged := stats.NewAggregator()
	for _, p := range partials {
		merged.Merge(p)
	}
	return merged, sum, nil
}

// processFile streams one corpus file through parse -> replay ->
// aggregate, one game at a time.
func processFile(ctx context.Context, path string, cfg Config, agg *stats.Aggregator, sum *Summary) error {
	log := cfg.Logger.With().Str("file", filepath.Base(path)).Logger()
	log.Info().Msg("starting file ingest")

	sc, err := corpus.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer sc.Close()

	startTime := time.Now()
	var games, skipped, positions int64
	lastLog := time.Now()

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		game, ok := corpus.ParseLine(sc.Text())
		if !ok {
			continue // blank separator line
		}
		if game.Result == corpus.ResultUnknown {
			// Unknown results contribute to no bucket; skip the
			// replay entirely.
			skipped++
			atomic.AddInt64(&sum.Skipped, 1)
			continue
		}

		rep := replay.New(cfg.Rules, game.Moves)
		for {
			id, ok := rep.Next()
			if !ok {
				break
			}
			agg.Record(id, game.Result)
			positions++
		}
		if err := rep.Err(); err != nil {
			atomic.AddInt64(&sum.Truncated, 1)
			log.Debug().Err(err).Msg("replay truncated")
		}
		games++

		if time.Since(lastLog) > 10*time.Second {
			elapsed := time.Since(startTime)
			log.Info().
				Int64("games", games).
				Int64("skipped", skipped).
				Int64("positions", positions).
				Float64("games_per_sec", float64(games)/elapsed.Seconds()).
				Msg("ingest progress")
			lastLog = time.Now()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read corpus %s: %w", path, err)
	}

	atomic.AddInt64(&sum.Games, games)
	atomic.AddInt64(&sum.Positions, positions)

	elapsed := time.Since(startTime)
	log.Info().
		Int64("games", games).
		Int64("skipped", skipped).
		Int64("positions", positions).
		Dur("elapsed", elapsed).
		Msg("file ingest complete")

	return nil
}
