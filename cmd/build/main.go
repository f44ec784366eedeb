package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/freeeve/openingstats/internal/ingest"
	"github.com/freeeve/openingstats/internal/logx"
	"github.com/freeeve/openingstats/internal/rules"
	"github.com/freeeve/openingstats/internal/store"
)

func main() {
	var (
		outPath = flag.String("out", "index.osx", "Output index path")
		merge   = flag.Bool("merge", true, "Add counts to an existing index at -out instead of replacing it")
		workers = flag.Int("workers", runtime.NumCPU(), "Parallel corpus files")
	)
	flag.Parse()

	sources := flag.Args()
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: build [options] <corpus.pgn[.zst]>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger()
	logger.Info().
		Strs("sources", sources).
		Str("out", *outPath).
		Int("workers", *workers).
		Msg("starting build")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	startTime := time.Now()

	agg, sum, err := ingest.Run(ctx, ingest.Config{
		Sources: sources,
		Rules:   rules.Engine{},
		Workers: *workers,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("ingest failed, no index written")
	}

	// Merge-on-load: counts from an existing index sum with this run's,
	// never the other way around.
	if *merge {
		if idx, err := store.Load(*outPath); err == nil {
			idx.Seed(agg)
			logger.Info().Int("positions", idx.Len()).Msg("merged existing index")
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Fatal().Err(err).Str("index", *outPath).Msg("existing index unreadable")
		}
	}

	logger.Info().Int("positions", agg.Len()).Msg("writing index...")
	if err := store.Save(*outPath, agg); err != nil {
		logger.Fatal().Err(err).Msg("save index")
	}

	logger.Info().
		Int64("games", sum.Games).
		Int64("skipped", sum.Skipped).
		Int64("truncated", sum.Truncated).
		Int64("position_updates", sum.Positions).
		Int("positions", agg.Len()).
		Dur("elapsed", time.Since(startTime)).
		Msg("build complete")
}
