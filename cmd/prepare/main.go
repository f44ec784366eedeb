package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/freeeve/openingstats/internal/fetch"
	"github.com/freeeve/openingstats/internal/filter"
	"github.com/freeeve/openingstats/internal/logx"
)

func main() {
	var (
		dest       = flag.String("dest", "dumps", "Directory for downloaded and filtered files")
		startMonth = flag.String("start-month", "2015-01", "First month to fetch (YYYY-MM)")
		endMonth   = flag.String("end-month", "2015-01", "Last month to fetch (YYYY-MM)")
		minElo     = flag.Int("min-elo", 2000, "Lowest rating to keep (both players)")
		maxElo     = flag.Int("max-elo", 4000, "Highest rating to keep (both players)")
		keepRaw    = flag.Bool("keep-raw", false, "Keep raw dumps after filtering")
	)
	flag.Parse()

	logger := logx.NewLogger()

	months, err := fetch.MonthRange(*startMonth, *endMonth)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad month range")
	}
	if len(months) == 0 {
		logger.Fatal().
			Str("start", *startMonth).
			Str("end", *endMonth).
			Msg("empty month range")
	}
	logger.Info().
		Int("months", len(months)).
		Str("dest", *dest).
		Msg("starting prepare")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, month := range months {
		rawPath := filepath.Join(*dest, fmt.Sprintf("lichess_%s.pgn.zst", month))
		outPath := filepath.Join(*dest, fmt.Sprintf("games_%s.zst", month))

		if _, err := os.Stat(outPath); err == nil {
			logger.Info().Str("month", month).Msg("already filtered, skipping")
			continue
		}

		if _, err := os.Stat(rawPath); os.IsNotExist(err) {
			url := fetch.URL(month)
			logger.Info().Str("url", url).Msg("downloading")
			if err := fetch.Download(ctx, url, rawPath, logger); err != nil {
				logger.Fatal().Err(err).Str("month", month).Msg("download failed")
			}
		} else {
			logger.Info().Str("month", month).Msg("dump already downloaded")
		}

		sum, err := filter.File(ctx, rawPath, outPath, filter.Config{
			MinElo: *minElo,
			MaxElo: *maxElo,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("month", month).Msg("filter failed")
		}
		logger.Info().
			Str("month", month).
			Int64("games", sum.Games).
			Int64("kept", sum.Kept).
			Msg("month prepared")

		if !*keepRaw {
			if err := os.Remove(rawPath); err != nil {
				logger.Warn().Err(err).Str("path", rawPath).Msg("remove raw dump")
			}
		}
	}

	logger.Info().Msg("prepare complete")
}
