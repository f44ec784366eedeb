// Package filter turns raw PGN dumps into the corpus line format the
// build pipeline ingests: one game per line, SAN move tokens followed
// by the result token, games separated by blank lines, zstd-compressed.
// Games are filtered by player rating and time control on the way
// through.
package filter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// Config configures a filter pass.
type Config struct {
	MinElo int            // Lowest rating to keep (both players)
	MaxElo int            // Highest rating to keep (both players)
	Logger zerolog.Logger // Logger
}

// Summary reports what a filter pass did.
type Summary struct {
	Games   int64 // Games read from the dump
	Kept    int64 // Games written to the filtered corpus
	Skipped int64 // Games dropped by rating or time control
}

// File filters one raw PGN dump (plain or .zst) into a filtered corpus
// file at out. The output is written to a temp path and renamed on
// success.
func File(ctx context.Context, in, out string, cfg Config) (Summary, error) {
	var sum Summary
	if cfg.MaxElo == 0 {
		cfg.MaxElo = 4000
	}

	log := cfg.Logger.With().Str("file", filepath.Base(in)).Logger()
	log.Info().Int("min_elo", cfg.MinElo).Int("max_elo", cfg.MaxElo).Msg("starting filter")

	tmpPath := out + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return sum, fmt.Errorf("create %s: %w", tmpPath, err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return sum, fmt.Errorf("create encoder: %w", err)
	}
	bw := bufio.NewWriter(zw)

	fail := func(err error) (Summary, error) {
		zw.Close()
		f.Close()
		os.Remove(tmpPath)
		return sum, err
	}

	startTime := time.Now()
	lastLog := time.Now()

	parser := pgn.Games(in)
	stopped := false
gameLoop:
	for game := range parser.Games {
		select {
		case <-ctx.Done():
			if !stopped {
				parser.Stop()
				stopped = true
			}
			break gameLoop
		default:
		}

		sum.Games++
		if !keep(game, cfg) {
			sum.Skipped++
			continue
		}

		line, ok := gameLine(game)
		if !ok {
			sum.Skipped++
			continue
		}
		if _, err := bw.WriteString(line + "\n\n"); err != nil {
			return fail(fmt.Errorf("write %s: %w", tmpPath, err))
		}
		sum.Kept++

		if time.Since(lastLog) > 10*time.Second {
			elapsed := time.Since(startTime)
			log.Info().
				Int64("games", sum.Games).
				Int64("kept", sum.Kept).
				Float64("games_per_sec", float64(sum.Games)/elapsed.Seconds()).
				Msg("filter progress")
			lastLog = time.Now()
		}
	}
	if err := parser.Err(); err != nil {
		return fail(fmt.Errorf("parse %s: %w", in, err))
	}
	if stopped {
		return fail(ctx.Err())
	}

	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("flush %s: %w", tmpPath, err))
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return sum, fmt.Errorf("close encoder: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return sum, fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, out); err != nil {
		os.Remove(tmpPath)
		return sum, fmt.Errorf("rename %s: %w", out, err)
	}

	log.Info().
		Int64("games", sum.Games).
		Int64("kept", sum.Kept).
		Int64("skipped", sum.Skipped).
		Dur("elapsed", time.Since(startTime)).
		Msg("filter complete")
	return sum, nil
}

// keep decides whether a game survives the rating and time-control
// filter. Bullet games and games with unparsable Elo tags are dropped.
func keep(game *pgn.Game, cfg Config) bool {
	if strings.Contains(strings.ToLower(game.Tags["Event"]), "bullet") {
		return false
	}
	white, ok := parseRating(game.Tags["WhiteElo"])
	if !ok {
		return false
	}
	black, ok := parseRating(game.Tags["BlackElo"])
	if !ok {
		return false
	}
	return white >= cfg.MinElo && white <= cfg.MaxElo &&
		black >= cfg.MinElo && black <= cfg.MaxElo
}

// gameLine renders a parsed game as SAN tokens plus the result token.
// ok is false when a move fails to re-apply, which means the dump
// itself is inconsistent; such games are dropped.
func gameLine(game *pgn.Game) (string, bool) {
	var sb strings.Builder
	pos := pgn.NewStartingPosition()
	for _, mv := range game.Moves {
		sb.WriteString(sanForMove(pos, mv))
		sb.WriteByte(' ')
		if err := pgn.ApplyMove(pos, mv); err != nil {
			return "", false
		}
	}
	result := game.Tags["Result"]
	if result == "" {
		result = "*"
	}
	sb.WriteString(result)
	return sb.String(), true
}

func parseRating(s string) (int, bool) {
	if s == "" || s == "?" || s == "-" {
		return 0, false
	}
	r, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return r, true
}
