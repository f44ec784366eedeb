package filter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"github.com/freeeve/openingstats/internal/corpus"
)

const rawPGN = `[Event "Rated Blitz game"]
[Result "1-0"]
[WhiteElo "2100"]
[BlackElo "2050"]

1. e4 e5 2. Nf3 1-0

[Event "Rated Bullet game"]
[Result "0-1"]
[WhiteElo "2200"]
[BlackElo "2300"]

1. d4 d5 0-1

[Event "Rated Blitz game"]
[Result "1/2-1/2"]
[WhiteElo "1500"]
[BlackElo "2400"]

1. c4 1/2-1/2

[Event "Rated Blitz game"]
[Result "0-1"]
[WhiteElo "?"]
[BlackElo "2000"]

1. g3 0-1
`

func TestFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dump.pgn")
	out := filepath.Join(dir, "filtered.pgn.zst")
	if err := os.WriteFile(in, []byte(rawPGN), 0644); err != nil {
		t.Fatal(err)
	}

	sum, err := File(context.Background(), in, out, Config{
		MinElo: 2000,
		MaxElo: 3000,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	// Bullet, low-rated and unrated games are dropped.
	if sum.Kept != 1 || sum.Skipped != 3 {
		t.Fatalf("summary = %+v, want 1 kept / 3 skipped", sum)
	}

	// The output is a valid corpus in the line format.
	sc, err := corpus.Open(out)
	if err != nil {
		t.Fatalf("open filtered corpus: %v", err)
	}
	defer sc.Close()

	var games []corpus.Game
	for sc.Scan() {
		if game, ok := corpus.ParseLine(sc.Text()); ok {
			games = append(games, game)
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}

	if len(games) != 1 {
		t.Fatalf("filtered corpus has %d games, want 1", len(games))
	}
	game := games[0]
	if game.Result != corpus.ResultWhiteWin {
		t.Errorf("result = %v, want 1-0", game.Result)
	}
	want := []string{"e4", "e5", "Nf3"}
	if len(game.Moves) != len(want) {
		t.Fatalf("moves = %v, want %v", game.Moves, want)
	}
	for i := range want {
		if game.Moves[i] != want[i] {
			t.Errorf("move %d = %q, want %q", i, game.Moves[i], want[i])
		}
	}
}

func TestFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := File(context.Background(), filepath.Join(dir, "missing.pgn"),
		filepath.Join(dir, "out.pgn.zst"), Config{Logger: zerolog.Nop()})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestFile_LeavesNoTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.pgn.zst")
	_, _ = File(context.Background(), filepath.Join(dir, "missing.pgn"), out,
		Config{Logger: zerolog.Nop()})

	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after failed filter")
	}
}

func TestKeep(t *testing.T) {
	cfg := Config{MinElo: 2000, MaxElo: 3000}
	tests := []struct {
		name  string
		event string
		welo  string
		belo  string
		want  bool
	}{
		{"in range", "Rated Blitz game", "2100", "2500", true},
		{"bullet dropped", "Rated Bullet game", "2100", "2500", false},
		{"white too low", "Rated Blitz game", "1999", "2500", false},
		{"black too high", "Rated Blitz game", "2100", "3001", false},
		{"unrated dropped", "Rated Blitz game", "?", "2500", false},
		{"missing elo dropped", "Rated Blitz game", "", "2500", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &pgn.Game{Tags: map[string]string{
				"Event":    tt.event,
				"WhiteElo": tt.welo,
				"BlackElo": tt.belo,
			}}
			if got := keep(game, cfg); got != tt.want {
				t.Errorf("keep = %v, want %v", got, tt.want)
			}
		})
	}
}
