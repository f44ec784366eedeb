package rules

import (
	"strings"
	"testing"

	"github.com/freeeve/openingstats/internal/replay"
)

func TestEPD(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{
			name: "strips clock fields",
			fen:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			want: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		},
		{
			name: "different clocks collapse to one ID",
			fen:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 31 40",
			want: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		},
		{
			name: "already truncated input unchanged",
			fen:  "8/8/8/8/8/4k3/8/4K3 w - -",
			want: "8/8/8/8/8/4k3/8/4K3 w - -",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EPD(tt.fen); got != tt.want {
				t.Errorf("EPD(%q) = %q, want %q", tt.fen, got, tt.want)
			}
		})
	}
}

func TestEngine_StartingPosition(t *testing.T) {
	pos := Engine{}.Start()
	id := pos.ID()

	fields := strings.Fields(id)
	if len(fields) != 4 {
		t.Fatalf("ID has %d fields (%q), want 4", len(fields), id)
	}
	if fields[0] != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Errorf("placement = %q", fields[0])
	}
	if fields[1] != "w" {
		t.Errorf("side to move = %q, want w", fields[1])
	}
	if fields[2] != "KQkq" {
		t.Errorf("castling = %q, want KQkq", fields[2])
	}
}

func TestEngine_ApplyMove(t *testing.T) {
	pos := Engine{}.Start()
	if err := pos.Apply("e4"); err != nil {
		t.Fatalf("Apply(e4): %v", err)
	}

	fields := strings.Fields(pos.ID())
	if fields[0] != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR" {
		t.Errorf("placement after e4 = %q", fields[0])
	}
	if fields[1] != "b" {
		t.Errorf("side to move after e4 = %q, want b", fields[1])
	}
}

func TestEngine_IllegalMove(t *testing.T) {
	pos := Engine{}.Start()
	if err := pos.Apply("Ke2"); err == nil {
		t.Fatal("Apply(Ke2) from the start should fail")
	}
	if err := pos.Apply("notamove"); err == nil {
		t.Fatal("Apply(notamove) should fail")
	}
}

// Two move orders reaching the same position must share one canonical
// ID. Quiet single-step moves only, so no en passant field is involved.
func TestEngine_TranspositionSharesID(t *testing.T) {
	playout := func(moves ...string) string {
		pos := Engine{}.Start()
		for _, san := range moves {
			if err := pos.Apply(san); err != nil {
				t.Fatalf("Apply(%s): %v", san, err)
			}
		}
		return pos.ID()
	}

	a := playout("d3", "e6", "Nf3")
	b := playout("Nf3", "e6", "d3")
	if a != b {
		t.Fatalf("transposition IDs differ:\n%q\n%q", a, b)
	}
}

func TestNormalizeFEN(t *testing.T) {
	start := Engine{}.Start()

	got, err := NormalizeFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NormalizeFEN: %v", err)
	}
	if got != start.ID() {
		t.Errorf("normalized start = %q, replayed start = %q", got, start.ID())
	}

	if _, err := NormalizeFEN("not a fen"); err == nil {
		t.Error("expected error for malformed FEN")
	}
}

// Engine must satisfy the replayer's injected-capability contract.
var _ replay.Rules = Engine{}
