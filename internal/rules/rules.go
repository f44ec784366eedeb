// Package rules is the production move-application engine, backed by the
// pgn library's move generator. It also owns the canonical position ID:
// the EPD form of a FEN, i.e. placement, side to move, castling rights
// and en passant target, with the halfmove clock and fullmove number
// stripped. Keeping the clock fields would split transpositions reached
// by different move orders into distinct index keys.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/freeeve/pgn/v3"

	"github.com/freeeve/openingstats/internal/replay"
)

// Engine implements replay.Rules on the pgn move generator.
type Engine struct{}

// Start returns the standard initial position.
func (Engine) Start() replay.Position {
	return &position{gs: pgn.NewStartingPosition()}
}

type position struct {
	gs *pgn.GameState
}

func (p *position) ID() string {
	return EPD(p.gs.ToFEN())
}

func (p *position) Apply(san string) error {
	mv, err := pgn.ParseSAN(p.gs, san)
	if err != nil {
		return fmt.Errorf("parse %q: %w", san, err)
	}
	if err := pgn.ApplyMove(p.gs, mv); err != nil {
		return fmt.Errorf("apply %q: %w", san, err)
	}
	return nil
}

// EPD truncates a FEN string to its first four fields.
func EPD(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// NormalizeFEN maps a user-supplied FEN to the canonical ID space.
// Round-tripping through the library's packed form validates the FEN
// and renders it with the same conventions replay produces, so a query
// FEN and a replayed position agree byte for byte.
func NormalizeFEN(fen string) (string, error) {
	keyStr, err := pgn.PackedPositionFromFEN(fen)
	if err != nil {
		return "", fmt.Errorf("parse FEN: %w", err)
	}
	key, err := pgn.ParsePackedPosition(keyStr)
	if err != nil {
		return "", fmt.Errorf("parse position key: %w", err)
	}
	gs := key.Unpack()
	if gs == nil {
		return "", errors.New("unpack position")
	}
	return EPD(gs.ToFEN()), nil
}
