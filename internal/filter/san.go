package filter

import "github.com/freeeve/pgn/v3"

// sanForMove converts a move to SAN notation in the given position.
// The pgn library parses SAN but has no exporter, so disambiguation is
// worked out against the legal move list.
func sanForMove(pos *pgn.GameState, mv pgn.Mv) string {
	// Castling
	if mv.Flags == 4 {
		if mv.To > mv.From {
			return "O-O"
		}
		return "O-O-O"
	}

	fromSq := int(mv.From)
	toSq := int(mv.To)
	fromFile := fromSq % 8
	toFile := toSq % 8
	toRank := toSq / 8

	files := "abcdefgh"
	ranks := "12345678"

	piece := pos.PieceAt(mv.From)
	isPawn := piece == 'P' || piece == 'p'
	isCapture := pos.PieceAt(mv.To) != 0 || (isPawn && mv.Flags == 2) // en passant

	var san string

	if isPawn {
		if isCapture {
			san = string(files[fromFile]) + "x" + string(files[toFile]) + string(ranks[toRank])
		} else {
			san = string(files[toFile]) + string(ranks[toRank])
		}
		switch mv.Promo {
		case pgn.PromoQueen:
			san += "=Q"
		case pgn.PromoRook:
			san += "=R"
		case pgn.PromoBishop:
			san += "=B"
		case pgn.PromoKnight:
			san += "=N"
		}
	} else {
		pieceChar := piece
		if piece >= 'a' && piece <= 'z' {
			pieceChar = piece - 32
		}
		san = string(pieceChar)

		// Disambiguate against other legal moves of the same piece type
		// to the same square
		disambig := ""
		moves := pgn.GenerateLegalMoves(pos)
		for _, other := range moves {
			if other.To == mv.To && other.From != mv.From {
				otherPiece := pos.PieceAt(other.From)
				otherUpper := otherPiece
				if otherPiece >= 'a' && otherPiece <= 'z' {
					otherUpper = otherPiece - 32
				}
				if otherUpper == pieceChar {
					otherFromFile := int(other.From) % 8
					otherFromRank := int(other.From) / 8
					if fromFile != otherFromFile {
						disambig = string(files[fromFile])
					} else if fromSq/8 != otherFromRank {
						disambig = string(ranks[fromSq/8])
					} else {
						disambig = string(files[fromFile]) + string(ranks[fromSq/8])
					}
					break
				}
			}
		}
		san += disambig

		if isCapture {
			san += "x"
		}
		san += string(files[toFile]) + string(ranks[toRank])
	}

	// Check/checkmate suffix
	posCopy := pos.Pack().Unpack()
	if posCopy != nil {
		_ = pgn.ApplyMove(posCopy, mv)
		if posCopy.IsInCheck() {
			moves := pgn.GenerateLegalMoves(posCopy)
			if len(moves) == 0 {
				san += "#"
			} else {
				san += "+"
			}
		}
	}

	return san
}
