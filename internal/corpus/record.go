package corpus

import "strings"

// Result is a game outcome, decided once at parse time.
type Result uint8

const (
	ResultUnknown Result = iota
	ResultWhiteWin
	ResultDraw
	ResultBlackWin
)

// ParseResult maps a PGN result token to a Result.
// Anything that is not one of the three decisive tokens is unknown.
func ParseResult(tok string) Result {
	switch tok {
	case "1-0":
		return ResultWhiteWin
	case "0-1":
		return ResultBlackWin
	case "1/2-1/2":
		return ResultDraw
	default:
		return ResultUnknown
	}
}

func (r Result) String() string {
	switch r {
	case ResultWhiteWin:
		return "1-0"
	case ResultBlackWin:
		return "0-1"
	case ResultDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Game is one parsed corpus record: SAN move tokens in order plus the
// result. Moves are unvalidated until replayed.
type Game struct {
	Moves  []string
	Result Result
}

// ParseLine parses one decoded corpus line. The final whitespace-separated
// token is the result, everything before it is a move. Blank lines are
// separators in the corpus format, not errors; ok is false for those.
func ParseLine(line string) (Game, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Game{}, false
	}
	return Game{
		Moves:  fields[:len(fields)-1],
		Result: ParseResult(fields[len(fields)-1]),
	}, true
}
