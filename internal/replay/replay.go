// Package replay walks a game's move tokens and yields the canonical
// identifier of every position reached. The chess rules themselves live
// behind the Rules interface so the pipeline runs against a fake in tests.
package replay

// Position is one replayable board state. Apply advances it in place by
// one SAN token, or returns an error if the token is not a legal move
// from here.
type Position interface {
	ID() string
	Apply(san string) error
}

// Rules produces a fresh starting position.
type Rules interface {
	Start() Position
}

// Replay is a lazy, finite, non-restartable walk over one game. It
// yields the starting position's ID first, then the ID after each move,
// at most len(moves)+1 IDs in total. An illegal or unparseable token
// ends the walk early; IDs already yielded stand, so a malformed game
// contributes a truncated set of positions rather than none.
type Replay struct {
	pos   Position
	moves []string
	next  int
	done  bool
	err   error
}

// New starts a replay of moves from the rules engine's starting position.
func New(rules Rules, moves []string) *Replay {
	return &Replay{pos: rules.Start(), moves: moves}
}

// Next returns the next canonical position ID. ok is false once the
// move list is exhausted or a token failed to apply.
func (r *Replay) Next() (id string, ok bool) {
	if r.done {
		return "", false
	}
	if r.next > 0 {
		if r.next > len(r.moves) {
			r.done = true
			return "", false
		}
		if err := r.pos.Apply(r.moves[r.next-1]); err != nil {
			r.done = true
			r.err = err
			return "", false
		}
	}
	r.next++
	return r.pos.ID(), true
}

// Err reports the move application failure that ended the walk early,
// if any. Exhausting the move list normally leaves Err nil.
func (r *Replay) Err() error {
	return r.err
}
