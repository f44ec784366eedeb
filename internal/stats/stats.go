// Package stats accumulates game outcome counts per canonical position.
package stats

import "github.com/freeeve/openingstats/internal/corpus"

// Outcome counts the results of every game that reached a position.
// Count is derived, never stored.
type Outcome struct {
	White uint64
	Draws uint64
	Black uint64
}

// Count returns the total number of games observed at the position.
func (o Outcome) Count() uint64 {
	return o.White + o.Draws + o.Black
}

// Add increments the bucket matching the result. Unknown results touch
// no bucket.
func (o *Outcome) Add(r corpus.Result) {
	switch r {
	case corpus.ResultWhiteWin:
		o.White++
	case corpus.ResultDraw:
		o.Draws++
	case corpus.ResultBlackWin:
		o.Black++
	}
}

// Merge adds other's counts bucket-wise.
func (o *Outcome) Merge(other Outcome) {
	o.White += other.White
	o.Draws += other.Draws
	o.Black += other.Black
}

// Aggregator maps canonical position IDs to outcome counts. Pure
// accumulation: no removal, no decay. Not safe for concurrent use; the
// build pipeline gives each worker a private instance and merges them
// when the workers are done.
type Aggregator struct {
	m map[string]*Outcome
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{m: make(map[string]*Outcome)}
}

// Record increments the bucket for id matching the result.
func (a *Aggregator) Record(id string, r corpus.Result) {
	o, ok := a.m[id]
	if !ok {
		o = &Outcome{}
		a.m[id] = o
	}
	o.Add(r)
}

// AddOutcome adds counts bucket-wise to id's outcome. Used when seeding
// a build run from a previously persisted index.
func (a *Aggregator) AddOutcome(id string, counts Outcome) {
	o, ok := a.m[id]
	if !ok {
		o = &Outcome{}
		a.m[id] = o
	}
	o.Merge(counts)
}

// Merge folds other into a bucket-wise. Merging is commutative and
// associative, so partial aggregators can be combined in any order.
func (a *Aggregator) Merge(other *Aggregator) {
	for id, o := range other.m {
		a.AddOutcome(id, *o)
	}
}

// Get returns the outcome for id, zero if never recorded.
func (a *Aggregator) Get(id string) Outcome {
	if o, ok := a.m[id]; ok {
		return *o
	}
	return Outcome{}
}

// Len returns the number of distinct positions recorded.
func (a *Aggregator) Len() int {
	return len(a.m)
}

// Range calls fn for every position until fn returns false. Iteration
// order is unspecified.
func (a *Aggregator) Range(fn func(id string, o Outcome) bool) {
	for id, o := range a.m {
		if !fn(id, *o) {
			return
		}
	}
}
