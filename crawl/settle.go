// Package crawl: scroll settle tracking.
// Counts consecutive polls at the same scroll height so lazy loading can be
// declared finished.
package crawl

// Settler decides when a lazily loaded list has stopped growing.
type Settler struct {
	last   int64
	stable int
	rounds int

	needed    int
	maxRounds int
}

// NewSettler creates a Settler that settles after needed unchanged polls,
// or gives up after maxRounds polls.
func NewSettler(needed, maxRounds int) *Settler {
	if needed < 1 {
		needed = 1
	}
	return &Settler{last: -1, needed: needed, maxRounds: maxRounds}
}

// Observe records one height poll and reports whether polling should stop.
func (s *Settler) Observe(height int64) bool {
	s.rounds++
	if height == s.last {
		s.stable++
	} else {
		s.stable = 0
	}
	s.last = height
	return s.Settled() || s.Exhausted()
}

// Settled reports whether the height stayed put for enough polls.
func (s *Settler) Settled() bool {
	return s.stable >= s.needed
}

// Exhausted reports whether the round budget is used up.
func (s *Settler) Exhausted() bool {
	return s.maxRounds > 0 && s.rounds >= s.maxRounds
}

// Rounds returns the number of polls observed so far.
func (s *Settler) Rounds() int {
	return s.rounds
}

// Height returns the last observed height, or -1 before the first poll.
func (s *Settler) Height() int64 {
	return s.last
}
