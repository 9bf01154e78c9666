// Package controller holds the search lifecycle state shared between the
// UCI command loop and the search goroutine: the atomic searching/stop
// flags, the exit condition they're tested through, and the UCI time
// control to deadline conversion.
package controller

import (
	"sync/atomic"
	"time"
)

// Limits carries the parameters of a UCI `go` command.
type Limits struct {
	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int
	MoveTime             time.Duration
	Depth                int
	Nodes                uint64
	Infinite             bool
}

// safetyMargin is subtracted from every computed deadline so a slow info
// write or OS scheduling jitter never pushes a reply past the GUI's clock.
const safetyMargin = time.Millisecond

// Controller is the single point of coordination between the command loop
// (which starts searches and can ask them to stop) and the search
// goroutine (which polls ExitCondition between move expansions).
type Controller struct {
	searching atomic.Bool
	exit      atomic.Bool

	searchTo    atomic.Int64 // max depth for this search, 0 = unbounded
	searchUntil atomic.Int64 // unix nanoseconds deadline, 0 = unbounded
}

// New returns a Controller ready for its first search.
func New() *Controller {
	return &Controller{}
}

// Begin marks a search as started, computing its depth/time bounds from
// limits. white selects which side's clock/increment applies.
func (c *Controller) Begin(limits Limits, white bool, ply int) {
	c.searching.Store(true)

	const unboundedDepth = 1 << 20
	depth := limits.Depth
	if depth <= 0 {
		depth = unboundedDepth
	}
	c.searchTo.Store(int64(depth))

	deadline := deadlineFor(limits, white, ply)
	if deadline.IsZero() {
		c.searchUntil.Store(0)
	} else {
		c.searchUntil.Store(deadline.UnixNano())
	}
}

// deadlineFor implements the four UCI time-control branches: fixed move
// time, infinite/depth-only (no deadline), and clock+increment with or
// without an explicit moves-to-go.
func deadlineFor(limits Limits, white bool, ply int) time.Time {
	now := time.Now()

	switch {
	case limits.MoveTime > 0:
		d := limits.MoveTime - safetyMargin
		if d < 0 {
			d = 0
		}
		return now.Add(d)

	case limits.Infinite:
		return time.Time{}

	case limits.WhiteTime == 0 && limits.BlackTime == 0:
		return time.Time{}

	default:
		timeLeft := limits.BlackTime
		inc := limits.BlackInc
		if white {
			timeLeft = limits.WhiteTime
			inc = limits.WhiteInc
		}

		mtg := limits.MovesToGo
		if mtg <= 0 {
			mtg = 50
		}

		allotted := timeLeft/time.Duration(mtg) + inc - safetyMargin
		if allotted < 0 {
			allotted = 0
		}
		// Never allocate more than what's on the clock.
		if allotted > timeLeft {
			allotted = timeLeft - safetyMargin
			if allotted < 0 {
				allotted = 0
			}
		}
		return now.Add(allotted)
	}
}

// Stop asks the current search to return as soon as it next polls
// ExitCondition, without affecting Exit.
func (c *Controller) Stop() {
	c.searchUntil.Store(time.Now().Add(-time.Second).UnixNano())
	c.searchTo.Store(0)
}

// Quit asks the current (and any future) search to stop permanently.
func (c *Controller) Quit() {
	c.exit.Store(true)
	c.Stop()
}

// ExitCondition reports whether the running search should return now. As a
// side effect, once it reports true for a time- or depth-exhausted search
// (not a Quit), it clears the Searching flag, mirroring the single-shot
// stop semantics the UCI loop depends on to know a search has wound down.
func (c *Controller) ExitCondition(currentDepth int) bool {
	if c.exit.Load() {
		return true
	}
	to := c.searchTo.Load()
	if to != 0 && int64(currentDepth) > to {
		c.searching.Store(false)
		return true
	}
	until := c.searchUntil.Load()
	if until != 0 && time.Now().UnixNano() >= until {
		c.searching.Store(false)
		return true
	}
	return false
}

// Searching reports whether a search is currently in flight.
func (c *Controller) Searching() bool {
	return c.searching.Load()
}

// Finish clears the searching flag unconditionally, called once the search
// goroutine has produced its final bestmove.
func (c *Controller) Finish() {
	c.searching.Store(false)
}
