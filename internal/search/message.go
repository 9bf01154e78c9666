package search

import (
	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/value"
)

// Info summarizes one completed iterative-deepening depth.
type Info struct {
	Depth value.Depth
	Score value.Value
	Nodes uint64
	PV    []board.Move
}

// Kind discriminates the payload carried by a Message.
type Kind int

const (
	// KindBestGuess reports a new best move found mid-iteration, before the
	// depth has fully completed.
	KindBestGuess Kind = iota
	// KindInfo reports a completed depth's summary.
	KindInfo
	// KindBestMove is the final, authoritative result of the search.
	KindBestMove
	// KindPonder carries the move the engine expects to ponder on next,
	// sent alongside KindBestMove when one is available.
	KindPonder
)

// Message is what the search goroutine publishes to the UCI/info-listener
// goroutine over the results channel.
type Message struct {
	Kind  Kind
	Move  board.Move
	Score value.Value
	Info  Info
}
