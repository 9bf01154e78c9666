// Package position wraps internal/board's mutable bitboard Position behind
// a functional-apply, ply-counted value that the search recursion can treat
// as immutable: Apply always returns a new wrapper, the receiver is left
// untouched.
package position

import "github.com/andtsa/chesscore/internal/board"

// Position pairs the board state with how many plies deep into the current
// search line it sits, plus the hash history needed to detect repetitions
// that occurred earlier in this line (game history before the search root
// is supplied at construction time).
type Position struct {
	Board   *board.Position
	Ply     int
	history []uint64 // hashes of this position and every ancestor, oldest first
}

// New wraps a board position as the root of a search line. priorHashes is
// the game's hash history up to (but not including) this position, oldest
// first — used to detect repetitions that reach back before the search
// began.
func New(b *board.Position, priorHashes []uint64) *Position {
	history := make([]uint64, 0, len(priorHashes)+1)
	history = append(history, priorHashes...)
	history = append(history, b.Hash)
	return &Position{Board: b, Ply: 0, history: history}
}

// Apply returns a new Position reflecting m played against p, without
// mutating p: the underlying board.Position.Copy is used so the search's
// per-node board state never aliases a sibling's.
func (p *Position) Apply(m board.Move) *Position {
	child := p.Board.Copy()
	child.MakeMove(m)

	history := make([]uint64, len(p.history)+1)
	copy(history, p.history)
	history[len(p.history)] = child.Hash

	return &Position{Board: child, Ply: p.Ply + 1, history: history}
}

// IsRepetition reports whether the current position's hash has occurred at
// least twice before in this line's history (threefold repetition,
// including positions from before the search root).
func (p *Position) IsRepetition() bool {
	count := 0
	target := p.Board.Hash
	for _, h := range p.history {
		if h == target {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports whether the position is a draw by the board's own rules
// (stalemate, fifty-move, insufficient material) or by repetition.
func (p *Position) IsDraw() bool {
	return p.Board.IsDraw() || p.IsRepetition()
}
