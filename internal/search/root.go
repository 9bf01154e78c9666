package search

import (
	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/ordering"
	"github.com/andtsa/chesscore/internal/position"
	"github.com/andtsa/chesscore/internal/value"
)

// IterativeDeepening searches root with increasing depth until the
// controller's exit condition fires or value.MaxDepth is done, publishing a KindBestGuess on every
// improving root move, a KindInfo after every completed depth, a
// KindPonder carrying the expected reply whenever the final PV has one,
// and exactly one KindBestMove when it returns. messages is never closed
// by this function; the caller owns its lifetime.
func (s *Searcher) IterativeDeepening(root *position.Position, messages chan<- Message) {
	s.nodes = 0
	s.history.Clear()

	var bestMove board.Move
	var bestScore value.Value
	var bestPV []board.Move

	for depth := value.Depth(1); depth <= value.MaxDepth && !s.ctrl.ExitCondition(int(depth)); depth++ {
		alpha, beta := value.Min, value.Max

		order := ordering.PVOrdered(root.Board, bestMove)
		moves := order.Moves()

		depthBestScore := value.Min
		var depthBestMove board.Move
		var depthPV []board.Move
		searched := 0

		for _, m := range moves {
			child := root.Apply(m)
			childScore := s.negamax(child, depth.Sub(value.OnePly), 1, beta.Neg(), alpha.Neg()).Neg()

			if childScore > depthBestScore {
				depthBestScore = childScore
				depthBestMove = m
				// Snapshot the ply-1 PV row now: it describes the
				// continuation after m, and the next root move's negamax
				// call will overwrite it before this loop sees it again.
				depthPV = append([]board.Move{m}, s.pv.moves[1][1:s.pv.length[1]]...)
				messages <- Message{Kind: KindBestGuess, Move: m, Score: childScore}
			}
			if childScore > alpha {
				alpha = childScore
			}
			searched++

			if s.ctrl.ExitCondition(int(depth)) {
				break
			}
		}

		if depthBestMove != board.NoMove {
			bestMove = depthBestMove
			bestScore = depthBestScore
			bestPV = depthPV
		}

		if searched == len(moves) {
			messages <- Message{
				Kind:  KindInfo,
				Score: bestScore,
				Info: Info{
					Depth: depth,
					Score: bestScore,
					Nodes: s.nodes,
					PV:    bestPV,
				},
			}
		}
	}

	if len(bestPV) > 1 {
		messages <- Message{Kind: KindPonder, Move: bestPV[1], Score: bestScore}
	}
	messages <- Message{Kind: KindBestMove, Move: bestMove, Score: bestScore}
}
