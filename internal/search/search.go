// Package search implements the negamax/alpha-beta core: iterative
// deepening at the root, negamax with transposition-table probing and
// quiescence at the horizon, reporting progress and the final result
// through a channel of Message values.
package search

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/controller"
	"github.com/andtsa/chesscore/internal/eval"
	"github.com/andtsa/chesscore/internal/options"
	"github.com/andtsa/chesscore/internal/ordering"
	"github.com/andtsa/chesscore/internal/position"
	"github.com/andtsa/chesscore/internal/tt"
	"github.com/andtsa/chesscore/internal/value"
)

const maxPly = 128

// pvTable stores the principal variation line discovered at every ply
// during the current search, triangular-array style: pvTable.moves[ply][*]
// holds the line from that ply down, pvTable.length[ply] how much of it is
// populated.
type pvTable struct {
	length [maxPly]int
	moves  [maxPly][maxPly]board.Move
}

func (t *pvTable) update(ply int, m board.Move) {
	t.moves[ply][ply] = m
	for j := ply + 1; j < t.length[ply+1]; j++ {
		t.moves[ply][j] = t.moves[ply+1][j]
	}
	t.length[ply] = t.length[ply+1]
}

// Searcher holds everything one call to IterativeDeepening needs: the
// shared transposition table (outlives the call, cleared only on
// ucinewgame), a fresh killer/history table, and the atomic node counter
// read back by `info nodes`.
type Searcher struct {
	tt      *tt.Table
	history *ordering.History
	opts    *options.Store
	ctrl    *controller.Controller
	log     zerolog.Logger

	nodes uint64
	pv    pvTable
}

// New builds a Searcher sharing table, opts and ctrl with the rest of the
// engine; history is private to one search call.
func New(table *tt.Table, opts *options.Store, ctrl *controller.Controller, log zerolog.Logger) *Searcher {
	return &Searcher{
		tt:      table,
		history: ordering.NewHistory(),
		opts:    opts,
		ctrl:    ctrl,
		log:     log,
	}
}

// Nodes returns the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// negamax returns the score of p from the side-to-move's perspective,
// searched to depth plies (quiescence beyond that), within window
// [alpha,beta]. ply is the distance from the search root, used for mate
// scoring and PV/killer bookkeeping.
func (s *Searcher) negamax(p *position.Position, depth value.Depth, ply int, alpha, beta value.Value) value.Value {
	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 && p.IsDraw() {
		return value.Draw
	}

	opts := s.opts.Get()

	var ttMove board.Move = board.NoMove
	if opts.UseTT {
		if entry, found := s.tt.Probe(p.Board.Hash); found {
			ttMove = entry.Move
			if int(entry.Depth) >= int(depth) {
				score := tt.AdjustFromTT(entry.Eval, ply)
				switch entry.Bound {
				case tt.BoundExact:
					return score
				case tt.BoundLower:
					if score > alpha {
						alpha = score
					}
				case tt.BoundUpper:
					if score < beta {
						beta = score
					}
				}
				if opts.UseAB && alpha >= beta {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(p, ply, alpha, beta)
	}

	moves := p.Board.GenerateLegalMoves()
	if moves.Len() == 0 {
		score := eval.Evaluate(p.Board, moves)
		if p.Board.InCheck() {
			score = score.Add(value.Value(ply))
		}
		return score
	}

	var order *ordering.MoveOrdering
	if opts.UsePV {
		order = ordering.PVOrdered(p.Board, ttMove)
	} else {
		order = ordering.Ordered(p.Board)
	}
	orderedMoves := order.Moves()
	scores := s.history.ScoreMoves(p.Board, order, ply)

	bestScore := value.Min
	bestMove := board.NoMove
	bound := tt.BoundUpper

	for i := 0; i < len(orderedMoves); i++ {
		ordering.PickMove(orderedMoves, scores, i)
		m := orderedMoves[i]

		child := p.Apply(m)
		childScore := s.negamax(child, depth.Sub(value.OnePly), ply+1, beta.Neg(), alpha.Neg()).Neg()

		if childScore > bestScore {
			bestScore = childScore
			bestMove = m
			if childScore > alpha {
				alpha = childScore
				bound = tt.BoundExact
				s.pv.update(ply, m)
			}
		}

		cutoff := opts.UseAB && childScore >= beta
		if cutoff {
			bound = tt.BoundLower
			bestScore = childScore
			bestMove = m
		}

		// Polled after every child expansion rather than on a node-count
		// cadence, so a `stop`/deadline is honored as soon as the current
		// child's result is safely folded in.
		if cutoff || s.ctrl.ExitCondition(ply) {
			break
		}
	}

	if !isCapture(p.Board, bestMove) && bestMove != board.NoMove && bound == tt.BoundLower {
		s.history.UpdateKiller(bestMove, ply)
		s.history.AddHistory(bestMove.From(), bestMove.To(), int(depth))
	}

	if opts.UseTT {
		// is-PV is always stored false: no code path here ever marks an
		// entry PV at Store time (see SPEC_FULL.md §9).
		s.tt.Store(p.Board.Hash, tt.AdjustToTT(bestScore, ply), depth, bestMove, bound, false)
	}

	return bestScore
}

func isCapture(pos *board.Position, m board.Move) bool {
	if m == board.NoMove {
		return false
	}
	return m.IsCapture(pos)
}

// quiescence extends the search along capture sequences only, to avoid
// misjudging a position mid-exchange (the horizon effect).
func (s *Searcher) quiescence(p *position.Position, ply int, alpha, beta value.Value) value.Value {
	s.nodes++

	const maxQuiescencePly = 32
	if ply >= maxPly || ply > maxQuiescencePly {
		return eval.Evaluate(p.Board, p.Board.GenerateLegalMoves())
	}

	moves := p.Board.GenerateLegalMoves()
	if moves.Len() == 0 {
		score := eval.Evaluate(p.Board, moves)
		if p.Board.InCheck() {
			score = score.Add(value.Value(ply))
		}
		return score
	}

	standPat := eval.Evaluate(p.Board, moves)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	const queenValue = value.Value(900)
	if standPat.Add(queenValue) < alpha {
		return alpha
	}

	captures := p.Board.GenerateCaptures()
	scored := make([]board.Move, captures.Len())
	for i := 0; i < captures.Len(); i++ {
		scored[i] = captures.Get(i)
	}
	scores := make([]int, len(scored))
	for i, m := range scored {
		scores[i] = s.history.Score(p.Board, m, ply)
	}

	inCheck := p.Board.InCheck()
	for i := 0; i < len(scored); i++ {
		ordering.PickMove(scored, scores, i)
		m := scored[i]

		if !inCheck {
			captureValue := captureValueOf(p.Board, m)
			if standPat.Add(captureValue).Add(200) < alpha {
				continue
			}
		}

		child := p.Apply(m)
		score := s.quiescence(child, ply+1, beta.Neg(), alpha.Neg()).Neg()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func captureValueOf(pos *board.Position, m board.Move) value.Value {
	var v value.Value
	if m.IsEnPassant() {
		v = 100
	} else if piece := pos.PieceAt(m.To()); piece != board.NoPiece {
		v = value.Value(board.PieceValue[piece.Type()])
	}
	if m.IsPromotion() {
		v = v.Add(800)
	}
	return v
}

// ErrSearchInterrupted describes a search stopped before any root move has
// been fully searched. Nothing in this package returns it: IterativeDeepening
// reports such a search as a KindBestMove carrying board.NoMove.
var ErrSearchInterrupted = errors.New("search interrupted before a root move completed")
