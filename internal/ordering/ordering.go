// Package ordering produces the ordered sequence of legal moves the search
// consumes at every node: unordered, MVV-dominant "Ordered", PV-first, and
// a killer/history-refined partial sort for internal nodes.
package ordering

import "github.com/andtsa/chesscore/internal/board"

// MaxPly bounds the killer-move ring: 512 slots so killers survive across
// iterative-deepening depths without the table growing with search depth.
const MaxPly = 512

// MVV-LVA priority scores: score(m) = MVV(victim) - LVA(attacker).
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 13, 12, 11, 10},
	/* N */ {25, 24, 23, 22, 21, 20},
	/* B */ {35, 34, 33, 32, 31, 30},
	/* R */ {45, 44, 43, 42, 41, 40},
	/* Q */ {55, 54, 53, 52, 51, 50},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// killerScore is the ordering score a non-capture killer move receives, in
// place of its history count.
const killerScore = 8000

// MoveOrdering is an ordered sequence of legal moves plus an optional
// designated principal-variation move. Iteration draws the PV move first
// (if legal), then the remainder in list order.
type MoveOrdering struct {
	moves []board.Move
	pv    board.Move // board.NoMove if there is none
}

// Len returns the number of moves.
func (o *MoveOrdering) Len() int { return len(o.moves) }

// Moves returns the moves with the PV move (if any and legal) first.
func (o *MoveOrdering) Moves() []board.Move {
	if o.pv == board.NoMove {
		return o.moves
	}
	for i, m := range o.moves {
		if m == o.pv {
			if i == 0 {
				return o.moves
			}
			ordered := make([]board.Move, len(o.moves))
			ordered[0] = m
			copy(ordered[1:], o.moves[:i])
			copy(ordered[1+i:], o.moves[i+1:])
			return ordered
		}
	}
	// PV move is not legal in this position: fall back to Ordered unchanged.
	return o.moves
}

func legalMoves(pos *board.Position) []board.Move {
	ml := pos.GenerateLegalMoves()
	out := make([]board.Move, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out[i] = ml.Get(i)
	}
	return out
}

// Unordered returns the legal move enumeration in library order.
func Unordered(pos *board.Position) *MoveOrdering {
	return &MoveOrdering{moves: legalMoves(pos), pv: board.NoMove}
}

// Ordered buckets moves by destination-square occupancy so captures of more
// valuable victims come first, without a full comparison sort: queen
// captures, then rook, then bishop/knight, then pawn, then the rest.
func Ordered(pos *board.Position) *MoveOrdering {
	all := legalMoves(pos)
	var buckets [5][]board.Move // queen, rook, bishop/knight, pawn, rest
	for _, m := range all {
		if m.IsCapture(pos) {
			victim := board.Pawn
			if !m.IsEnPassant() {
				victim = pos.PieceAt(m.To()).Type()
			}
			switch victim {
			case board.Queen:
				buckets[0] = append(buckets[0], m)
			case board.Rook:
				buckets[1] = append(buckets[1], m)
			case board.Bishop, board.Knight:
				buckets[2] = append(buckets[2], m)
			case board.Pawn:
				buckets[3] = append(buckets[3], m)
			default:
				buckets[4] = append(buckets[4], m)
			}
			continue
		}
		buckets[4] = append(buckets[4], m)
	}
	ordered := make([]board.Move, 0, len(all))
	for _, b := range buckets {
		ordered = append(ordered, b...)
	}
	return &MoveOrdering{moves: ordered, pv: board.NoMove}
}

// PVOrdered is Ordered with pvMove moved to position 0 when it is legal in
// this position; otherwise it returns the Ordered list unchanged.
func PVOrdered(pos *board.Position, pvMove board.Move) *MoveOrdering {
	o := Ordered(pos)
	if pvMove != board.NoMove {
		o.pv = pvMove
	}
	return o
}

// History holds the killer-move and history-heuristic tables used to
// refine move ordering at internal search nodes.
//
// killers[ply mod MaxPly][0..1]: up to two non-capture moves that caused a
// cutoff at that ply, newest first. history[from][to]: unsigned counter
// incremented by depth^2 on every beta-cutoff by a quiet move.
type History struct {
	killers [MaxPly][2]board.Move
	history [64][64]uint32
}

// NewHistory returns an empty killer/history table.
func NewHistory() *History {
	h := &History{}
	h.clearKillers()
	return h
}

func (h *History) clearKillers() {
	for i := range h.killers {
		h.killers[i][0] = board.NoMove
		h.killers[i][1] = board.NoMove
	}
}

// Clear resets killers and history counters. IterativeDeepening calls it at
// the start of every search, so neither table carries over from one search
// to the next.
func (h *History) Clear() {
	h.clearKillers()
	for i := range h.history {
		for j := range h.history[i] {
			h.history[i][j] = 0
		}
	}
}

// IsKiller reports whether m is a recorded killer at ply.
func (h *History) IsKiller(m board.Move, ply int) bool {
	slot := h.killers[ply%MaxPly]
	return slot[0] == m || slot[1] == m
}

// UpdateKiller records m as a killer at ply. [0] is always the most recent;
// insertion slides [0] down to [1] only when m differs from [0].
func (h *History) UpdateKiller(m board.Move, ply int) {
	slot := &h.killers[ply%MaxPly]
	if slot[0] == m {
		return
	}
	slot[1] = slot[0]
	slot[0] = m
}

// AddHistory adds depth^2 to the from-to history counter, called on every
// beta-cutoff caused by a quiet move.
func (h *History) AddHistory(from, to board.Square, depth int) {
	h.history[from][to] += uint32(depth * depth)
}

// Score returns the ordering score for a single move under this history:
// MVV(victim)-LVA(attacker) for captures, killerScore for a killer, else
// the accumulated history count.
func (h *History) Score(pos *board.Position, m board.Move, ply int) int {
	if m.IsCapture(pos) {
		attacker := pos.PieceAt(m.From()).Type()
		victim := board.Pawn
		if !m.IsEnPassant() {
			victim = pos.PieceAt(m.To()).Type()
		}
		return mvvLva[victim][attacker]
	}
	if h.IsKiller(m, ply) {
		return killerScore
	}
	return int(h.history[m.From()][m.To()])
}

// ScoreMoves assigns an ordering score to every move in o's PV-first order.
func (h *History) ScoreMoves(pos *board.Position, o *MoveOrdering, ply int) []int {
	moves := o.Moves()
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = h.Score(pos, m, ply)
	}
	return scores
}

// PickMove selects the best-scoring remaining move starting at index and
// swaps it into place: a partial selection sort, since alpha-beta usually
// prunes after a handful of expansions and a full sort would waste work.
func PickMove(moves []board.Move, scores []int, index int) {
	best := index
	for j := index + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves[index], moves[best] = moves[best], moves[index]
		scores[index], scores[best] = scores[best], scores[index]
	}
}
