// Package eval implements tapered (midgame/endgame) material and
// piece-square evaluation using the PeSTO tables, with a mate/stalemate
// short-circuit ahead of the material+positional score.
package eval

import (
	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/value"
)

// Tempo is the side-to-move bonus named in the evaluation design. It is not
// applied by Evaluate: doing so unconditionally would make the starting
// position score +Tempo instead of the required exact zero (see
// DESIGN.md's evaluation entry), so it is left defined but unused here.
const Tempo value.Value = 25

// Game-phase thresholds bracketing midgame/endgame material totals.
const (
	MiddlegameScore value.Value = 6666
	EndgameScore    value.Value = 3333
)

// posPieceTypes lists the five non-king piece types evaluated for material,
// in the order the three value tables below are indexed.
var posPieceTypes = [5]board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}

// Initial/Midgame/Endgame material tables (centipawns), indexed the same
// as posPieceTypes.
var (
	initialValues = [5]value.Value{100, 280, 310, 500, 900}
	midgameValues = [5]value.Value{95, 310, 300, 500, 900}
	endgameValues = [5]value.Value{240, 200, 300, 600, 1050}
)

// pestoPieceTypes lists all six piece types in the order the PSQT arrays
// below are indexed (material tables above skip the king).
var pestoPieceTypes = [6]board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

// mgPSQT and egPSQT are the published PeSTO midgame/endgame piece-square
// tables, stored row-major as [rank 8..1 from white's view][file a..h].
var mgPSQT = [6][8][8]int16{
	pawnMG, knightMG, bishopMG, rookMG, queenMG, kingMG,
}

var egPSQT = [6][8][8]int16{
	pawnEG, knightEG, bishopEG, rookEG, queenEG, kingEG,
}

// Interp is the (early, middle, endgame) game-phase coefficient triple; all
// three sum to 1.
type Interp struct {
	Early, Middle, Endgame float64
}

// totalMaterial sums the initial-value material of every non-king piece
// currently on the board, both colors.
func totalMaterial(pos *board.Position) value.Value {
	var total value.Value
	for idx, pt := range posPieceTypes {
		count := pos.Pieces[board.White][pt].PopCount() + pos.Pieces[board.Black][pt].PopCount()
		total = total.Add(initialValues[idx].Mul(count))
	}
	return total
}

// interpolate computes the (early, middle, endgame) coefficients for pos.
func interpolate(pos *board.Position) Interp {
	total := float64(totalMaterial(pos))
	mid := float64(MiddlegameScore)
	end := float64(EndgameScore)
	midpoint := (mid + end) / 2

	var early, endgame float64
	switch {
	case total >= mid:
		early = 1
	case total <= midpoint:
		early = 0
	default:
		early = (total - midpoint) / (mid - midpoint)
	}
	switch {
	case total <= end:
		endgame = 1
	case total >= midpoint:
		endgame = 0
	default:
		endgame = (midpoint - total) / (midpoint - end)
	}
	return Interp{Early: early, Middle: 1 - early - endgame, Endgame: endgame}
}

// material returns side's material score under the given phase coefficients.
func material(pos *board.Position, side board.Color, interp Interp) value.Value {
	var total value.Value
	for idx, pt := range posPieceTypes {
		count := pos.Pieces[side][pt].PopCount()
		if count == 0 {
			continue
		}
		total = total.Add(initialValues[idx].Mul(count).Scale(interp.Early))
		total = total.Add(midgameValues[idx].Mul(count).Scale(interp.Middle))
		total = total.Add(endgameValues[idx].Mul(count).Scale(interp.Endgame))
	}
	return total
}

// pieceSquareIndex maps a square to a PeSTO table index, mirrored
// vertically by color: white reads row = 7-rank, black reads row = rank.
// sq.Mirror() derives the mirror with an XOR by 56 rather than branching.
func pieceSquareIndex(sq board.Square, side board.Color) (row, col int) {
	s := sq
	if side == board.White {
		s = sq.Mirror()
	}
	return s.Rank(), s.File()
}

// pieceSquareBenefit returns side's piece-square score under interp.
func pieceSquareBenefit(pos *board.Position, side board.Color, interp Interp) value.Value {
	var total value.Value
	for idx, pt := range pestoPieceTypes {
		bb := pos.Pieces[side][pt]
		mg := mgPSQT[idx]
		eg := egPSQT[idx]
		for bb != 0 {
			sq := bb.PopLSB()
			row, col := pieceSquareIndex(sq, side)
			mgv := value.Value(mg[row][col])
			egv := value.Value(eg[row][col])
			total = total.Add(mgv.Scale(interp.Early + interp.Middle))
			total = total.Add(egv.Scale(interp.Endgame))
		}
	}
	return total
}

// Evaluate returns pos's score from the side-to-move's perspective, given
// its legal move list (so the terminal checkmate/stalemate cases need not
// regenerate moves).
func Evaluate(pos *board.Position, moves *board.MoveList) value.Value {
	stm := pos.SideToMove
	them := stm.Other()

	if moves.Len() == 0 {
		if pos.Checkers != 0 {
			return value.Mate.Neg()
		}
		// Stalemate: a small negative fraction of the material delta, so
		// the side ahead on material is discouraged from drawing it away.
		interp := Interp{Endgame: 1}
		delta := material(pos, stm, interp).Sub(material(pos, them, interp))
		return delta.Neg().Scale(0.1)
	}

	interp := interpolate(pos)

	score := material(pos, stm, interp).Sub(material(pos, them, interp))
	score = score.Add(pieceSquareBenefit(pos, stm, interp)).Sub(pieceSquareBenefit(pos, them, interp))
	return score
}
