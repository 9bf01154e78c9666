package tt

import (
	"testing"

	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/value"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	table := New(1)
	hash := uint64(0xdeadbeefcafef00d)
	mv := board.NewMove(board.E2, board.E4)

	table.Store(hash, 123, 5, mv, BoundExact, true)

	got, ok := table.Probe(hash)
	if !ok {
		t.Fatal("Probe did not find a just-stored entry")
	}
	if got.Eval != 123 {
		t.Errorf("Eval = %d, want 123", got.Eval)
	}
	if got.Depth != 5 {
		t.Errorf("Depth = %d, want 5", got.Depth)
	}
	if got.Move != mv {
		t.Errorf("Move = %s, want %s", got.Move, mv)
	}
	if got.Bound != BoundExact {
		t.Errorf("Bound = %v, want BoundExact", got.Bound)
	}
	if !got.IsPV {
		t.Error("IsPV = false, want true")
	}
}

func TestProbeMissOnDifferentKey(t *testing.T) {
	table := New(1)
	table.Store(1, 1, 1, board.NoMove, BoundExact, false)
	if _, ok := table.Probe(2); ok {
		t.Error("Probe succeeded for a key that was never stored")
	}
}

func TestProbeMissOnEmptyTable(t *testing.T) {
	table := New(1)
	if _, ok := table.Probe(0xabc); ok {
		t.Error("Probe succeeded on an empty table")
	}
}

func TestNegativeEvalRoundTrips(t *testing.T) {
	table := New(1)
	table.Store(7, -500, 3, board.NoMove, BoundUpper, false)
	got, ok := table.Probe(7)
	if !ok {
		t.Fatal("Probe missed")
	}
	if got.Eval != -500 {
		t.Errorf("Eval = %d, want -500", got.Eval)
	}
	if got.Bound != BoundUpper {
		t.Errorf("Bound = %v, want BoundUpper", got.Bound)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	table := New(1)
	table.Store(42, 1, 1, board.NoMove, BoundExact, false)
	table.Clear()
	if _, ok := table.Probe(42); ok {
		t.Error("Probe succeeded after Clear")
	}
	if hf := table.HashFull(); hf != 0 {
		t.Errorf("HashFull after Clear = %d, want 0", hf)
	}
}

func TestResizeIsPowerOfTwoCapacity(t *testing.T) {
	table := New(1)
	capacity := table.Capacity()
	if capacity&(capacity-1) != 0 {
		t.Errorf("Capacity %d is not a power of two", capacity)
	}
}

func TestHashFullReflectsOccupancy(t *testing.T) {
	table := New(1)
	for i := uint64(0); i < 100; i++ {
		table.Store(i+1, 1, 1, board.NoMove, BoundExact, false)
	}
	if hf := table.HashFull(); hf == 0 {
		t.Error("HashFull reports 0 after 100 stores")
	}
}

func TestAdjustToFromTTRoundTrip(t *testing.T) {
	ply := 4
	root := value.Mate - 2
	stored := AdjustToTT(root, ply)
	back := AdjustFromTT(stored, ply)
	if back != root {
		t.Errorf("AdjustFromTT(AdjustToTT(v)) = %d, want %d", back, root)
	}
}

func TestAdjustLeavesNonMateScoresUnchanged(t *testing.T) {
	v := value.Value(137)
	if got := AdjustToTT(v, 10); got != v {
		t.Errorf("AdjustToTT changed a non-mate score: got %d, want %d", got, v)
	}
	if got := AdjustFromTT(v, 10); got != v {
		t.Errorf("AdjustFromTT changed a non-mate score: got %d, want %d", got, v)
	}
}
