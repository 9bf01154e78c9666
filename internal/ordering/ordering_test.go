package ordering

import (
	"sort"
	"testing"

	"github.com/andtsa/chesscore/internal/board"
)

var benchFENs = []string{
	board.StartFEN,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"rnbqkb1r/ppp2ppp/3p1n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 4",
	"8/1k6/8/8/7n/4Nn2/8/1rq2R1K b - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
}

func TestOrderedSetEqualsLegalMoves(t *testing.T) {
	for _, fen := range benchFENs {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		legal := legalMoves(pos)
		ordered := Ordered(pos)

		if ordered.Len() != len(legal) {
			t.Fatalf("%s: Ordered has %d moves, legal has %d", fen, ordered.Len(), len(legal))
		}

		want := map[board.Move]bool{}
		for _, m := range legal {
			want[m] = true
		}
		for _, m := range ordered.Moves() {
			if !want[m] {
				t.Errorf("%s: Ordered contains move %s not in legal set", fen, m)
			}
			delete(want, m)
		}
		if len(want) != 0 {
			t.Errorf("%s: Ordered is missing %d legal moves", fen, len(want))
		}
	}
}

func TestPVOrderedPutsPVFirstWhenLegal(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	legal := legalMoves(pos)
	pv := legal[len(legal)-1]

	o := PVOrdered(pos, pv)
	moves := o.Moves()
	if moves[0] != pv {
		t.Errorf("PVOrdered did not put the PV move first: got %s, want %s", moves[0], pv)
	}
}

func TestPVOrderedFallsBackWhenIllegal(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	illegal := board.NewMove(board.A1, board.H8) // not a legal rook/anything move here
	o := PVOrdered(pos, illegal)
	plainOrdered := Ordered(pos)
	if o.Len() != plainOrdered.Len() {
		t.Fatalf("unexpected length with illegal PV move")
	}
	for i, m := range o.Moves() {
		if m != plainOrdered.Moves()[i] {
			t.Fatalf("PVOrdered with illegal PV move should equal Ordered unchanged at index %d", i)
		}
	}
}

// TestMVVLVATotalOrder enforces that the capture-ordering relation induced
// by History.Score is a total order: antisymmetric and transitive, with
// ties broken by generation (index) order.
func TestMVVLVATotalOrder(t *testing.T) {
	h := NewHistory()
	for _, fen := range benchFENs {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var captures []board.Move
		for _, m := range legalMoves(pos) {
			if m.IsCapture(pos) {
				captures = append(captures, m)
			}
		}
		if len(captures) < 2 {
			continue
		}
		scores := make([]int, len(captures))
		for i, m := range captures {
			scores[i] = h.Score(pos, m, 0)
		}

		type indexed struct {
			move  board.Move
			score int
			gen   int
		}
		items := make([]indexed, len(captures))
		for i := range captures {
			items[i] = indexed{captures[i], scores[i], i}
		}
		less := func(a, b indexed) bool {
			if a.score != b.score {
				return a.score > b.score
			}
			return a.gen < b.gen
		}
		sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })

		for i := 0; i+1 < len(items); i++ {
			if less(items[i+1], items[i]) {
				t.Fatalf("%s: capture ordering is not total/transitive at %d", fen, i)
			}
		}
	}
}
