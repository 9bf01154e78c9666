package search

import (
	"testing"
	"time"

	"github.com/andtsa/chesscore/internal/board"
	"github.com/andtsa/chesscore/internal/controller"
	"github.com/andtsa/chesscore/internal/options"
	"github.com/andtsa/chesscore/internal/position"
	"github.com/andtsa/chesscore/internal/tt"
	"github.com/andtsa/chesscore/internal/value"
	"github.com/rs/zerolog"
)

func newTestSearcher() (*Searcher, *controller.Controller) {
	ctrl := controller.New()
	s := New(tt.New(1), options.NewStore(), ctrl, zerolog.Nop())
	return s, ctrl
}

func runToDepth(t *testing.T, fen string, depth int) []Message {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	root := position.New(b, nil)

	s, ctrl := newTestSearcher()
	ctrl.Begin(controller.Limits{Depth: depth}, b.SideToMove == board.White, 0)

	messages := make(chan Message, 4096)
	s.IterativeDeepening(root, messages)
	close(messages)

	var out []Message
	for m := range messages {
		out = append(out, m)
	}
	return out
}

func lastBestMove(msgs []Message) (board.Move, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == KindBestMove {
			return msgs[i].Move, true
		}
	}
	return board.NoMove, false
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Classic back-rank pattern: black's own pawns trap the king on the
	// 8th rank, so Ra1-a8 is checkmate.
	fen := "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	msgs := runToDepth(t, fen, 3)
	best, ok := lastBestMove(msgs)
	if !ok {
		t.Fatal("no KindBestMove message produced")
	}
	want, err := board.ParseMove("a1a8", mustParseFEN(t, fen))
	if err != nil {
		t.Fatal(err)
	}
	if best != want {
		t.Errorf("best move = %s, want %s (the mating move)", best, want)
	}
}

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSearchTerminatesAtExactDepth(t *testing.T) {
	msgs := runToDepth(t, board.StartFEN, 2)
	infoCount := 0
	for _, m := range msgs {
		if m.Kind == KindInfo {
			infoCount++
			if m.Info.Depth > 2 {
				t.Errorf("got an Info message for depth %d, expected at most 2", m.Info.Depth)
			}
		}
	}
	if infoCount == 0 {
		t.Error("expected at least one Info message")
	}
}

func TestSearchRespectsMoveTimeDeadline(t *testing.T) {
	b, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	root := position.New(b, nil)
	s, ctrl := newTestSearcher()
	ctrl.Begin(controller.Limits{MoveTime: 20 * time.Millisecond}, true, 0)

	messages := make(chan Message, 8192)
	done := make(chan struct{})
	go func() {
		s.IterativeDeepening(root, messages)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("IterativeDeepening did not return within 2s of a 20ms MoveTime limit")
	}
}

func TestNegamaxReturnsDrawScoreOnRepetition(t *testing.T) {
	b, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	root := position.New(b, nil)
	line := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	p := root
	for _, mv := range line {
		m, err := board.ParseMove(mv, p.Board)
		if err != nil {
			t.Fatal(err)
		}
		p = p.Apply(m)
	}

	s, _ := newTestSearcher()
	score := s.negamax(p, 2, 1, value.Min, value.Max)
	if score != value.Draw {
		t.Errorf("negamax at a threefold-repeated position = %d, want %d (draw)", score, value.Draw)
	}
}
