package board

import "testing"

func TestTerminalPositions(t *testing.T) {
	cases := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
		inCheck   bool
	}{
		{
			name:      "back rank mate",
			fen:       "R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
			checkmate: true,
			inCheck:   true,
		},
		{
			name:    "king can capture the checking rook",
			fen:     "6Rk/8/8/8/8/8/8/K7 b - - 0 1",
			inCheck: true,
		},
		{
			name:      "classic stalemate, black not in check and no legal moves",
			fen:       "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			stalemate: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			pos.UpdateCheckers()

			if got := pos.InCheck(); got != tc.inCheck {
				t.Errorf("InCheck() = %v, want %v", got, tc.inCheck)
			}
			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate() = %v, want %v", got, tc.checkmate)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate() = %v, want %v", got, tc.stalemate)
			}
			if tc.checkmate || tc.stalemate {
				if pos.HasLegalMoves() {
					t.Error("a checkmate or stalemate position must have no legal moves")
				}
			}
		})
	}
}
