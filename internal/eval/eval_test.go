package eval

import (
	"testing"

	"github.com/hailam/chesssearch/internal/board"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  int
	}{
		{"start", board.StartFEN, 3, 0},
		{"white up a knight", "rnbqkb1r/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0, KnightValue},
		{"black up a queen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", 0, -QueenValue},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 2, 0},
		{"black mated", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", 2, WhiteWinScore + 2},
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 1, BlackWinScore - 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := Evaluate(pos, tc.depth); got != tc.want {
				t.Errorf("Evaluate(%d) = %d, want %d", tc.depth, got, tc.want)
			}
		})
	}
}

func TestMateDominatesMaterial(t *testing.T) {
	// Black is mated despite a large material edge.
	pos, err := board.ParseFEN("R5k1/5ppp/8/8/pppp4/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if Material(pos) >= 0 {
		t.Fatalf("expected black ahead on material, got %d", Material(pos))
	}
	if got := Evaluate(pos, 0); got != WhiteWinScore {
		t.Errorf("Evaluate = %d, want %d", got, WhiteWinScore)
	}
}
