package board

import "testing"

// perft counts leaf nodes at the given depth using make/undo.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		p.MakeMove(moves.Get(i))
		nodes += perft(p, depth-1)
		if err := p.UndoMoveWithoutMoveGen(); err != nil {
			panic(err)
		}
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []int64 // index i holds perft(i+1)
		short    int     // depths run under -short
	}{
		{"start", StartFEN, []int64{20, 400, 8902, 197281}, 3},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			[]int64{48, 2039, 97862}, 2},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
			[]int64{14, 191, 2812, 43238}, 3},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
			[]int64{6, 264, 9467}, 2},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			[]int64{44, 1486, 62379}, 2},
		{"position6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
			[]int64{46, 2079, 89890}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			before := pos.ToFEN()
			for i, want := range tc.expected {
				depth := i + 1
				if testing.Short() && depth > tc.short {
					break
				}
				if got := perft(pos, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if after := pos.ToFEN(); after != before {
				t.Errorf("position changed by perft: %s -> %s", before, after)
			}
		})
	}
}

// Black pawn on e4 cannot take en passant on d3: both pawns would leave
// the fourth rank and expose the king on a4 to the rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsEnPassant() {
			t.Errorf("en passant %v should be illegal (horizontal pin)", m)
		}
	}

	for depth, want := range map[int]int64{1: 6, 2: 94} {
		if got := perft(pos, depth); got != want {
			t.Errorf("perft(%d) = %d, want %d", depth, got, want)
		}
	}
}

func TestEnPassantEvasion(t *testing.T) {
	// The pawn that just reached d5 checks the king on e4; exd6 removes it.
	pos, err := ParseFEN("8/8/8/3pP3/4K3/8/8/7k w - d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.InCheck() {
		t.Fatal("expected white to be in check")
	}
	m, err := pos.ParseMove("e5d6")
	if err != nil {
		t.Fatalf("en passant evasion missing: %v", err)
	}
	if !m.IsEnPassant() {
		t.Errorf("e5d6 should be en passant, got flag %d", m.Flag())
	}
}
