package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		san  string
	}{
		{StartFEN, "g1f3", "Nf3"},
		{StartFEN, "e2e4", "e4"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", "b8=Q+"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", "exf6"},
	}

	for _, tc := range tests {
		t.Run(tc.san, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			m, err := pos.ParseMove(tc.move)
			if err != nil {
				t.Fatal(err)
			}
			before := pos.ToFEN()
			if got := pos.SAN(m); got != tc.san {
				t.Errorf("SAN(%s) = %q, want %q", tc.move, got, tc.san)
			}
			if pos.ToFEN() != before {
				t.Error("SAN changed the position")
			}

			back, err := pos.ParseSAN(tc.san)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.san, err)
			}
			if back != m {
				t.Errorf("ParseSAN(%q) = %v, want %v", tc.san, back, m)
			}
		})
	}
}

func TestParseSANRejects(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e5", "Nf4", "O-O", "Qxd7", "x"} {
		if _, err := pos.ParseSAN(s); err == nil {
			t.Errorf("ParseSAN(%q) accepted an illegal move", s)
		}
	}
}
