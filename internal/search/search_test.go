package search

import (
	"errors"
	"testing"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/eval"
)

// takeAway is a subtraction game: players alternately remove 1..maxTake
// stones and whoever takes the last stone wins. It panics if a caller reads
// its move list while stale.
type takeAway struct {
	pile, maxTake int
	first         bool // maximizer to move
	history       []int
	legal         []int
	legalValid    bool
}

func newTakeAway(pile, maxTake int) *takeAway {
	g := &takeAway{pile: pile, maxTake: maxTake, first: true}
	g.GenerateLegalMoves()
	return g
}

func (g *takeAway) GenerateLegalMoves() {
	g.legal = g.legal[:0]
	for k := 1; k <= g.maxTake && k <= g.pile; k++ {
		g.legal = append(g.legal, k)
	}
	g.legalValid = true
}

func (g *takeAway) checkFresh() {
	if !g.legalValid {
		panic("takeAway: stale move list read")
	}
}

func (g *takeAway) IsGameOver() bool {
	g.checkFresh()
	return len(g.legal) == 0
}

func (g *takeAway) AppendLegalMoves(dst []int) []int {
	g.checkFresh()
	return append(dst, g.legal...)
}

func (g *takeAway) MakeMove(k int) {
	g.pile -= k
	g.history = append(g.history, k)
	g.first = !g.first
	g.legalValid = false
}

func (g *takeAway) UndoMove() error {
	if err := g.UndoMoveWithoutMoveGen(); err != nil {
		return err
	}
	g.GenerateLegalMoves()
	return nil
}

func (g *takeAway) UndoMoveWithoutMoveGen() error {
	n := len(g.history)
	if n == 0 {
		return errors.New("takeAway: nothing to undo")
	}
	g.pile += g.history[n-1]
	g.history = g.history[:n-1]
	g.first = !g.first
	g.legalValid = false
	return nil
}

func (g *takeAway) Maximizing() bool { return g.first }
func (g *takeAway) IsQuiet() bool    { return true }

// takeAwayScore: the side to move on an empty pile has lost.
func takeAwayScore(g *takeAway, depth int) int {
	if g.pile > 0 {
		return 0
	}
	if g.first {
		return -100 - depth
	}
	return 100 + depth
}

func TestTakeAwayBestMove(t *testing.T) {
	for _, kind := range []Kind{Minimax, AlphaBeta, Quiescence} {
		t.Run(kind.String(), func(t *testing.T) {
			s, err := New[int](Config[*takeAway]{Kind: kind, Depth: 5, QuiescenceDepth: 2, Evaluator: takeAwayScore})
			if err != nil {
				t.Fatal(err)
			}
			g := newTakeAway(5, 3)
			move, score, err := s.BestMove(g)
			if err != nil {
				t.Fatal(err)
			}
			if move != 1 || score != 102 {
				t.Errorf("BestMove = %d (%d), want 1 (102)", move, score)
			}
			if g.pile != 5 || len(g.history) != 0 || !g.legalValid {
				t.Errorf("game not restored: pile %d, history %v", g.pile, g.history)
			}
		})
	}
}

func TestTakeAwayLosingPile(t *testing.T) {
	s, err := New[int](Config[*takeAway]{Kind: AlphaBeta, Depth: 8, Evaluator: takeAwayScore})
	if err != nil {
		t.Fatal(err)
	}
	score, err := s.Evaluate(newTakeAway(8, 3))
	if err != nil {
		t.Fatal(err)
	}
	if score >= 0 {
		t.Errorf("pile of 8 should lose for the mover, got %d", score)
	}
}

func newChess(t *testing.T, kind Kind, depth, qdepth int) *Searcher[board.Move, *board.Position] {
	t.Helper()
	s, err := New[board.Move](Config[*board.Position]{
		Kind:            kind,
		Depth:           depth,
		QuiescenceDepth: qdepth,
		Evaluator:       eval.Evaluate,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMinimaxMatchesAlphaBeta(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/4p3/3p4/8/8/8/3QK3 w - - 0 1",
	}
	maxDepth := 3
	if testing.Short() {
		maxDepth = 2
	}

	for _, fen := range fens {
		for depth := 1; depth <= maxDepth; depth++ {
			pos, err := board.ParseFEN(fen)
			if err != nil {
				t.Fatal(err)
			}
			mm := newChess(t, Minimax, depth, 0)
			ab := newChess(t, AlphaBeta, depth, 0)

			want, err := mm.Evaluate(pos)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ab.Evaluate(pos)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s depth %d: alpha-beta %d, minimax %d", fen, depth, got, want)
			}
			if ab.Nodes() > mm.Nodes() {
				t.Errorf("%s depth %d: alpha-beta visited %d nodes, minimax %d", fen, depth, ab.Nodes(), mm.Nodes())
			}
			if pos.ToFEN() != fen {
				t.Errorf("search changed the position: %s", pos.ToFEN())
			}
		}
	}
}

func TestMateInOne(t *testing.T) {
	for _, kind := range []Kind{Minimax, AlphaBeta, Quiescence} {
		t.Run(kind.String(), func(t *testing.T) {
			pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
			if err != nil {
				t.Fatal(err)
			}
			s := newChess(t, kind, 2, 2)
			move, score, err := s.BestMove(pos)
			if err != nil {
				t.Fatal(err)
			}
			if move.String() != "a1a8" {
				t.Errorf("BestMove = %v, want a1a8", move)
			}
			if score != eval.WhiteWinScore+1 {
				t.Errorf("score = %d, want %d", score, eval.WhiteWinScore+1)
			}
		})
	}
}

func TestQuiescenceSeesRecapture(t *testing.T) {
	// Qxd5 wins a pawn at the horizon but exd5 loses the queen.
	const fen = "4k3/8/4p3/3p4/8/8/8/3QK3 w - - 0 1"

	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	move, score, err := newChess(t, AlphaBeta, 1, 0).BestMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	if move.String() != "d1d5" || score != 800 {
		t.Errorf("alpha-beta: %v (%d), want d1d5 (800)", move, score)
	}

	move, score, err = newChess(t, Quiescence, 1, 2).BestMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	if move.String() == "d1d5" || score != 700 {
		t.Errorf("quiescence: %v (%d), want a non-capture scoring 700", move, score)
	}
}

func TestBestMoveGameOver(t *testing.T) {
	pos, err := board.ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := newChess(t, AlphaBeta, 2, 0)
	if _, _, err := s.BestMove(pos); !errors.Is(err, ErrGameOver) {
		t.Errorf("BestMove on mate = %v, want ErrGameOver", err)
	}
	score, err := s.Evaluate(pos)
	if err != nil {
		t.Fatal(err)
	}
	if score != eval.WhiteWinScore+2 {
		t.Errorf("Evaluate on mate = %d, want %d", score, eval.WhiteWinScore+2)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config[*board.Position]
		want error
	}{
		{"zero depth", Config[*board.Position]{Kind: AlphaBeta, Depth: 0, Evaluator: eval.Evaluate}, ErrInvalidDepth},
		{"negative quiescence", Config[*board.Position]{Kind: Quiescence, Depth: 2, QuiescenceDepth: -1, Evaluator: eval.Evaluate}, ErrInvalidDepth},
		{"no evaluator", Config[*board.Position]{Kind: Minimax, Depth: 2}, ErrNoEvaluator},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New[board.Move](tc.cfg); !errors.Is(err, tc.want) {
				t.Errorf("New = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Minimax, AlphaBeta, Quiescence} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("mcts"); err == nil {
		t.Error("ParseKind accepted an unknown kind")
	}
}

func BenchmarkAlphaBetaStart(b *testing.B) {
	s, err := New[board.Move](Config[*board.Position]{Kind: AlphaBeta, Depth: 3, Evaluator: eval.Evaluate})
	if err != nil {
		b.Fatal(err)
	}
	pos := board.NewPosition()
	for i := 0; i < b.N; i++ {
		if _, _, err := s.BestMove(pos); err != nil {
			b.Fatal(err)
		}
	}
}
