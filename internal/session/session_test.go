package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/search"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(search.Config[*board.Position]{Kind: search.AlphaBeta, Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStartScenario(t *testing.T) {
	s := newSession(t)
	if n := len(s.LegalDestinations(int(board.E2))); n != 2 {
		t.Errorf("e2 has %d destinations, want 2", n)
	}
	if err := s.ApplyIndexMove(int(board.E2), int(board.E4)); err != nil {
		t.Fatal(err)
	}
	if got := s.FEN(); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("FEN = %q", got)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.FEN() != board.StartFEN {
		t.Errorf("FEN after undo = %q", s.FEN())
	}
	if err := s.Undo(); !errors.Is(err, board.ErrNoHistory) {
		t.Errorf("Undo at start = %v, want ErrNoHistory", err)
	}
}

func TestLegalDestinations(t *testing.T) {
	s := newSession(t)
	got := s.LegalDestinations(int(board.G1))
	want := []int{int(board.F3), int(board.H3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("g1 destinations = %v, want %v", got, want)
	}
	if got := s.LegalDestinations(int(board.E4)); len(got) != 0 {
		t.Errorf("empty square has destinations %v", got)
	}
	if got := s.LegalDestinations(99); got != nil {
		t.Errorf("out of range index gave %v", got)
	}
}

func TestPromotionFlow(t *testing.T) {
	s := newSession(t)
	if err := s.LoadFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Promote(board.Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("Promote with nothing pending = %v", err)
	}

	if err := s.ApplyIndexMove(int(board.B7), int(board.B8)); err != nil {
		t.Fatal(err)
	}
	if !s.PendingPromotion() {
		t.Fatal("expected a pending promotion")
	}
	if s.pos.SideToMove != board.White {
		t.Error("move played before the promotion piece was chosen")
	}
	if err := s.ApplyIndexMove(int(board.E1), int(board.E2)); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("move during pending promotion = %v", err)
	}
	for _, pt := range []board.PieceType{board.King, board.Pawn} {
		if err := s.Promote(pt); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("Promote(%v) = %v, want ErrIllegalMove", pt, err)
		}
		if !s.PendingPromotion() || s.pos.PieceAt(board.B7) != board.NewPiece(board.Pawn, board.White) {
			t.Fatalf("Promote(%v) changed the game", pt)
		}
	}
	if err := s.Promote(board.Knight); err != nil {
		t.Fatal(err)
	}
	if s.PendingPromotion() {
		t.Error("promotion still pending")
	}
	if got := s.pos.PieceAt(board.B8); got != board.NewPiece(board.Knight, board.White) {
		t.Errorf("b8 holds %v, want N", got)
	}
	if h := s.History(); len(h) != 1 || h[0] != "b8=N" {
		t.Errorf("History = %v", h)
	}
}

func TestCastleByDroppingOnRook(t *testing.T) {
	s := newSession(t)
	if err := s.LoadFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyIndexMove(int(board.E1), int(board.H1)); err != nil {
		t.Fatal(err)
	}
	if s.pos.PieceAt(board.G1) != board.NewPiece(board.King, board.White) ||
		s.pos.PieceAt(board.F1) != board.NewPiece(board.Rook, board.White) {
		t.Errorf("king-on-rook did not castle:\n%s", s.pos)
	}
}

func TestApplyText(t *testing.T) {
	s := newSession(t)
	for _, text := range []string{"e2e4", "e5", "Nf3", "b8c6"} {
		if _, err := s.ApplyText(text); err != nil {
			t.Fatalf("ApplyText(%q): %v", text, err)
		}
	}
	want := []string{"e4", "e5", "Nf3", "Nc6"}
	if got := s.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}
	if _, err := s.ApplyText("e2e4"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("illegal text move = %v", err)
	}
}

func TestLoadFENKeepsGameOnError(t *testing.T) {
	s := newSession(t)
	if _, err := s.ApplyText("d2d4"); err != nil {
		t.Fatal(err)
	}
	before := s.FEN()
	err := s.LoadFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1")
	var pe *board.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("LoadFEN = %v, want *board.ParseError", err)
	}
	if s.FEN() != before || len(s.History()) != 1 {
		t.Error("failed load replaced the game")
	}
}

func TestEngineMove(t *testing.T) {
	s := newSession(t)
	if err := s.LoadFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	m, _, err := s.PlayEngineMove()
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "a1a8" {
		t.Errorf("engine played %v, want a1a8", m)
	}
	if s.Result() != "White wins by checkmate" {
		t.Errorf("Result = %q", s.Result())
	}
	if _, _, err := s.EngineMove(); !errors.Is(err, ErrGameOver) {
		t.Errorf("EngineMove after mate = %v", err)
	}
	if s.Nodes() == 0 {
		t.Error("no nodes recorded")
	}
}

func TestNewRejectsBadDepth(t *testing.T) {
	if _, err := New(search.Config[*board.Position]{Kind: search.Minimax}); !errors.Is(err, search.ErrInvalidDepth) {
		t.Errorf("New(depth 0) = %v", err)
	}
}
