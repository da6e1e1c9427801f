// Package session holds one game in progress and exposes the operations a
// board front end or command shell drives it with.
package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hailam/chesssearch/internal/board"
	"github.com/hailam/chesssearch/internal/eval"
	"github.com/hailam/chesssearch/internal/search"
)

var (
	ErrNoPendingPromotion = errors.New("session: no promotion pending")
	ErrPromotionPending   = errors.New("session: promotion pending")
	ErrIllegalMove        = errors.New("session: illegal move")
	ErrGameOver           = errors.New("session: game is over")
)

type pendingPromotion struct {
	from, to board.Square
}

// Session is a single game. It is not safe for concurrent use.
type Session struct {
	pos      *board.Position
	san      []string
	pending  *pendingPromotion
	searcher *search.Searcher[board.Move, *board.Position]
}

// New starts a session at the initial position using cfg for engine moves.
func New(cfg search.Config[*board.Position]) (*Session, error) {
	s := &Session{pos: board.NewPosition()}
	if err := s.SetSearch(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSearch replaces the engine configuration.
func (s *Session) SetSearch(cfg search.Config[*board.Position]) error {
	if cfg.Evaluator == nil {
		cfg.Evaluator = eval.Evaluate
	}
	searcher, err := search.New[board.Move](cfg)
	if err != nil {
		return err
	}
	s.searcher = searcher
	return nil
}

// Search returns the engine configuration.
func (s *Session) Search() search.Config[*board.Position] {
	return s.searcher.Config()
}

// Position returns the live position. Callers must not mutate it.
func (s *Session) Position() *board.Position {
	return s.pos
}

// Reset returns to the initial position.
func (s *Session) Reset() {
	s.pos = board.NewPosition()
	s.san = nil
	s.pending = nil
}

// FEN returns the current position as FEN.
func (s *Session) FEN() string {
	return s.pos.ToFEN()
}

// LoadFEN replaces the position. On error the current game is kept.
func (s *Session) LoadFEN(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	s.pos = pos
	s.san = nil
	s.pending = nil
	return nil
}

// LegalDestinations returns the squares the piece on from can move to,
// ascending. Promotions appear once.
func (s *Session) LegalDestinations(from int) []int {
	if from < 0 || from >= 64 {
		return nil
	}
	moves := s.pos.LegalMoves()
	seen := map[int]bool{}
	var dests []int
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if int(m.From()) != from || seen[int(m.To())] {
			continue
		}
		seen[int(m.To())] = true
		dests = append(dests, int(m.To()))
	}
	sort.Ints(dests)
	return dests
}

// ApplyIndexMove plays the move between two square indices (a1=0, h8=63).
// Dropping the king on its own rook castles. A pawn reaching the last rank
// enters the pending promotion state instead of moving; Promote finishes it.
func (s *Session) ApplyIndexMove(from, to int) error {
	if s.pending != nil {
		return ErrPromotionPending
	}
	if from < 0 || from >= 64 || to < 0 || to >= 64 {
		return fmt.Errorf("%w: square index out of range", ErrIllegalMove)
	}
	src, dst := board.Square(from), board.Square(to)

	moves := s.pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != src {
			continue
		}
		if m.To() == dst {
			if m.IsPromotion() {
				s.pending = &pendingPromotion{from: src, to: dst}
				return nil
			}
			s.apply(m)
			return nil
		}
		if m.IsCastling() && castlesOnto(m, dst) {
			s.apply(m)
			return nil
		}
	}
	return fmt.Errorf("%w: %v to %v", ErrIllegalMove, src, dst)
}

// castlesOnto reports whether dst is the rook square of castling move m.
func castlesOnto(m board.Move, dst board.Square) bool {
	switch m.To() {
	case board.G1:
		return dst == board.H1
	case board.C1:
		return dst == board.A1
	case board.G8:
		return dst == board.H8
	case board.C8:
		return dst == board.A8
	}
	return false
}

// PendingPromotion reports whether a promotion awaits its piece choice.
func (s *Session) PendingPromotion() bool {
	return s.pending != nil
}

// Promote completes a pending promotion.
func (s *Session) Promote(pt board.PieceType) error {
	if s.pending == nil {
		return ErrNoPendingPromotion
	}
	if pt < board.Knight || pt > board.Queen {
		return fmt.Errorf("%w: cannot promote to %v", ErrIllegalMove, pt)
	}
	m := board.NewPromotion(s.pending.from, s.pending.to, pt)
	list := s.pos.LegalMoves()
	if !list.Contains(m) {
		return fmt.Errorf("%w: cannot promote to %v", ErrIllegalMove, pt)
	}
	s.pending = nil
	s.apply(m)
	return nil
}

// CancelPromotion abandons a pending promotion.
func (s *Session) CancelPromotion() {
	s.pending = nil
}

// ApplyText plays a move written in coordinate form ("e2e4", "e7e8q") or SAN.
func (s *Session) ApplyText(text string) (board.Move, error) {
	if s.pending != nil {
		return board.NoMove, ErrPromotionPending
	}
	m, err := s.pos.ParseMove(text)
	if err != nil {
		var sanErr error
		if m, sanErr = s.pos.ParseSAN(text); sanErr != nil {
			return board.NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
		}
	}
	s.apply(m)
	return m, nil
}

func (s *Session) apply(m board.Move) {
	s.san = append(s.san, s.pos.SAN(m))
	s.pos.MakeMove(m)
	s.pos.GenerateLegalMoves()
}

// Undo takes back the last move, or cancels a pending promotion.
func (s *Session) Undo() error {
	if s.pending != nil {
		s.pending = nil
		return nil
	}
	if err := s.pos.UndoMove(); err != nil {
		return err
	}
	s.san = s.san[:len(s.san)-1]
	return nil
}

// History returns the moves played this session in SAN.
func (s *Session) History() []string {
	return append([]string(nil), s.san...)
}

// EngineMove searches the current position and returns the chosen move and
// its score without playing it.
func (s *Session) EngineMove() (board.Move, int, error) {
	if s.pos.IsGameOver() {
		return board.NoMove, 0, ErrGameOver
	}
	return s.searcher.BestMove(s.pos)
}

// PlayEngineMove searches and plays the chosen move.
func (s *Session) PlayEngineMove() (board.Move, int, error) {
	if s.pending != nil {
		return board.NoMove, 0, ErrPromotionPending
	}
	m, score, err := s.EngineMove()
	if err != nil {
		return board.NoMove, 0, err
	}
	s.apply(m)
	return m, score, nil
}

// Nodes returns the node count of the last engine search.
func (s *Session) Nodes() uint64 {
	return s.searcher.Nodes()
}

// Evaluate returns the static score of the current position.
func (s *Session) Evaluate() int {
	return eval.Evaluate(s.pos, 0)
}

// Result describes how the game ended, or "" while it is still going.
func (s *Session) Result() string {
	switch {
	case s.pos.IsCheckmate():
		if s.pos.SideToMove == board.White {
			return "Black wins by checkmate"
		}
		return "White wins by checkmate"
	case s.pos.IsStalemate():
		return "Draw by stalemate"
	case s.pos.IsRepetition():
		return "Draw by threefold repetition"
	case s.pos.HalfMoveClock >= 100:
		return "Draw by 50-move rule"
	case s.pos.IsInsufficientMaterial():
		return "Draw by insufficient material"
	}
	return ""
}
